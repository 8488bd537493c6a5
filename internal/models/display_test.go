package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplayStatus(t *testing.T) {
	cases := []struct {
		name string
		task Task
		want DisplayState
	}{
		{"approved full progress", Task{Status: StatusApproved, Progress: 100}, DisplayCompleted},
		{"completed", Task{Status: StatusCompleted, Progress: 100}, DisplayCompleted},
		{"approved partial", Task{Status: StatusApproved, Progress: 40}, DisplayInProgress},
		{"approved untouched", Task{Status: StatusApproved}, DisplayNotStarted},
		{"pending", Task{Status: StatusPending}, DisplayPending},
		{"rejected", Task{Status: StatusRejected}, DisplayRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DisplayStatus(tc.task))
		})
	}
}

func TestNormalizeLegacy(t *testing.T) {
	task := Task{Status: StatusApproved, Progress: 100}
	task.NormalizeLegacy()
	require.Equal(t, StatusCompleted, task.Status)
	require.Equal(t, PriorityMedium, task.Priority)

	task = Task{Status: StatusCompleted, Progress: 20, Priority: PriorityLow}
	task.NormalizeLegacy()
	require.Equal(t, MaxProgress, task.Progress)
	require.Equal(t, PriorityLow, task.Priority)
}

func TestEnumValidation(t *testing.T) {
	require.True(t, StatusPending.Valid())
	require.False(t, TaskStatus("done").Valid())
	require.True(t, ProjectOnHold.Valid())
	require.False(t, ProjectStatus("archived").Valid())
	require.True(t, PriorityLow.Valid())
	require.False(t, Priority("urgent").Valid())
	require.True(t, RoleManager.Valid())
	require.False(t, Role("admin").Valid())
}
