package seed

import (
	"context"
	"testing"

	"project-management-api/internal/auth"
	"project-management-api/internal/metrics"
	"project-management-api/internal/models"
	"project-management-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestDemoApply(t *testing.T) {
	ds, err := Demo()
	require.NoError(t, err)

	s := testutil.NewStore(t)
	ctx := context.Background()
	sum, err := Apply(ctx, s, ds)
	require.NoError(t, err)
	require.Equal(t, Summary{Users: 4, Projects: 3, Tasks: 7, Comments: 5, Notifications: 7, Normalized: 1}, sum)

	legacy, err := s.GetTask(ctx, "task-4")
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, legacy.Status)
	require.Equal(t, 100, legacy.Progress)

	unassigned, err := s.GetTask(ctx, "task-7")
	require.NoError(t, err)
	require.Nil(t, unassigned.AssignedTo)

	manager, err := s.GetUserByEmail(ctx, "manager@example.com")
	require.NoError(t, err)
	require.True(t, manager.IsManager())
	require.NoError(t, auth.CheckPassword(manager.PasswordHash, ds.Password))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	rollups := metrics.ProjectRollups(snap.Projects, snap.Tasks)
	require.Equal(t, "Website Redesign", rollups[0].Name)
	require.Equal(t, 0, rollups[0].Percent)
	require.Equal(t, 50, rollups[1].Percent)

	unread, err := s.ListNotifications(ctx, "user-2", true)
	require.NoError(t, err)
	require.Len(t, unread, 2)
}

func TestApplyTwiceFails(t *testing.T) {
	ds, err := Demo()
	require.NoError(t, err)
	s := testutil.NewStore(t)

	_, err = Apply(context.Background(), s, ds)
	require.NoError(t, err)
	_, err = Apply(context.Background(), s, ds)
	require.ErrorIs(t, err, ErrAlreadySeeded)
}

func TestFromYAMLValidates(t *testing.T) {
	_, err := FromYAML([]byte(`
password: password123
users:
  - {id: u1, name: A, email: a@example.com, role: team_member}
projects:
  - {id: p1, name: P, manager_id: u1}
`))
	require.ErrorContains(t, err, "not a known manager")

	_, err = FromYAML([]byte(`
password: password123
users:
  - {id: u1, name: A, email: a@example.com, role: manager}
projects:
  - {id: p1, name: P, manager_id: u1}
tasks:
  - {id: t1, title: T, project_id: p1, created_by: u1, status: approved, progress: 120}
`))
	require.ErrorContains(t, err, "progress")

	_, err = FromYAML([]byte("password: x"))
	require.Error(t, err)

	_, err = FromYAML([]byte(":::"))
	require.Error(t, err)
}
