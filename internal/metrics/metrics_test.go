package metrics

import (
	"testing"
	"time"

	"project-management-api/internal/models"
	"project-management-api/internal/store"

	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func task(id string, status models.TaskStatus, progress int) models.Task {
	return models.Task{
		ID:        id,
		Title:     "Task " + id,
		ProjectID: "p-1",
		Status:    status,
		Progress:  progress,
		Priority:  models.PriorityMedium,
		CreatedAt: day0,
		UpdatedAt: day0,
	}
}

func TestCompletionRatioAndGroupProgress(t *testing.T) {
	tasks := []models.Task{
		task("1", models.StatusCompleted, 100),
		task("2", models.StatusApproved, 50),
		task("3", models.StatusApproved, 0),
		task("4", models.StatusApproved, 100),
	}
	require.Equal(t, 0.5, CompletionRatio(tasks))
	require.Equal(t, 50, GroupProgress(tasks))
	require.Equal(t, 50, TaskProgress(tasks[1]))
}

func TestCompletionRatio_Empty(t *testing.T) {
	require.Equal(t, 0.0, CompletionRatio(nil))
	require.Equal(t, 0, GroupProgress([]models.Task{}))
}

func TestGroupProgressRounds(t *testing.T) {
	tasks := []models.Task{
		task("1", models.StatusCompleted, 100),
		task("2", models.StatusApproved, 10),
		task("3", models.StatusApproved, 10),
	}
	require.Equal(t, 33, GroupProgress(tasks))
	tasks = append(tasks[:1], task("4", models.StatusCompleted, 100), task("5", models.StatusApproved, 0))
	require.Equal(t, 67, GroupProgress(tasks))
}

func TestFilterByStatusPreservesOrder(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusPending, 0),
		task("b", models.StatusApproved, 10),
		task("c", models.StatusRejected, 0),
		task("d", models.StatusApproved, 60),
		task("e", models.StatusCompleted, 100),
	}
	got := FilterByStatus(tasks, models.StatusApproved)
	require.Len(t, got, 2)
	require.Equal(t, "b", got[0].ID)
	require.Equal(t, "d", got[1].ID)

	require.Empty(t, FilterByStatus(tasks, "unknown"))
	require.NotNil(t, FilterByStatus(nil, models.StatusPending))
}

func TestDistribute(t *testing.T) {
	tasks := []models.Task{
		task("1", models.StatusCompleted, 100),
		task("2", models.StatusApproved, 100),
		task("3", models.StatusApproved, 40),
		task("4", models.StatusApproved, 0),
		task("5", models.StatusPending, 0),
		task("6", models.StatusRejected, 0),
	}
	d := Distribute(tasks)
	require.Equal(t, Distribution{Completed: 2, InProgress: 1, NotStarted: 1, Pending: 1, Rejected: 1}, d)
	require.Equal(t, len(tasks), d.Total())
}

func TestFilterIsConjunctive(t *testing.T) {
	member := "u-1"
	a := task("a", models.StatusApproved, 20)
	a.AssignedTo = &member
	a.Priority = models.PriorityHigh
	b := task("b", models.StatusApproved, 80)
	b.AssignedTo = &member
	b.CreatedAt = day0.AddDate(0, 0, 10)
	c := task("c", models.StatusApproved, 20)
	c.ProjectID = "p-2"
	tasks := []models.Task{a, b, c}

	require.Len(t, Filter(tasks, ReportFilters{}), 3)
	require.Equal(t, []models.Task{a, b}, Filter(tasks, ReportFilters{UserID: member}))
	require.Equal(t, []models.Task{a}, Filter(tasks, ReportFilters{UserID: member, Priority: models.PriorityHigh}))
	require.Equal(t, []models.Task{c}, Filter(tasks, ReportFilters{ProjectID: "p-2"}))
	require.Equal(t, []models.Task{a, c}, Filter(tasks, ReportFilters{StartDate: day0, EndDate: day0.AddDate(0, 0, 1)}))

	lo, hi := 50, 100
	require.Equal(t, []models.Task{b}, Filter(tasks, ReportFilters{MinProgress: &lo, MaxProgress: &hi}))
	require.Equal(t, []models.Task{b}, FilterByProgressRange(tasks, lo, hi))
	require.Equal(t, []models.Task{b}, FilterByDateRange(tasks, day0.AddDate(0, 0, 5), time.Time{}))
	require.Equal(t, []models.Task{a}, FilterByPriority(tasks, models.PriorityHigh))
}

func TestFunctionsDoNotMutateInput(t *testing.T) {
	tasks := []models.Task{task("2", models.StatusCompleted, 100), task("1", models.StatusCompleted, 100)}
	tasks[1].UpdatedAt = day0.Add(time.Hour)
	before := append([]models.Task(nil), tasks...)

	_ = RecentlyCompleted(tasks, 3)
	_ = Filter(tasks, ReportFilters{Status: models.StatusCompleted})
	_ = Distribute(tasks)
	require.Equal(t, before, tasks)
}

func TestGenerateReport(t *testing.T) {
	member := "u-member"
	snap := store.Snapshot{
		Users: []models.User{
			{ID: "u-manager", Name: "John Manager", Role: models.RoleManager},
			{ID: member, Name: "Jane Team", Role: models.RoleTeamMember},
		},
		Projects: []models.Project{
			{ID: "p-1", Name: "Website Redesign"},
			{ID: "p-2", Name: "Mobile App"},
		},
	}
	for i, progress := range []int{100, 100, 100, 100, 50} {
		tk := task(string(rune('a'+i)), models.StatusCompleted, progress)
		if progress < 100 {
			tk.Status = models.StatusApproved
		}
		tk.AssignedTo = &member
		tk.UpdatedAt = day0.Add(time.Duration(i) * time.Hour)
		snap.Tasks = append(snap.Tasks, tk)
	}
	other := task("z", models.StatusPending, 0)
	other.ProjectID = "p-2"
	snap.Tasks = append(snap.Tasks, other)

	r := GenerateReport(snap, ReportFilters{}, day0)
	require.Len(t, r.Tasks, 6)
	require.Equal(t, 67, r.Percent)
	require.Equal(t, Distribution{Completed: 4, InProgress: 1, Pending: 1}, r.Distribution)
	require.Equal(t, []Rollup{
		{ID: "p-1", Name: "Website Redesign", Total: 5, Completed: 4, Percent: 80},
		{ID: "p-2", Name: "Mobile App", Total: 1, Completed: 0, Percent: 0},
	}, r.Projects)
	require.Equal(t, []Rollup{{ID: member, Name: "Jane Team", Total: 5, Completed: 4, Percent: 80}}, r.Members)

	require.Len(t, r.RecentCompleted, RecentCompletedLimit)
	require.Equal(t, "d", r.RecentCompleted[0].ID)
	require.Equal(t, "c", r.RecentCompleted[1].ID)
	require.Equal(t, "b", r.RecentCompleted[2].ID)

	scoped := GenerateReport(snap, ReportFilters{ProjectID: "p-2"}, day0)
	require.Len(t, scoped.Tasks, 1)
	require.Len(t, scoped.Projects, 1)
	require.Equal(t, "p-2", scoped.Projects[0].ID)
	require.Empty(t, scoped.RecentCompleted)

	require.Equal(t, r, GenerateReport(snap, ReportFilters{}, day0))
}
