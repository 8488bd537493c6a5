package metrics

import (
	"cmp"
	"slices"
	"time"

	"project-management-api/internal/models"
	"project-management-api/internal/store"
)

// RecentCompletedLimit caps Report.RecentCompleted.
const RecentCompletedLimit = 3

// ReportFilters narrows a report. Every field is optional and set fields are
// combined with AND.
type ReportFilters struct {
	ProjectID   string            `form:"projectId" json:"projectId,omitempty"`
	UserID      string            `form:"userId" json:"userId,omitempty"`
	Status      models.TaskStatus `form:"status" json:"status,omitempty"`
	Priority    models.Priority   `form:"priority" json:"priority,omitempty"`
	StartDate   time.Time         `form:"startDate" time_format:"2006-01-02" time_utc:"1" json:"startDate,omitzero"`
	EndDate     time.Time         `form:"endDate" time_format:"2006-01-02" time_utc:"1" json:"endDate,omitzero"`
	MinProgress *int              `form:"minProgress" json:"minProgress,omitempty"`
	MaxProgress *int              `form:"maxProgress" json:"maxProgress,omitempty"`
}

// Filter applies every set field of f to tasks.
func Filter(tasks []models.Task, f ReportFilters) []models.Task {
	return filter(tasks, func(t models.Task) bool {
		switch {
		case f.ProjectID != "" && t.ProjectID != f.ProjectID:
			return false
		case f.UserID != "" && !t.IsAssignedTo(f.UserID):
			return false
		case f.Status != "" && t.Status != f.Status:
			return false
		case f.Priority != "" && t.Priority != f.Priority:
			return false
		case !inRange(t.CreatedAt, f.StartDate, f.EndDate):
			return false
		case f.MinProgress != nil && t.Progress < *f.MinProgress:
			return false
		case f.MaxProgress != nil && t.Progress > *f.MaxProgress:
			return false
		}
		return true
	})
}

// Rollup is the progress summary of one project or member.
type Rollup struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Percent   int    `json:"percent"`
}

func rollup(id, name string, tasks []models.Task) Rollup {
	return Rollup{
		ID:        id,
		Name:      name,
		Total:     len(tasks),
		Completed: len(FilterByDisplay(tasks, models.DisplayCompleted)),
		Percent:   GroupProgress(tasks),
	}
}

// ProjectRollups summarizes tasks per project, in project order.
func ProjectRollups(projects []models.Project, tasks []models.Task) []Rollup {
	out := make([]Rollup, 0, len(projects))
	for _, p := range projects {
		out = append(out, rollup(p.ID, p.Name, ByProject(tasks, p.ID)))
	}
	return out
}

// MemberRollups summarizes assigned tasks per team member, in user order.
// Managers are skipped.
func MemberRollups(users []models.User, tasks []models.Task) []Rollup {
	out := make([]Rollup, 0, len(users))
	for _, u := range users {
		if u.IsManager() {
			continue
		}
		out = append(out, rollup(u.ID, u.Name, ByAssignee(tasks, u.ID)))
	}
	return out
}

// Report is the read model behind the reports page.
type Report struct {
	Filters         ReportFilters `json:"filters"`
	GeneratedAt     time.Time     `json:"generatedAt"`
	Tasks           []models.Task `json:"tasks"`
	Distribution    Distribution  `json:"distribution"`
	Percent         int           `json:"percent"`
	Projects        []Rollup      `json:"projects"`
	Members         []Rollup      `json:"members"`
	RecentCompleted []models.Task `json:"recentCompleted"`
}

// GenerateReport filters the snapshot's tasks and summarizes them. Rollups
// are computed over the filtered tasks; when a project or member filter is
// set only that entity is listed.
func GenerateReport(snap store.Snapshot, f ReportFilters, at time.Time) Report {
	tasks := Filter(snap.Tasks, f)

	projects := snap.Projects
	if f.ProjectID != "" {
		projects = filter(projects, func(p models.Project) bool { return p.ID == f.ProjectID })
	}
	users := snap.Users
	if f.UserID != "" {
		users = filter(users, func(u models.User) bool { return u.ID == f.UserID })
	}

	return Report{
		Filters:         f,
		GeneratedAt:     at,
		Tasks:           tasks,
		Distribution:    Distribute(tasks),
		Percent:         GroupProgress(tasks),
		Projects:        ProjectRollups(projects, tasks),
		Members:         MemberRollups(users, tasks),
		RecentCompleted: RecentlyCompleted(tasks, RecentCompletedLimit),
	}
}

// RecentlyCompleted returns up to n completed tasks, most recently updated first.
func RecentlyCompleted(tasks []models.Task, n int) []models.Task {
	done := FilterByDisplay(tasks, models.DisplayCompleted)
	slices.SortStableFunc(done, func(a, b models.Task) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(done) > n {
		done = done[:n]
	}
	return done
}
