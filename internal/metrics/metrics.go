// Package metrics derives progress figures, status distributions and reports
// from task lists. Every function is pure: inputs are never modified and the
// same input always yields the same output.
package metrics

import (
	"math"
	"time"

	"project-management-api/internal/models"
)

// CompletionRatio is the share of tasks at full progress, in [0,1]. An empty
// list has ratio 0.
func CompletionRatio(tasks []models.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Progress >= models.MaxProgress {
			done++
		}
	}
	return float64(done) / float64(len(tasks))
}

// TaskProgress is the percentage shown for a single task.
func TaskProgress(t models.Task) int {
	return min(max(t.Progress, 0), models.MaxProgress)
}

// GroupProgress is the percentage shown for a project or member: the
// completion ratio rounded to a whole percent.
func GroupProgress(tasks []models.Task) int {
	return int(math.Round(CompletionRatio(tasks) * 100))
}

// Distribution counts tasks per display state.
type Distribution struct {
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	NotStarted int `json:"notStarted"`
	Pending    int `json:"pending"`
	Rejected   int `json:"rejected"`
}

// Total is the number of tasks counted.
func (d Distribution) Total() int {
	return d.Completed + d.InProgress + d.NotStarted + d.Pending + d.Rejected
}

// Distribute partitions tasks by models.DisplayStatus.
func Distribute(tasks []models.Task) Distribution {
	var d Distribution
	for _, t := range tasks {
		switch models.DisplayStatus(t) {
		case models.DisplayCompleted:
			d.Completed++
		case models.DisplayInProgress:
			d.InProgress++
		case models.DisplayNotStarted:
			d.NotStarted++
		case models.DisplayPending:
			d.Pending++
		case models.DisplayRejected:
			d.Rejected++
		}
	}
	return d
}

// filter returns a new slice, never nil, holding the kept elements in order.
func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// FilterByStatus keeps tasks whose stored status equals status, in input order.
func FilterByStatus(tasks []models.Task, status models.TaskStatus) []models.Task {
	return filter(tasks, func(t models.Task) bool { return t.Status == status })
}

// FilterByDisplay keeps tasks with the given display state.
func FilterByDisplay(tasks []models.Task, state models.DisplayState) []models.Task {
	return filter(tasks, func(t models.Task) bool { return models.DisplayStatus(t) == state })
}

func FilterByPriority(tasks []models.Task, p models.Priority) []models.Task {
	return filter(tasks, func(t models.Task) bool { return t.Priority == p })
}

// ByProject keeps the tasks of one project.
func ByProject(tasks []models.Task, projectID string) []models.Task {
	return filter(tasks, func(t models.Task) bool { return t.ProjectID == projectID })
}

// ByAssignee keeps the tasks assigned to one user.
func ByAssignee(tasks []models.Task, userID string) []models.Task {
	return filter(tasks, func(t models.Task) bool { return t.IsAssignedTo(userID) })
}

// FilterByDateRange keeps tasks created within [start, end]. A zero bound is open.
func FilterByDateRange(tasks []models.Task, start, end time.Time) []models.Task {
	return filter(tasks, func(t models.Task) bool { return inRange(t.CreatedAt, start, end) })
}

// FilterByProgressRange keeps tasks with lo <= progress <= hi.
func FilterByProgressRange(tasks []models.Task, lo, hi int) []models.Task {
	return filter(tasks, func(t models.Task) bool { return t.Progress >= lo && t.Progress <= hi })
}

func inRange(at, start, end time.Time) bool {
	if !start.IsZero() && at.Before(start) {
		return false
	}
	if !end.IsZero() && at.After(end) {
		return false
	}
	return true
}
