package models

// DisplayState is the UI-facing state derived from stored status and progress.
// It is never persisted.
type DisplayState string

const (
	DisplayCompleted  DisplayState = "completed"
	DisplayInProgress DisplayState = "inProgress"
	DisplayNotStarted DisplayState = "notStarted"
	DisplayPending    DisplayState = "pending"
	DisplayRejected   DisplayState = "rejected"
)

// DisplayStatus derives the display state of a task. Full progress wins over the
// stored status so that approved tasks at 100 render as completed.
func DisplayStatus(t Task) DisplayState {
	if t.Progress >= MaxProgress || t.Status == StatusCompleted {
		return DisplayCompleted
	}
	switch t.Status {
	case StatusPending:
		return DisplayPending
	case StatusRejected:
		return DisplayRejected
	}
	if t.Progress > 0 {
		return DisplayInProgress
	}
	return DisplayNotStarted
}
