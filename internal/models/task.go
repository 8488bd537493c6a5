package models

import (
	"time"
)

// TaskStatus represents the stored approval-track status of a task
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusApproved  TaskStatus = "approved"
	StatusRejected  TaskStatus = "rejected"
	StatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Priority is shared by projects and tasks
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// MaxProgress is the progress value at which a task counts as done.
const MaxProgress = 100

// Task represents a unit of work inside a project
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	ProjectID   string     `json:"projectId" gorm:"column:project_id;not null;index"`
	AssignedTo  *string    `json:"assignedTo" gorm:"column:assigned_to;index"`
	CreatedBy   string     `json:"createdBy" gorm:"column:created_by;not null"`
	Status      TaskStatus `json:"status" gorm:"not null;default:'pending'"`
	Progress    int        `json:"progress" gorm:"not null;default:0"`
	Priority    Priority   `json:"priority" gorm:"default:'medium'"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// IsAssignedTo reports whether the task is currently assigned to userID.
func (t Task) IsAssignedTo(userID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// NormalizeLegacy migrates records written by older clients, which left
// finished tasks as approved with full progress, to the canonical completed status.
func (t *Task) NormalizeLegacy() {
	if t.Progress >= MaxProgress && t.Status == StatusApproved {
		t.Status = StatusCompleted
	}
	if t.Status == StatusCompleted {
		t.Progress = MaxProgress
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}
