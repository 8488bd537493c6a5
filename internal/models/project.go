package models

import "time"

// ProjectStatus represents the manager-controlled state of a project
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

// Project is a named container of tasks owned by a manager
type Project struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description"`
	ManagerID   string        `json:"managerId" gorm:"column:manager_id;not null;index"`
	Status      ProjectStatus `json:"status" gorm:"not null;default:'active'"`
	Priority    Priority      `json:"priority" gorm:"default:'medium'"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"autoCreateTime:false"`
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}
