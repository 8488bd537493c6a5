package models

import "time"

// NotificationType classifies what produced a notification
type NotificationType string

const (
	NotificationTaskAssigned  NotificationType = "task_assigned"
	NotificationTaskApproved  NotificationType = "task_approved"
	NotificationTaskRejected  NotificationType = "task_rejected"
	NotificationTaskCompleted NotificationType = "task_completed"
	NotificationTaskSuggested NotificationType = "task_suggested"
	NotificationCommentAdded  NotificationType = "comment_added"
)

// Notification is a user-facing message. Only Read ever changes after creation.
type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey"`
	UserID    string           `json:"userId" gorm:"column:user_id;not null;index"`
	Message   string           `json:"message" gorm:"not null"`
	Read      bool             `json:"read" gorm:"not null;default:false"`
	Type      NotificationType `json:"type,omitempty"`
	RelatedID string           `json:"relatedId,omitempty" gorm:"column:related_id"`
	CreatedAt time.Time        `json:"createdAt" gorm:"autoCreateTime:false"`
}

// TableName specifies the table name for Notification Model
func (Notification) TableName() string {
	return "notifications"
}

// Comment is an append-only remark attached to a single task
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TaskID    string    `json:"taskId" gorm:"column:task_id;not null;index"`
	UserID    string    `json:"userId" gorm:"column:user_id;not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
}

// TableName specifies the table name for Comment Model
func (Comment) TableName() string {
	return "comments"
}
