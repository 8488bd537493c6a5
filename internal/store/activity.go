package store

import (
	"context"

	"project-management-api/internal/models"
)

// CreateComment appends a comment. Comments are never edited or removed
// except when their task is deleted.
func (s *Store) CreateComment(ctx context.Context, c models.Comment) error {
	unlock := s.lockW()
	defer unlock()
	return s.conn(ctx).Create(&c).Error
}

// ListComments returns the comments of a task, oldest first.
func (s *Store) ListComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	unlock := s.lockR()
	defer unlock()
	var comments []models.Comment
	err := s.conn(ctx).Where("task_id = ?", taskID).Order("created_at asc, id asc").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// AppendNotification adds n to the notification log.
func (s *Store) AppendNotification(ctx context.Context, n models.Notification) error {
	unlock := s.lockW()
	defer unlock()
	return s.conn(ctx).Create(&n).Error
}

func (s *Store) GetNotification(ctx context.Context, id string) (models.Notification, error) {
	unlock := s.lockR()
	defer unlock()
	var n models.Notification
	err := s.conn(ctx).Where("id = ?", id).First(&n).Error
	return n, notFound(err)
}

// SetNotificationRead flips the read flag; it is the only mutation a
// notification ever sees.
func (s *Store) SetNotificationRead(ctx context.Context, id string) error {
	unlock := s.lockW()
	defer unlock()
	res := s.conn(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	unlock := s.lockR()
	defer unlock()
	q := s.conn(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []models.Notification
	if err := q.Order("created_at desc, id desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
