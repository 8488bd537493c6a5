package store

import (
	"context"

	"project-management-api/internal/models"
)

// TaskQuery narrows ListTasks. Empty fields match everything.
type TaskQuery struct {
	ProjectID  string
	AssignedTo string
	CreatedBy  string
	Status     models.TaskStatus
}

func (s *Store) CreateTask(ctx context.Context, t models.Task) error {
	unlock := s.lockW()
	defer unlock()
	return s.conn(ctx).Create(&t).Error
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	unlock := s.lockR()
	defer unlock()
	var t models.Task
	err := s.conn(ctx).Where("id = ?", id).First(&t).Error
	return t, notFound(err)
}

// SaveTask overwrites every column of an existing task, including nil assignee
// and deadline.
func (s *Store) SaveTask(ctx context.Context, t models.Task) error {
	unlock := s.lockW()
	defer unlock()
	res := s.conn(ctx).Model(&models.Task{}).Where("id = ?", t.ID).Select("*").Updates(&t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTasks returns matching tasks in creation order.
func (s *Store) ListTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	unlock := s.lockR()
	defer unlock()
	db := s.conn(ctx).Order("created_at asc, id asc")
	if q.ProjectID != "" {
		db = db.Where("project_id = ?", q.ProjectID)
	}
	if q.AssignedTo != "" {
		db = db.Where("assigned_to = ?", q.AssignedTo)
	}
	if q.CreatedBy != "" {
		db = db.Where("created_by = ?", q.CreatedBy)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	var tasks []models.Task
	if err := db.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// DeleteTask removes a task and its comments.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(tx *Store) error {
		db := tx.conn(ctx)
		if err := db.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := db.Where("id = ?", id).Delete(&models.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
