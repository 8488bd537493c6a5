package store

import (
	"context"

	"project-management-api/internal/models"
)

func (s *Store) CreateProject(ctx context.Context, p models.Project) error {
	unlock := s.lockW()
	defer unlock()
	return s.conn(ctx).Create(&p).Error
}

func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	unlock := s.lockR()
	defer unlock()
	var p models.Project
	err := s.conn(ctx).Where("id = ?", id).First(&p).Error
	return p, notFound(err)
}

// SaveProject overwrites every column of an existing project.
func (s *Store) SaveProject(ctx context.Context, p models.Project) error {
	unlock := s.lockW()
	defer unlock()
	res := s.conn(ctx).Model(&models.Project{}).Where("id = ?", p.ID).Select("*").Updates(&p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProjects returns projects ordered by creation; managerID narrows to one manager.
func (s *Store) ListProjects(ctx context.Context, managerID string) ([]models.Project, error) {
	unlock := s.lockR()
	defer unlock()
	q := s.conn(ctx).Order("created_at asc, id asc")
	if managerID != "" {
		q = q.Where("manager_id = ?", managerID)
	}
	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// DeleteProject removes a project together with its tasks and their comments.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(tx *Store) error {
		db := tx.conn(ctx)
		var taskIDs []string
		if err := db.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := db.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := db.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		res := db.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
