package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"project-management-api/internal/models"
	"project-management-api/internal/store"
)

// NewProject holds the fields of a project being created.
type NewProject struct {
	Name        string               `validate:"required,max=200"`
	Description string               `validate:"max=5000"`
	ManagerID   string               `validate:"required"`
	Status      models.ProjectStatus `validate:"omitempty,oneof=active on-hold completed"`
	Priority    models.Priority      `validate:"omitempty,oneof=low medium high"`
	Deadline    *time.Time
}

// ProjectUpdate edits a project. Nil fields are left unchanged; ClearDeadline
// removes the deadline.
type ProjectUpdate struct {
	Name          *string
	Description   *string
	Status        *models.ProjectStatus
	Priority      *models.Priority
	Deadline      *time.Time
	ClearDeadline bool
}

// ProjectResult mirrors TaskResult for projects.
type ProjectResult struct {
	Project models.Project
	Applied bool
}

// AddProject creates a project owned by a manager.
func (e *Engine) AddProject(ctx context.Context, in NewProject) (models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return models.Project{}, err
	}
	if in.Status == "" {
		in.Status = models.ProjectActive
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	var p models.Project
	err := e.Store.Transaction(ctx, func(tx *store.Store) error {
		manager, err := tx.GetUser(ctx, in.ManagerID)
		if err != nil {
			return fmt.Errorf("manager %s: %w", in.ManagerID, err)
		}
		if !manager.IsManager() {
			return validationError("user %s is not a manager", manager.ID)
		}
		p = models.Project{
			ID:          e.newID(),
			Name:        in.Name,
			Description: in.Description,
			ManagerID:   manager.ID,
			Status:      in.Status,
			Priority:    in.Priority,
			Deadline:    in.Deadline,
			CreatedAt:   e.now(),
		}
		return tx.CreateProject(ctx, p)
	})
	if err != nil {
		return models.Project{}, err
	}
	e.Metrics.Transition("project", "create")
	e.logInfo(ctx, "project created", "project_id", p.ID, "manager_id", p.ManagerID)
	return p, nil
}

// UpdateProject applies the non-nil fields of u. Project status is only ever
// set here; it is not derived from task completion.
func (e *Engine) UpdateProject(ctx context.Context, id string, u ProjectUpdate) (ProjectResult, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ProjectResult{}, validationError("name must not be empty")
	}
	if u.Status != nil && !u.Status.Valid() {
		return ProjectResult{}, validationError("unknown project status %q", *u.Status)
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return ProjectResult{}, validationError("unknown priority %q", *u.Priority)
	}

	var result ProjectResult
	err := e.Store.Transaction(ctx, func(tx *store.Store) error {
		p, err := tx.GetProject(ctx, id)
		if err != nil {
			return fmt.Errorf("project %s: %w", id, err)
		}
		before := p
		if u.Name != nil {
			p.Name = strings.TrimSpace(*u.Name)
		}
		if u.Description != nil {
			p.Description = *u.Description
		}
		if u.Status != nil {
			p.Status = *u.Status
		}
		if u.Priority != nil {
			p.Priority = *u.Priority
		}
		if u.ClearDeadline {
			p.Deadline = nil
		} else if u.Deadline != nil {
			p.Deadline = u.Deadline
		}
		if projectEqual(before, p) {
			result = ProjectResult{Project: before}
			return nil
		}
		if err := tx.SaveProject(ctx, p); err != nil {
			return err
		}
		result = ProjectResult{Project: p, Applied: true}
		return nil
	})
	if err != nil {
		return ProjectResult{}, err
	}
	if result.Applied {
		e.Metrics.Transition("project", "update")
		e.logInfo(ctx, "project updated", "project_id", id, "status", result.Project.Status)
	}
	return result, nil
}

func projectEqual(a, b models.Project) bool {
	sameDeadline := (a.Deadline == nil && b.Deadline == nil) ||
		(a.Deadline != nil && b.Deadline != nil && a.Deadline.Equal(*b.Deadline))
	return sameDeadline &&
		a.Name == b.Name &&
		a.Description == b.Description &&
		a.Status == b.Status &&
		a.Priority == b.Priority
}

// DeleteProject removes a project with its tasks and their comments.
func (e *Engine) DeleteProject(ctx context.Context, id string) error {
	if err := e.Store.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("project %s: %w", id, err)
	}
	e.Metrics.Transition("project", "delete")
	e.logInfo(ctx, "project deleted", "project_id", id)
	return nil
}
