// Package seed loads the demo workspace: four users, three projects and the
// tasks, comments and notifications that go with them.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"project-management-api/internal/auth"
	"project-management-api/internal/models"
	"project-management-api/internal/store"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// ErrAlreadySeeded is returned when the store already holds one of the dataset's users.
var ErrAlreadySeeded = errors.New("store already seeded")

type User struct {
	ID    string      `yaml:"id"`
	Name  string      `yaml:"name"`
	Email string      `yaml:"email"`
	Role  models.Role `yaml:"role"`
}

type Project struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	ManagerID   string               `yaml:"manager_id"`
	CreatedAt   time.Time            `yaml:"created_at"`
	Deadline    *time.Time           `yaml:"deadline"`
	Status      models.ProjectStatus `yaml:"status"`
	Priority    models.Priority      `yaml:"priority"`
}

type Task struct {
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	ProjectID   string            `yaml:"project_id"`
	AssignedTo  string            `yaml:"assigned_to"`
	CreatedBy   string            `yaml:"created_by"`
	Status      models.TaskStatus `yaml:"status"`
	Progress    int               `yaml:"progress"`
	CreatedAt   time.Time         `yaml:"created_at"`
	UpdatedAt   time.Time         `yaml:"updated_at"`
	Deadline    *time.Time        `yaml:"deadline"`
	Priority    models.Priority   `yaml:"priority"`
}

type Comment struct {
	ID        string    `yaml:"id"`
	TaskID    string    `yaml:"task_id"`
	UserID    string    `yaml:"user_id"`
	Content   string    `yaml:"content"`
	CreatedAt time.Time `yaml:"created_at"`
}

type Notification struct {
	ID        string                  `yaml:"id"`
	UserID    string                  `yaml:"user_id"`
	Message   string                  `yaml:"message"`
	Read      bool                    `yaml:"read"`
	CreatedAt time.Time               `yaml:"created_at"`
	Type      models.NotificationType `yaml:"type"`
	RelatedID string                  `yaml:"related_id"`
}

// Dataset is a complete workspace. Every user gets Password.
type Dataset struct {
	Password      string         `yaml:"password"`
	Users         []User         `yaml:"users"`
	Projects      []Project      `yaml:"projects"`
	Tasks         []Task         `yaml:"tasks"`
	Comments      []Comment      `yaml:"comments"`
	Notifications []Notification `yaml:"notifications"`
}

// Demo returns the embedded demo dataset.
func Demo() (*Dataset, error) {
	return FromYAML(demoYAML)
}

// FromYAML parses and validates a dataset.
func FromYAML(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks references between records and enum values.
func (d *Dataset) Validate() error {
	if len(d.Password) < auth.MinPasswordLength {
		return fmt.Errorf("seed.password must be at least %d characters", auth.MinPasswordLength)
	}
	users := map[string]models.Role{}
	for _, u := range d.Users {
		if u.ID == "" || u.Email == "" {
			return fmt.Errorf("seed user %q needs id and email", u.Name)
		}
		if !u.Role.Valid() {
			return fmt.Errorf("seed user %s has unknown role %q", u.ID, u.Role)
		}
		users[u.ID] = u.Role
	}
	projects := map[string]bool{}
	for _, p := range d.Projects {
		if users[p.ManagerID] != models.RoleManager {
			return fmt.Errorf("seed project %s: manager %s is not a known manager", p.ID, p.ManagerID)
		}
		if p.Status != "" && !p.Status.Valid() {
			return fmt.Errorf("seed project %s has unknown status %q", p.ID, p.Status)
		}
		projects[p.ID] = true
	}
	tasks := map[string]bool{}
	for _, t := range d.Tasks {
		if !projects[t.ProjectID] {
			return fmt.Errorf("seed task %s references unknown project %s", t.ID, t.ProjectID)
		}
		if _, ok := users[t.CreatedBy]; !ok {
			return fmt.Errorf("seed task %s references unknown creator %s", t.ID, t.CreatedBy)
		}
		if _, ok := users[t.AssignedTo]; t.AssignedTo != "" && !ok {
			return fmt.Errorf("seed task %s references unknown assignee %s", t.ID, t.AssignedTo)
		}
		if !t.Status.Valid() {
			return fmt.Errorf("seed task %s has unknown status %q", t.ID, t.Status)
		}
		if t.Progress < 0 || t.Progress > models.MaxProgress {
			return fmt.Errorf("seed task %s has progress %d outside 0..%d", t.ID, t.Progress, models.MaxProgress)
		}
		tasks[t.ID] = true
	}
	for _, c := range d.Comments {
		if !tasks[c.TaskID] {
			return fmt.Errorf("seed comment %s references unknown task %s", c.ID, c.TaskID)
		}
	}
	for _, n := range d.Notifications {
		if _, ok := users[n.UserID]; !ok {
			return fmt.Errorf("seed notification %s references unknown user %s", n.ID, n.UserID)
		}
	}
	return nil
}

// Summary counts what Apply inserted.
type Summary struct {
	Users, Projects, Tasks, Comments, Notifications int
	// Normalized counts tasks migrated from the legacy approved-at-100 form.
	Normalized int
}

// Apply inserts the dataset in one transaction. Tasks are normalized to the
// canonical status representation on the way in.
func Apply(ctx context.Context, s *store.Store, d *Dataset) (Summary, error) {
	hash, err := auth.HashPassword(d.Password)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	err = s.Transaction(ctx, func(tx *store.Store) error {
		for _, u := range d.Users {
			if _, err := tx.GetUserByEmail(ctx, u.Email); err == nil {
				return fmt.Errorf("%w: %s exists", ErrAlreadySeeded, u.Email)
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			if err := tx.CreateUser(ctx, models.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, PasswordHash: hash}); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
			sum.Users++
		}
		for _, p := range d.Projects {
			rec := models.Project{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				ManagerID:   p.ManagerID,
				Status:      p.Status,
				Priority:    p.Priority,
				Deadline:    utcPtr(p.Deadline),
				CreatedAt:   p.CreatedAt.UTC(),
			}
			if rec.Status == "" {
				rec.Status = models.ProjectActive
			}
			if rec.Priority == "" {
				rec.Priority = models.PriorityMedium
			}
			if err := tx.CreateProject(ctx, rec); err != nil {
				return fmt.Errorf("seed project %s: %w", p.ID, err)
			}
			sum.Projects++
		}
		for _, t := range d.Tasks {
			rec := models.Task{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				ProjectID:   t.ProjectID,
				CreatedBy:   t.CreatedBy,
				Status:      t.Status,
				Progress:    t.Progress,
				Priority:    t.Priority,
				Deadline:    utcPtr(t.Deadline),
				CreatedAt:   t.CreatedAt.UTC(),
				UpdatedAt:   t.UpdatedAt.UTC(),
			}
			if t.AssignedTo != "" {
				rec.AssignedTo = &t.AssignedTo
			}
			before := rec.Status
			rec.NormalizeLegacy()
			if rec.Status != before {
				sum.Normalized++
			}
			if err := tx.CreateTask(ctx, rec); err != nil {
				return fmt.Errorf("seed task %s: %w", t.ID, err)
			}
			sum.Tasks++
		}
		for _, c := range d.Comments {
			rec := models.Comment{ID: c.ID, TaskID: c.TaskID, UserID: c.UserID, Content: c.Content, CreatedAt: c.CreatedAt.UTC()}
			if err := tx.CreateComment(ctx, rec); err != nil {
				return fmt.Errorf("seed comment %s: %w", c.ID, err)
			}
			sum.Comments++
		}
		for _, n := range d.Notifications {
			rec := models.Notification{
				ID:        n.ID,
				UserID:    n.UserID,
				Message:   n.Message,
				Read:      n.Read,
				Type:      n.Type,
				RelatedID: n.RelatedID,
				CreatedAt: n.CreatedAt.UTC(),
			}
			if err := tx.AppendNotification(ctx, rec); err != nil {
				return fmt.Errorf("seed notification %s: %w", n.ID, err)
			}
			sum.Notifications++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
