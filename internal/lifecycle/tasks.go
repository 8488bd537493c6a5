package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"project-management-api/internal/models"
	"project-management-api/internal/store"
)

// NewTask holds the fields of a task being created. CreatedBy decides the
// initial status: manager-created tasks start approved, suggestions from team
// members start pending.
type NewTask struct {
	Title       string          `validate:"required,max=200"`
	Description string          `validate:"max=5000"`
	ProjectID   string          `validate:"required"`
	CreatedBy   string          `validate:"required"`
	AssignedTo  string
	Priority    models.Priority `validate:"omitempty,oneof=low medium high"`
	Deadline    *time.Time
}

// AddTask creates a task.
func (e *Engine) AddTask(ctx context.Context, in NewTask) (TaskResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return TaskResult{}, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	var (
		task models.Task
		fx   effects
	)
	err := e.Store.Transaction(ctx, func(tx *store.Store) error {
		project, err := tx.GetProject(ctx, in.ProjectID)
		if err != nil {
			return fmt.Errorf("project %s: %w", in.ProjectID, err)
		}
		creator, err := tx.GetUser(ctx, in.CreatedBy)
		if err != nil {
			return fmt.Errorf("creator %s: %w", in.CreatedBy, err)
		}
		var assignee models.User
		if in.AssignedTo != "" {
			if assignee, err = tx.GetUser(ctx, in.AssignedTo); err != nil {
				return fmt.Errorf("assignee %s: %w", in.AssignedTo, err)
			}
		}

		now := e.now()
		task = models.Task{
			ID:          e.newID(),
			Title:       in.Title,
			Description: in.Description,
			ProjectID:   project.ID,
			CreatedBy:   creator.ID,
			Status:      models.StatusPending,
			Priority:    in.Priority,
			Deadline:    in.Deadline,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if in.AssignedTo != "" {
			task.AssignedTo = &assignee.ID
		}
		if creator.IsManager() {
			task.Status = models.StatusApproved
		}
		if err := tx.CreateTask(ctx, task); err != nil {
			return err
		}

		switch {
		case task.Status == models.StatusApproved && task.AssignedTo != nil:
			fx.notice(assignee.ID, fmt.Sprintf("You have been assigned a new task: %s", task.Title), models.NotificationTaskAssigned, task.ID)
			fx.email(emailAssignment, taskEmail(task, assignee))
		case task.Status == models.StatusPending && project.ManagerID != creator.ID:
			fx.notice(project.ManagerID, fmt.Sprintf("A new task has been suggested: %s", task.Title), models.NotificationTaskSuggested, task.ID)
		}
		return nil
	})
	if err != nil {
		return TaskResult{}, err
	}

	e.Metrics.Transition("task", "create")
	e.logInfo(ctx, "task created", "task_id", task.ID, "project_id", task.ProjectID, "status", task.Status)
	return TaskResult{Task: task, Applied: true, Warnings: e.dispatch(ctx, fx)}, nil
}

// taskOp is a single-task transition. apply mutates t and reports whether
// anything changed; it may queue effects.
type taskOp func(tx *store.Store, t *models.Task, fx *effects) (bool, error)

func (e *Engine) runTaskOp(ctx context.Context, taskID, operation string, op taskOp) (TaskResult, error) {
	var (
		result TaskResult
		fx     effects
	)
	err := e.Store.Transaction(ctx, func(tx *store.Store) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("task %s: %w", taskID, err)
		}
		original := t
		applied, err := op(tx, &t, &fx)
		if err != nil {
			return err
		}
		if !applied {
			result = TaskResult{Task: original}
			fx = effects{}
			return nil
		}
		t.UpdatedAt = e.now()
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		result = TaskResult{Task: t, Applied: true}
		return nil
	})
	if err != nil {
		return TaskResult{}, err
	}
	if !result.Applied {
		return result, nil
	}
	e.Metrics.Transition("task", operation)
	e.logInfo(ctx, "task transition", "task_id", taskID, "operation", operation, "status", result.Task.Status, "progress", result.Task.Progress)
	result.Warnings = e.dispatch(ctx, fx)
	return result, nil
}

// ApproveTask moves a pending task to approved and tells the assignee.
// Approving a task in any other state is a no-op, so repeated calls emit
// exactly one notification.
func (e *Engine) ApproveTask(ctx context.Context, taskID string) (TaskResult, error) {
	return e.runTaskOp(ctx, taskID, "approve", func(tx *store.Store, t *models.Task, fx *effects) (bool, error) {
		if t.Status != models.StatusPending {
			return false, nil
		}
		t.Status = models.StatusApproved
		if t.AssignedTo != nil {
			assignee, ok, err := lookupUser(ctx, tx, *t.AssignedTo)
			if err != nil {
				return false, err
			}
			if ok {
				fx.notice(assignee.ID, fmt.Sprintf("Your task %q has been approved", t.Title), models.NotificationTaskApproved, t.ID)
				fx.email(emailApproval, taskEmail(*t, assignee))
			}
		}
		return true, nil
	})
}

// RejectTask moves a pending task to the terminal rejected state and tells
// its creator, including the reason when one is given.
func (e *Engine) RejectTask(ctx context.Context, taskID, reason string) (TaskResult, error) {
	reason = strings.TrimSpace(reason)
	return e.runTaskOp(ctx, taskID, "reject", func(tx *store.Store, t *models.Task, fx *effects) (bool, error) {
		if t.Status != models.StatusPending {
			return false, nil
		}
		t.Status = models.StatusRejected
		creator, ok, err := lookupUser(ctx, tx, t.CreatedBy)
		if err != nil {
			return false, err
		}
		if ok {
			msg := fmt.Sprintf("Your task %q has been rejected", t.Title)
			if reason != "" {
				msg += ": " + reason
			}
			fx.notice(creator.ID, msg, models.NotificationTaskRejected, t.ID)
			em := taskEmail(*t, creator)
			em.Reason = reason
			fx.email(emailRejection, em)
		}
		return true, nil
	})
}

// AssignTask sets the assignee of a pending or approved task. Status is left
// alone. Assigning the current assignee again is a no-op.
func (e *Engine) AssignTask(ctx context.Context, taskID, userID string) (TaskResult, error) {
	if strings.TrimSpace(userID) == "" {
		return TaskResult{}, validationError("userId is required")
	}
	return e.runTaskOp(ctx, taskID, "assign", func(tx *store.Store, t *models.Task, fx *effects) (bool, error) {
		assignee, err := tx.GetUser(ctx, userID)
		if err != nil {
			return false, fmt.Errorf("assignee %s: %w", userID, err)
		}
		if t.Status == models.StatusRejected || t.Status == models.StatusCompleted {
			return false, nil
		}
		if t.IsAssignedTo(assignee.ID) {
			return false, nil
		}
		t.AssignedTo = &assignee.ID
		fx.notice(assignee.ID, fmt.Sprintf("You have been assigned a new task: %s", t.Title), models.NotificationTaskAssigned, t.ID)
		fx.email(emailAssignment, taskEmail(*t, assignee))
		return true, nil
	})
}

// UpdateTaskProgress records progress on an approved or completed task.
// Reaching 100 completes the task and notifies the project's manager; dropping
// below 100 reopens it as approved. Pending and rejected tasks are not worked
// on, so updates to them are no-ops.
func (e *Engine) UpdateTaskProgress(ctx context.Context, taskID string, progress int) (TaskResult, error) {
	if progress < 0 || progress > models.MaxProgress {
		return TaskResult{}, validationError("progress must be between 0 and %d, got %d", models.MaxProgress, progress)
	}
	return e.runTaskOp(ctx, taskID, "progress", func(tx *store.Store, t *models.Task, fx *effects) (bool, error) {
		if t.Status != models.StatusApproved && t.Status != models.StatusCompleted {
			return false, nil
		}
		if t.Progress == progress {
			return false, nil
		}
		wasCompleted := t.Status == models.StatusCompleted
		t.Progress = progress
		switch {
		case progress == models.MaxProgress && !wasCompleted:
			t.Status = models.StatusCompleted
			if err := e.queueCompletion(ctx, tx, *t, fx); err != nil {
				return false, err
			}
		case progress < models.MaxProgress && wasCompleted:
			t.Status = models.StatusApproved
		}
		return true, nil
	})
}

func (e *Engine) queueCompletion(ctx context.Context, tx *store.Store, t models.Task, fx *effects) error {
	project, err := tx.GetProject(ctx, t.ProjectID)
	if err != nil {
		return fmt.Errorf("project %s: %w", t.ProjectID, err)
	}
	manager, ok, err := lookupUser(ctx, tx, project.ManagerID)
	if err != nil || !ok {
		return err
	}
	msg := fmt.Sprintf("Task %q has been completed", t.Title)
	actor := "a team member"
	if t.AssignedTo != nil {
		member, found, err := lookupUser(ctx, tx, *t.AssignedTo)
		if err != nil {
			return err
		}
		if found {
			actor = member.Name
			msg += " by " + member.Name
		}
	}
	fx.notice(manager.ID, msg, models.NotificationTaskCompleted, t.ID)
	em := taskEmail(t, manager)
	em.ActorName = actor
	fx.email(emailCompletion, em)
	return nil
}

// DeleteTask removes a task and its comments.
func (e *Engine) DeleteTask(ctx context.Context, taskID string) error {
	if err := e.Store.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("task %s: %w", taskID, err)
	}
	e.Metrics.Transition("task", "delete")
	e.logInfo(ctx, "task deleted", "task_id", taskID)
	return nil
}

// CommentResult is returned by AddComment.
type CommentResult struct {
	Comment  models.Comment
	Warnings []error
}

// AddComment appends a comment and notifies the task's assignee and creator,
// other than the author.
func (e *Engine) AddComment(ctx context.Context, taskID, userID, content string) (CommentResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return CommentResult{}, validationError("content is required")
	}
	var (
		comment models.Comment
		fx      effects
	)
	err := e.Store.Transaction(ctx, func(tx *store.Store) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("task %s: %w", taskID, err)
		}
		author, err := tx.GetUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("author %s: %w", userID, err)
		}
		comment = models.Comment{
			ID:        e.newID(),
			TaskID:    t.ID,
			UserID:    author.ID,
			Content:   content,
			CreatedAt: e.now(),
		}
		if err := tx.CreateComment(ctx, comment); err != nil {
			return err
		}
		seen := map[string]bool{author.ID: true}
		recipients := []string{t.CreatedBy}
		if t.AssignedTo != nil {
			recipients = append([]string{*t.AssignedTo}, recipients...)
		}
		for _, id := range recipients {
			if seen[id] {
				continue
			}
			seen[id] = true
			fx.notice(id, fmt.Sprintf("%s commented on %q", author.Name, t.Title), models.NotificationCommentAdded, t.ID)
		}
		return nil
	})
	if err != nil {
		return CommentResult{}, err
	}
	e.Metrics.Transition("comment", "create")
	return CommentResult{Comment: comment, Warnings: e.dispatch(ctx, fx)}, nil
}
