// Package lifecycle is the only place task status, progress and assignment, and
// project status, are changed. Every operation runs its read-modify-write in one
// store transaction, then dispatches notifications and emails on a best-effort
// basis: a failed side effect is reported as a warning and never rolls back the
// state change.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"project-management-api/internal/mail"
	"project-management-api/internal/models"
	"project-management-api/internal/notify"
	"project-management-api/internal/store"
	"project-management-api/internal/telemetry"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrValidation wraps every rejected input.
var ErrValidation = errors.New("validation failed")

// NotificationSink records a user notification. notify.Emitter is the
// production implementation.
type NotificationSink interface {
	Emit(ctx context.Context, in notify.Input) (models.Notification, error)
}

// Engine applies lifecycle operations.
type Engine struct {
	Store   *store.Store
	Sink    NotificationSink
	Mailer  mail.Sender
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
	NewID   func() string
}

// New builds an engine with the real clock and UUID ids.
func New(s *store.Store, sink NotificationSink, mailer mail.Sender, m *telemetry.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		Store:   s,
		Sink:    sink,
		Mailer:  mailer,
		Metrics: m,
		Logger:  logger,
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

func (e *Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

// TaskResult is returned by every task operation. Applied is false when the
// operation was a no-op for the task's current state; Task is then unchanged.
type TaskResult struct {
	Task     models.Task
	Applied  bool
	Warnings []error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return validationError("%s failed on %s", f.Field(), f.Tag())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

type emailKind string

const (
	emailAssignment emailKind = "assignment"
	emailApproval   emailKind = "approval"
	emailRejection  emailKind = "rejection"
	emailCompletion emailKind = "completion"
)

type pendingEmail struct {
	kind emailKind
	msg  mail.TaskEmail
}

// effects collects side effects inside a transaction so they run only after
// the state change committed.
type effects struct {
	notices []notify.Input
	emails  []pendingEmail
}

func (f *effects) notice(userID, message string, typ models.NotificationType, relatedID string) {
	f.notices = append(f.notices, notify.Input{UserID: userID, Message: message, Type: typ, RelatedID: relatedID})
}

func (f *effects) email(kind emailKind, msg mail.TaskEmail) {
	f.emails = append(f.emails, pendingEmail{kind: kind, msg: msg})
}

func (e *Engine) sendEmail(ctx context.Context, p pendingEmail) error {
	switch p.kind {
	case emailAssignment:
		return e.Mailer.SendTaskAssignment(ctx, p.msg)
	case emailApproval:
		return e.Mailer.SendTaskApproval(ctx, p.msg)
	case emailRejection:
		return e.Mailer.SendTaskRejection(ctx, p.msg)
	case emailCompletion:
		return e.Mailer.SendTaskCompletion(ctx, p.msg)
	}
	return fmt.Errorf("unknown email kind %q", p.kind)
}

// dispatch runs the collected effects and returns their failures as warnings.
func (e *Engine) dispatch(ctx context.Context, f effects) []error {
	var warnings []error
	if e.Sink != nil {
		for _, n := range f.notices {
			if _, err := e.Sink.Emit(ctx, n); err != nil {
				err = fmt.Errorf("notify %s: %w", n.UserID, err)
				warnings = append(warnings, err)
				e.Metrics.DispatchFailure("notification")
				e.logWarn(ctx, "notification dispatch failed", err, "user_id", n.UserID, "type", n.Type)
			}
		}
	}
	if e.Mailer != nil {
		for _, m := range f.emails {
			if err := e.sendEmail(ctx, m); err != nil {
				err = fmt.Errorf("%s email to %s: %w", m.kind, m.msg.ToEmail, err)
				warnings = append(warnings, err)
				e.Metrics.DispatchFailure("email")
				e.logWarn(ctx, "email dispatch failed", err, "task_id", m.msg.TaskID, "kind", m.kind)
			}
		}
	}
	return warnings
}

func (e *Engine) logWarn(ctx context.Context, msg string, err error, args ...any) {
	if e.Logger == nil {
		return
	}
	e.Logger.WarnContext(ctx, msg, append(args, "error", err)...)
}

func (e *Engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.Logger == nil {
		return
	}
	e.Logger.InfoContext(ctx, msg, args...)
}

func taskEmail(t models.Task, to models.User) mail.TaskEmail {
	return mail.TaskEmail{TaskID: t.ID, Title: t.Title, ToEmail: to.Email, ToName: to.Name}
}

// lookupUser returns the user or ok=false when it does not exist.
func lookupUser(ctx context.Context, s *store.Store, id string) (models.User, bool, error) {
	if id == "" {
		return models.User{}, false, nil
	}
	u, err := s.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}
