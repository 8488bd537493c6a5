package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"project-management-api/internal/auth"
	"project-management-api/internal/models"
	"project-management-api/internal/store"
)

// ErrForbidden is returned when the acting user may not touch the record.
var ErrForbidden = errors.New("forbidden")

// NewUser holds registration input.
type NewUser struct {
	Name     string      `validate:"required,max=100"`
	Email    string      `validate:"required,email"`
	Password string      `validate:"required,min=6"`
	Role     models.Role `validate:"omitempty,oneof=manager team_member"`
}

// RegisterUser creates an account. Role defaults to team_member.
func (e *Engine) RegisterUser(ctx context.Context, in NewUser) (models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return models.User{}, err
	}
	if in.Role == "" {
		in.Role = models.RoleTeamMember
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	u := models.User{
		ID:           e.newID(),
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: hash,
	}
	if err := e.Store.CreateUser(ctx, u); err != nil {
		return models.User{}, err
	}
	e.Metrics.Transition("user", "create")
	e.logInfo(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// AddTeamMember is RegisterUser for a manager adding someone to the team; the
// new account is always a team member.
func (e *Engine) AddTeamMember(ctx context.Context, in NewUser) (models.User, error) {
	in.Role = models.RoleTeamMember
	return e.RegisterUser(ctx, in)
}

// Authenticate checks an email and password pair.
func (e *Engine) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := e.Store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// MarkNotificationRead sets Read on a notification owned by userID. Marking an
// already-read notification is a no-op and reports applied=false.
func (e *Engine) MarkNotificationRead(ctx context.Context, id, userID string) (models.Notification, bool, error) {
	var (
		n       models.Notification
		applied bool
	)
	err := e.Store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		n, err = tx.GetNotification(ctx, id)
		if err != nil {
			return fmt.Errorf("notification %s: %w", id, err)
		}
		if userID != "" && n.UserID != userID {
			return fmt.Errorf("notification %s: %w", id, ErrForbidden)
		}
		if n.Read {
			return nil
		}
		if err := tx.SetNotificationRead(ctx, id); err != nil {
			return err
		}
		n.Read = true
		applied = true
		return nil
	})
	if err != nil {
		return models.Notification{}, false, err
	}
	return n, applied, nil
}
