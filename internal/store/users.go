package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"project-management-api/internal/models"
)

// CreateUser inserts u. Emails are compared case-insensitively.
func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	unlock := s.lockW()
	defer unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	var count int64
	if err := s.conn(ctx).Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("user with email %s: %w", u.Email, ErrDuplicate)
	}
	return s.conn(ctx).Create(&u).Error
}

// GetUser returns the user with the given id.
func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	load := func() (models.User, error) {
		unlock := s.lockR()
		defer unlock()
		var u models.User
		err := s.conn(ctx).Where("id = ?", id).First(&u).Error
		return u, notFound(err)
	}
	if s.inTx {
		// uncommitted rows must not leak into the shared cache
		if u, ok := s.users.Get(id); ok {
			return u, nil
		}
		return load()
	}
	return s.users.GetOrLoad(id, load)
}

// GetUserByEmail looks a user up by login email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	unlock := s.lockR()
	defer unlock()
	var u models.User
	err := s.conn(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	return u, notFound(err)
}

// ListUsers returns all users, or only those with role when it is non-empty.
func (s *Store) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	unlock := s.lockR()
	defer unlock()
	q := s.conn(ctx).Order("name asc, id asc")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// IsNotFound reports whether err carries ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
