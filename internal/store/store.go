// Package store owns every entity collection (users, projects, tasks, comments,
// notifications). Callers reference records by id and never hold private copies
// that outlive a call.
package store

import (
	"context"
	"errors"
	"sync"

	"project-management-api/internal/cache"
	"project-management-api/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an id does not match any record.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("already exists")
)

// Store is the entity store. Mutations that must be atomic go through
// Transaction, which serializes them behind a single writer lock.
type Store struct {
	db   *gorm.DB
	mu   *sync.RWMutex
	inTx bool

	// users are immutable after creation, so lookups are cached for the store's lifetime
	users *cache.SimpleCache[string, models.User]
}

// New wraps an opened and migrated database.
func New(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		mu:    &sync.RWMutex{},
		users: cache.NewSimpleCache[string, models.User](cache.Options{ConcurrencySafe: true}),
	}
}

func (s *Store) lockR() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) lockW() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Transaction runs fn against a transactional view of the store while holding
// the writer lock. Returning an error rolls back every change made through tx.
// Nested calls reuse the outer transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if s.inTx {
		return fn(s)
	}
	unlock := s.lockW()
	defer unlock()
	return s.conn(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Store{db: gtx, mu: s.mu, inTx: true, users: s.users})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Snapshot is an immutable, point-in-time copy of the collections the metrics
// engine reads.
type Snapshot struct {
	Users    []models.User
	Projects []models.Project
	Tasks    []models.Task
}

// UserByID indexes the snapshot's users.
func (s Snapshot) UserByID() map[string]models.User {
	out := make(map[string]models.User, len(s.Users))
	for _, u := range s.Users {
		out[u.ID] = u
	}
	return out
}

// Snapshot reads every user, project and task under the reader lock, so no
// concurrent mutation is observed half-applied.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	unlock := s.lockR()
	defer unlock()

	var snap Snapshot
	db := s.conn(ctx)
	if err := db.Order("name asc, id asc").Find(&snap.Users).Error; err != nil {
		return Snapshot{}, err
	}
	if err := db.Order("created_at asc, id asc").Find(&snap.Projects).Error; err != nil {
		return Snapshot{}, err
	}
	if err := db.Order("created_at asc, id asc").Find(&snap.Tasks).Error; err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
