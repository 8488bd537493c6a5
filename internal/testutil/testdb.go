package testutil

import (
	"testing"
	"time"

	"project-management-api/internal/database"
	"project-management-api/internal/models"
	"project-management-api/internal/store"

	"gorm.io/gorm"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	return database.Open(database.Options{Path: ":memory:"})
}

// NewStore returns a fresh store backed by its own in-memory database.
func NewStore(t testing.TB) *store.Store {
	t.Helper()
	db, err := NewInMemoryDB()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return store.New(db)
}

// FixedClock returns a clock frozen at 2024-01-01 00:00 UTC plus offset.
func FixedClock(offset time.Duration) func() time.Time {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset)
	return func() time.Time { return at }
}

// Fixture ids used across package tests.
const (
	ManagerID = "u-manager"
	MemberID  = "u-member"
	OtherID   = "u-other"
	ProjectID = "p-1"
)

// SeedTeam inserts one manager, two team members and one project owned by the manager.
func SeedTeam(t testing.TB, s *store.Store) {
	t.Helper()
	ctx := t.Context()
	users := []models.User{
		{ID: ManagerID, Name: "John Manager", Email: "manager@example.com", Role: models.RoleManager},
		{ID: MemberID, Name: "Jane Team", Email: "team@example.com", Role: models.RoleTeamMember},
		{ID: OtherID, Name: "Alice Developer", Email: "alice@example.com", Role: models.RoleTeamMember},
	}
	for _, u := range users {
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("seed user %s: %v", u.ID, err)
		}
	}
	p := models.Project{
		ID:        ProjectID,
		Name:      "Website Redesign",
		ManagerID: ManagerID,
		Status:    models.ProjectActive,
		Priority:  models.PriorityHigh,
		CreatedAt: FixedClock(0)(),
	}
	if err := s.CreateProject(ctx, p); err != nil {
		t.Fatalf("seed project: %v", err)
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
