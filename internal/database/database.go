package database

import (
	"fmt"

	"project-management-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the entity store, in migration order.
var Models = []any{
	&models.User{},
	&models.Project{},
	&models.Task{},
	&models.Comment{},
	&models.Notification{},
}

// Options controls how the database is opened.
type Options struct {
	// Path is a SQLite file path or ":memory:".
	Path    string
	LogMode logger.LogLevel
}

// Open connects to SQLite through the pure-Go glebarez driver (no CGO) and runs
// migrations. The pool is pinned to a single connection: an in-memory database
// exists per connection, and all writes are serialized by the store anyway.
func Open(opts Options) (*gorm.DB, error) {
	if opts.Path == "" {
		opts.Path = ":memory:"
	}
	if opts.LogMode == 0 {
		opts.LogMode = logger.Silent
	}
	db, err := gorm.Open(sqlite.Open(opts.Path), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogMode),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", opts.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
