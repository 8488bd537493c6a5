package main

import (
	"context"
	"log/slog"

	"project-management-api/internal/auth"
	"project-management-api/internal/config"
	"project-management-api/internal/database"
	"project-management-api/internal/handlers"
	"project-management-api/internal/lifecycle"
	"project-management-api/internal/logging"
	"project-management-api/internal/mail"
	"project-management-api/internal/notify"
	"project-management-api/internal/realtime"
	"project-management-api/internal/seed"
	"project-management-api/internal/store"
	"project-management-api/internal/telemetry"

	"github.com/nats-io/nats.go"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// app is the wired process: one database, one store, one hub.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *gorm.DB
	store   *store.Store
	hub     *realtime.Hub
	metrics *telemetry.Metrics
	engine  *lifecycle.Engine
	nc      *nats.Conn
}

func newApp(cfg *config.Config) (*app, error) {
	logger := logging.New(cfg.Log)

	opts := database.Options{Path: cfg.Database.Path}
	if cfg.Log.Level == "debug" {
		opts.LogMode = gormlogger.Info
	}
	db, err := database.Open(opts)
	if err != nil {
		return nil, err
	}
	s := store.New(db)
	hub := realtime.NewHub()
	m := telemetry.New()

	emitter := notify.NewEmitter(s, hub, m, logger)
	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		nc, err = notify.ConnectNATS(cfg.NATS.URL)
		if err != nil {
			_ = database.Close(db)
			return nil, err
		}
		emitter.WithBus(nc, cfg.NATS.Subject)
	}

	engine := lifecycle.New(s, emitter, mail.NewLogSender(logger), m, logger)
	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		store:   s,
		hub:     hub,
		metrics: m,
		engine:  engine,
		nc:      nc,
	}, nil
}

func (a *app) handlers() *handlers.Handler {
	return handlers.New(a.engine, a.store, auth.NewIssuer(a.cfg.Auth), a.hub, a.logger)
}

func (a *app) seedDemo(ctx context.Context) error {
	ds, err := seed.Demo()
	if err != nil {
		return err
	}
	sum, err := seed.Apply(ctx, a.store, ds)
	if err != nil {
		return err
	}
	a.logger.Info("demo data loaded",
		"users", sum.Users, "projects", sum.Projects, "tasks", sum.Tasks,
		"comments", sum.Comments, "notifications", sum.Notifications, "normalized", sum.Normalized)
	return nil
}

func (a *app) Close() {
	if a.nc != nil {
		_ = a.nc.Drain()
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", "error", err)
	}
}
