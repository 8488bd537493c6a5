// Package notify appends user notifications to the store and fans them out to
// live WebSocket clients and, when configured, a NATS subject.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"project-management-api/internal/models"
	"project-management-api/internal/realtime"
	"project-management-api/internal/store"
	"project-management-api/internal/telemetry"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Input describes a notification to emit.
type Input struct {
	UserID    string
	Message   string
	Type      models.NotificationType
	RelatedID string
}

// Publisher is the subset of *nats.Conn the emitter uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// EventNotification is the realtime event type carrying a new notification.
const EventNotification = "notification_created"

// Emitter is the production notification sink.
type Emitter struct {
	Store   *store.Store
	Hub     *realtime.Hub
	Bus     Publisher
	Subject string
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewEmitter wires an emitter without an external bus.
func NewEmitter(s *store.Store, hub *realtime.Hub, m *telemetry.Metrics, logger *slog.Logger) *Emitter {
	return &Emitter{Store: s, Hub: hub, Metrics: m, Logger: logger, Now: time.Now}
}

// WithBus enables publishing every emitted notification on subject.
func (e *Emitter) WithBus(bus Publisher, subject string) *Emitter {
	e.Bus = bus
	e.Subject = subject
	return e
}

func (e *Emitter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Emit records the notification and pushes it out. The returned record can be
// shown immediately without a re-query. Only a failure to record is an error;
// push failures are logged.
func (e *Emitter) Emit(ctx context.Context, in Input) (models.Notification, error) {
	if in.UserID == "" {
		return models.Notification{}, fmt.Errorf("notification without recipient")
	}
	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Message:   in.Message,
		Type:      in.Type,
		RelatedID: in.RelatedID,
		CreatedAt: e.now().UTC(),
	}
	if err := e.Store.AppendNotification(ctx, n); err != nil {
		return models.Notification{}, fmt.Errorf("append notification: %w", err)
	}
	e.Metrics.Notification(string(n.Type))

	if e.Hub != nil {
		if _, err := e.Hub.Publish(realtime.Event{Type: EventNotification, UserID: n.UserID, Payload: n}); err != nil {
			e.Logger.WarnContext(ctx, "realtime push failed", "notification_id", n.ID, "error", err)
			e.Metrics.DispatchFailure("realtime")
		}
	}
	if e.Bus != nil {
		if err := e.publish(n); err != nil {
			e.Logger.WarnContext(ctx, "bus publish failed", "notification_id", n.ID, "subject", e.Subject, "error", err)
			e.Metrics.DispatchFailure("nats")
		}
	}
	return n, nil
}

func (e *Emitter) publish(n models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return e.Bus.Publish(e.Subject, data)
}

// ConnectNATS dials the notification bus.
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("project-management-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return nc, nil
}
