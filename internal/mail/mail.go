// Package mail renders and dispatches task lifecycle emails. The only transport
// shipped is LogSender, which writes the rendered message to the structured log.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TaskEmail carries everything a lifecycle email template needs.
type TaskEmail struct {
	TaskID  string
	Title   string
	ToEmail string
	ToName  string
	// Reason is only used by rejection emails.
	Reason string
	// ActorName names the member who completed the task in completion emails.
	ActorName string
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender dispatches lifecycle emails. Callers treat every send as best-effort.
type Sender interface {
	SendTaskAssignment(ctx context.Context, e TaskEmail) error
	SendTaskApproval(ctx context.Context, e TaskEmail) error
	SendTaskRejection(ctx context.Context, e TaskEmail) error
	SendTaskCompletion(ctx context.Context, e TaskEmail) error
}

const signature = "Thank you,\nProject Management Team"

func AssignmentMessage(e TaskEmail) Message {
	return Message{
		To:      e.ToEmail,
		Subject: fmt.Sprintf("New Task Assignment: %s", e.Title),
		Body: fmt.Sprintf("Hello %s,\n\nYou have been assigned a new task: %q\n\n"+
			"Please log in to the Project Management System to view the details and update your progress.\n\n%s",
			e.ToName, e.Title, signature),
	}
}

func ApprovalMessage(e TaskEmail) Message {
	return Message{
		To:      e.ToEmail,
		Subject: fmt.Sprintf("Task Approved: %s", e.Title),
		Body: fmt.Sprintf("Hello %s,\n\nYour task %q has been approved by the manager.\n\n"+
			"You can now start working on this task and update your progress in the Project Management System.\n\n%s",
			e.ToName, e.Title, signature),
	}
}

func RejectionMessage(e TaskEmail) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYour task %q has been rejected by the manager.\n\n", e.ToName, e.Title)
	if e.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n\n", e.Reason)
	}
	b.WriteString("Please review and make necessary adjustments before resubmitting.\n\n")
	b.WriteString(signature)
	return Message{
		To:      e.ToEmail,
		Subject: fmt.Sprintf("Task Rejected: %s", e.Title),
		Body:    b.String(),
	}
}

func CompletionMessage(e TaskEmail) Message {
	return Message{
		To:      e.ToEmail,
		Subject: fmt.Sprintf("Task Completed: %s", e.Title),
		Body: fmt.Sprintf("Hello %s,\n\nThe task %q has been marked as completed by %s.\n\n"+
			"Please review the completed task in the Project Management System.\n\n%s",
			e.ToName, e.Title, e.ActorName, signature),
	}
}

// LogSender logs rendered emails instead of delivering them.
type LogSender struct {
	Logger *slog.Logger
}

// NewLogSender returns a LogSender writing to logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{Logger: logger}
}

func (s *LogSender) send(ctx context.Context, kind, taskID string, m Message) error {
	if m.To == "" {
		return fmt.Errorf("%s email for task %s: missing recipient", kind, taskID)
	}
	s.Logger.InfoContext(ctx, "email sent",
		"kind", kind,
		"task_id", taskID,
		"to", m.To,
		"subject", m.Subject,
		"body", m.Body,
	)
	return nil
}

func (s *LogSender) SendTaskAssignment(ctx context.Context, e TaskEmail) error {
	return s.send(ctx, "assignment", e.TaskID, AssignmentMessage(e))
}

func (s *LogSender) SendTaskApproval(ctx context.Context, e TaskEmail) error {
	return s.send(ctx, "approval", e.TaskID, ApprovalMessage(e))
}

func (s *LogSender) SendTaskRejection(ctx context.Context, e TaskEmail) error {
	return s.send(ctx, "rejection", e.TaskID, RejectionMessage(e))
}

func (s *LogSender) SendTaskCompletion(ctx context.Context, e TaskEmail) error {
	return s.send(ctx, "completion", e.TaskID, CompletionMessage(e))
}

var _ Sender = (*LogSender)(nil)
