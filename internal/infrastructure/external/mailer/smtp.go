package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// SMTPNotifier sends critical-task alert mails over plain SMTP.
type SMTPNotifier struct {
	cfg    config.MailConfig
	logger *zap.Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates a notifier from mail configuration. Returns nil
// when mail is not configured so callers can wire it straight through.
func NewSMTPNotifier(cfg config.MailConfig, logger *zap.Logger) *SMTPNotifier {
	if !cfg.Enabled() {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPNotifier{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// SendCriticalTaskAlert mails the configured recipients about critical
// tasks found in a meeting analysis.
func (n *SMTPNotifier) SendCriticalTaskAlert(ctx context.Context, projectName string, tasks []entities.TaskAssignment) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("CRITICAL TASK ALERT: %s", projectName)

	var body strings.Builder
	fmt.Fprintf(&body, "The following critical task(s) were extracted from a meeting for %s:\r\n\r\n", projectName)
	for i, t := range tasks {
		fmt.Fprintf(&body, "%d. %s (assignee: %s", i+1, t.Description, t.Assignee)
		if t.DueHint != "" {
			fmt.Fprintf(&body, ", due: %s", t.DueHint)
		}
		body.WriteString(")\r\n")
	}
	body.WriteString("\r\nPlease review and assign owners as soon as possible.\r\n")

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		n.cfg.From,
		strings.Join(n.cfg.Recipients, ", "),
		subject,
		body.String(),
	)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, n.cfg.Recipients, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	n.logger.Info("critical task alert sent",
		zap.String("project", projectName),
		zap.Int("task_count", len(tasks)),
		zap.Int("recipient_count", len(n.cfg.Recipients)),
	)
	return nil
}
