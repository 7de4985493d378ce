package mailer

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		Host:       "smtp.example.com",
		Port:       "587",
		From:       "alerts@example.com",
		Recipients: []string{"pm@example.com", "lead@example.com"},
	}
}

func TestNewSMTPNotifierDisabled(t *testing.T) {
	if n := NewSMTPNotifier(config.MailConfig{}, nil); n != nil {
		t.Error("expected nil notifier when mail is not configured")
	}
}

func TestSendCriticalTaskAlert(t *testing.T) {
	notifier := NewSMTPNotifier(testMailConfig(), nil)
	if notifier == nil {
		t.Fatal("expected notifier to be created")
	}

	var gotAddr string
	var gotTo []string
	var gotMsg string
	notifier.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	tasks := []entities.TaskAssignment{
		{Description: "Ship the payment fix", Assignee: "Mike", Priority: string(entities.PriorityCritical), DueHint: "Friday"},
		{Description: "Escalate the outage", Assignee: "Unassigned", Priority: string(entities.PriorityCritical)},
	}

	if err := notifier.SendCriticalTaskAlert(context.Background(), "Apollo", tasks); err != nil {
		t.Fatalf("SendCriticalTaskAlert returned error: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Errorf("unexpected addr %q", gotAddr)
	}
	if len(gotTo) != 2 {
		t.Errorf("expected 2 recipients, got %d", len(gotTo))
	}
	if !strings.Contains(gotMsg, "Subject: CRITICAL TASK ALERT: Apollo") {
		t.Error("expected subject line with project name")
	}
	if !strings.Contains(gotMsg, "Ship the payment fix") || !strings.Contains(gotMsg, "due: Friday") {
		t.Errorf("expected task details in body, got:\n%s", gotMsg)
	}
}

func TestSendCriticalTaskAlertNoTasks(t *testing.T) {
	notifier := NewSMTPNotifier(testMailConfig(), nil)

	called := false
	notifier.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	if err := notifier.SendCriticalTaskAlert(context.Background(), "Apollo", nil); err != nil {
		t.Fatalf("expected nil error for empty task list, got %v", err)
	}
	if called {
		t.Error("expected no mail to be sent for empty task list")
	}
}
