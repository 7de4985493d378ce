package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

func TestBeginCarriesMetadata(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := Begin(context.Background(), jobID, 3, 2)
	defer cancel()

	gotID, ok := GetJobID(ctx)
	if !ok || gotID != jobID {
		t.Errorf("expected job ID %s, got %s (ok=%v)", jobID, gotID, ok)
	}
	if got := GetWorkerID(ctx); got != 3 {
		t.Errorf("expected worker ID 3, got %d", got)
	}
	if got := GetRetryAttempt(ctx); got != 2 {
		t.Errorf("expected retry attempt 2, got %d", got)
	}
	if _, ok := GetJobStartTime(ctx); !ok {
		t.Error("expected start time to be set")
	}
}

func TestGettersOnBareContext(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetJobID(ctx); ok {
		t.Error("expected no job ID on bare context")
	}
	if got := GetWorkerID(ctx); got != -1 {
		t.Errorf("expected worker ID -1, got %d", got)
	}
	if got := GetRetryAttempt(ctx); got != 0 {
		t.Errorf("expected retry attempt 0, got %d", got)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	err := Run(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected error from panicking job")
	}
}

func TestRunRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, func(ctx context.Context) error {
		t.Error("job function should not run on a cancelled context")
		return nil
	})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable", ai.ErrServiceUnavailable, true},
		{"timeout", ai.ErrServiceTimeout, true},
		{"quota", ai.ErrServiceQuotaExceeded, true},
		{"unauthenticated", ai.ErrServiceUnauthenticated, false},
		{"missing credential", ai.ErrMissingCredential, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped unavailable", fmt.Errorf("call failed: %w", ai.ErrServiceUnavailable), true},
		{"other", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	base := time.Second

	if got := CalculateBackoff(0, base); got != time.Second {
		t.Errorf("attempt 0: expected 1s, got %v", got)
	}
	if got := CalculateBackoff(3, base); got != 8*time.Second {
		t.Errorf("attempt 3: expected 8s, got %v", got)
	}
	if got := CalculateBackoff(10, base); got != 60*time.Second {
		t.Errorf("attempt 10: expected cap at 60s, got %v", got)
	}
	if got := CalculateBackoff(-1, base); got != time.Second {
		t.Errorf("negative attempt: expected 1s, got %v", got)
	}
}
