package analysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	apperrors "github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

// mockGenerator returns a fixed reply or error and counts calls.
type mockGenerator struct {
	reply string
	err   error
	calls int32
}

func (m *mockGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func newTestService(t *testing.T, gen Generator, store cache.Store) Service {
	t.Helper()
	svc, err := NewService(gen, nil, nil, nil, nil, store, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewServiceRequiresGenerator(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil, nil, nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected construction to fail without a generator")
	}
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_CONFIGURATION {
		t.Fatalf("expected a configuration error, got %v", err)
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	gen := &mockGenerator{reply: validReply}
	svc := newTestService(t, gen, nil)

	result, err := svc.Analyze(context.Background(), entities.AnalysisRequest{Transcript: "Alice: hello"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Source != entities.SourceAI {
		t.Errorf("source = %q, want ai", result.Source)
	}
	if result.ActionItems == nil || result.Decisions == nil || result.NextSteps == nil {
		t.Error("result slices must never be nil")
	}
}

func TestAnalyzeFallbackOnEveryFailureClass(t *testing.T) {
	req := entities.AnalysisRequest{Transcript: q4ReviewTranscript}
	failures := []error{
		ai.ErrServiceUnavailable,
		ai.ErrServiceUnauthenticated,
		ai.ErrServiceQuotaExceeded,
		ai.ErrServiceTimeout,
		ai.ErrEmptyCompletion,
	}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			svc := newTestService(t, &mockGenerator{err: failure}, nil)
			result, err := svc.Analyze(context.Background(), req)
			if err != nil {
				t.Fatalf("Analyze must absorb %v, got error %v", failure, err)
			}
			if result.Source != entities.SourceFallback {
				t.Errorf("source = %q, want fallback", result.Source)
			}
			if result.Confidence > 0.5 {
				t.Errorf("fallback confidence %f exceeds 0.5", result.Confidence)
			}
		})
	}
}

func TestAnalyzeFallbackOnMalformedReply(t *testing.T) {
	for _, reply := range []string{`{"summary":"trunc`, "not json", `{"summary":""}`} {
		svc := newTestService(t, &mockGenerator{reply: reply}, nil)
		result, err := svc.Analyze(context.Background(), entities.AnalysisRequest{Transcript: "Alice: we will ship"})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if result.Source != entities.SourceFallback {
			t.Errorf("reply %q: source = %q, want fallback", reply, result.Source)
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	gen := &mockGenerator{reply: validReply}
	svc := newTestService(t, gen, nil)
	req := entities.AnalysisRequest{Transcript: q4ReviewTranscript, ProjectName: "Phoenix"}

	a, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	b, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same request with a fixed reply must yield identical results")
	}
}

func TestAnalyzeCachesModelResults(t *testing.T) {
	gen := &mockGenerator{reply: validReply}
	svc := newTestService(t, gen, cache.NewMemoryStore())
	req := entities.AnalysisRequest{Transcript: "Alice: we will ship the release"}

	a, _ := svc.Analyze(context.Background(), req)
	b, _ := svc.Analyze(context.Background(), req)

	if got := atomic.LoadInt32(&gen.calls); got != 1 {
		t.Errorf("generator called %d times, want 1 (second hit served from cache)", got)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("cached result differs from original")
	}
}

func TestAnalyzeDoesNotCacheFallback(t *testing.T) {
	gen := &mockGenerator{err: ai.ErrServiceUnavailable}
	svc := newTestService(t, gen, cache.NewMemoryStore())
	req := entities.AnalysisRequest{Transcript: "Alice: we will ship"}

	svc.Analyze(context.Background(), req)
	svc.Analyze(context.Background(), req)

	if got := atomic.LoadInt32(&gen.calls); got != 2 {
		t.Errorf("generator called %d times, want 2 (fallback results must not be cached)", got)
	}
}

func TestAnalyzeTruncationLowersConfidence(t *testing.T) {
	gen := &mockGenerator{reply: validReply}
	full, err := NewService(gen, nil, nil, nil, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	base, _ := full.Analyze(context.Background(), entities.AnalysisRequest{Transcript: "short"})

	truncSvc := full.(*analysisService)
	truncSvc.maxPromptChars = 1000
	long := entities.AnalysisRequest{Transcript: strings.Repeat("x", 5000)}
	truncated, _ := truncSvc.Analyze(context.Background(), long)

	if !truncated.Truncated {
		t.Fatal("expected truncated flag on result")
	}
	if truncated.Confidence >= base.Confidence {
		t.Errorf("truncated confidence %f should be lower than %f", truncated.Confidence, base.Confidence)
	}
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	svc := newTestService(t, &mockGenerator{err: ai.ErrServiceUnavailable}, nil)

	result, err := svc.Analyze(context.Background(), entities.AnalysisRequest{Transcript: ""})
	if err != nil {
		t.Fatalf("Analyze must not fail on an empty transcript: %v", err)
	}
	if len(result.ActionItems) != 0 {
		t.Errorf("expected no action items, got %d", len(result.ActionItems))
	}
	if !strings.Contains(strings.ToLower(result.Summary), "no transcript content") {
		t.Errorf("summary should state no content was found, got %q", result.Summary)
	}
}

func TestAskDegradedAnswer(t *testing.T) {
	svc := newTestService(t, &mockGenerator{err: ai.ErrServiceUnavailable}, nil)

	answer, err := svc.Ask(context.Background(), "What did we decide?", "")
	if err != nil {
		t.Fatalf("Ask should not fail when the model is down: %v", err)
	}
	if answer == "" {
		t.Fatal("expected a degraded answer")
	}
}

func TestAskPassesContext(t *testing.T) {
	gen := &mockGenerator{reply: "The launch is on Friday."}
	svc := newTestService(t, gen, nil)

	answer, err := svc.Ask(context.Background(), "When is the launch?", "Launch planned for Friday.")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "The launch is on Friday." {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestClosedSetInvariant(t *testing.T) {
	// Whatever labels the model invents, results stay inside the closed sets.
	raw := `{"summary":"s","mood":{"overall":"FURIOUS"},"action_items":[{"description":"a","priority":"P0"},{"description":"b","priority":"Critical"}]}`
	svc := newTestService(t, &mockGenerator{reply: raw}, nil)

	result, err := svc.Analyze(context.Background(), entities.AnalysisRequest{Transcript: "x"})
	if err != nil {
		t.Fatal(err)
	}

	validMoods := map[entities.Mood]bool{entities.MoodPositive: true, entities.MoodNeutral: true, entities.MoodNegative: true}
	if !validMoods[result.Mood] {
		t.Errorf("mood %q outside closed set", result.Mood)
	}
	validPriorities := map[entities.Priority]bool{
		entities.PriorityCritical: true, entities.PriorityHigh: true,
		entities.PriorityMedium: true, entities.PriorityLow: true,
	}
	for _, item := range result.ActionItems {
		if !validPriorities[item.Priority] {
			t.Errorf("priority %q outside closed set", item.Priority)
		}
	}
}
