package analysis

import (
	"strings"
	"testing"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

func TestBuildPromptDeterministic(t *testing.T) {
	req := entities.AnalysisRequest{
		Transcript:  "Alice: We shipped the release.",
		ClientName:  "Acme",
		ProjectName: "Phoenix",
		MeetingType: "Standup",
	}

	p1, t1 := BuildPrompt(req, 0)
	p2, t2 := BuildPrompt(req, 0)
	if p1 != p2 || t1 != t2 {
		t.Fatal("same request produced different prompts")
	}
}

func TestBuildPromptEmbedsContext(t *testing.T) {
	req := entities.AnalysisRequest{
		Transcript:  "Alice: We shipped the release.",
		ClientName:  "Acme",
		ProjectName: "Phoenix",
		MeetingType: "Standup",
	}

	prompt, truncated := BuildPrompt(req, 0)
	if truncated {
		t.Fatal("short transcript should not be truncated")
	}
	for _, want := range []string{"Acme", "Phoenix", "Standup", req.Transcript, `"action_items"`, `"decisions"`, `"next_steps"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptDefaultsMeetingType(t *testing.T) {
	prompt, _ := BuildPrompt(entities.AnalysisRequest{Transcript: "hello"}, 0)
	if !strings.Contains(prompt, entities.DefaultMeetingType) {
		t.Errorf("prompt should mention the default meeting type")
	}
}

func TestBuildPromptTruncation(t *testing.T) {
	long := strings.Repeat("a", 5000)
	req := entities.AnalysisRequest{Transcript: long}

	prompt, truncated := BuildPrompt(req, 2000)
	if !truncated {
		t.Fatal("expected truncation flag")
	}
	if strings.Contains(prompt, long) {
		t.Fatal("full transcript should not survive truncation")
	}
	if !strings.Contains(prompt, long[:2000]) {
		t.Fatal("truncation must keep the transcript head")
	}

	// Deterministic: cutting twice gives the same prompt.
	prompt2, _ := BuildPrompt(req, 2000)
	if prompt != prompt2 {
		t.Fatal("truncated prompt not deterministic")
	}
}
