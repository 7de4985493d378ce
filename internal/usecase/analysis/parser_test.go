package analysis

import (
	"errors"
	"testing"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

const validReply = `{
  "summary": "The team reviewed the release plan.",
  "mood": {"overall": "Positive", "justification": "Upbeat tone throughout."},
  "action_items": [
    {"description": "Finish payment integration", "assignee": "Mike", "priority": "HIGH", "due_hint": "Friday", "confidence": 0.9},
    {"description": "  ", "assignee": "Nobody", "priority": "low"},
    {"description": "Polish analytics UI", "assignee": "", "priority": "urgent", "confidence": 0.7}
  ],
  "decisions": ["Ship on Friday", "  "],
  "next_steps": ["Schedule retro"]
}`

func TestParseAnalysisNormalizes(t *testing.T) {
	result, err := ParseAnalysis(validReply)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}

	if result.Source != entities.SourceAI {
		t.Errorf("source = %q, want ai", result.Source)
	}
	if result.Mood != entities.MoodPositive {
		t.Errorf("mood = %q, want positive", result.Mood)
	}
	if len(result.ActionItems) != 2 {
		t.Fatalf("empty-description item not dropped: %d items", len(result.ActionItems))
	}
	if result.ActionItems[0].Priority != entities.PriorityHigh {
		t.Errorf("priority = %q, want high", result.ActionItems[0].Priority)
	}
	// "urgent" aliases to critical, empty assignee becomes Unassigned.
	if result.ActionItems[1].Priority != entities.PriorityCritical {
		t.Errorf("urgent not aliased to critical: %q", result.ActionItems[1].Priority)
	}
	if result.ActionItems[1].Assignee != entities.UnassignedOwner {
		t.Errorf("assignee = %q, want %q", result.ActionItems[1].Assignee, entities.UnassignedOwner)
	}
	if len(result.Decisions) != 1 {
		t.Errorf("blank decision not dropped: %v", result.Decisions)
	}

	// Confidence is the mean of the provided item confidences.
	want := (0.9 + 0.7) / 2
	if result.Confidence < want-0.001 || result.Confidence > want+0.001 {
		t.Errorf("confidence = %f, want %f", result.Confidence, want)
	}
}

func TestParseAnalysisMarkdownFences(t *testing.T) {
	fenced := "```json\n" + validReply + "\n```"
	if _, err := ParseAnalysis(fenced); err != nil {
		t.Fatalf("fenced reply rejected: %v", err)
	}

	prosed := "Here is the analysis you asked for:\n" + validReply + "\nLet me know if you need more."
	if _, err := ParseAnalysis(prosed); err != nil {
		t.Fatalf("reply with surrounding prose rejected: %v", err)
	}
}

func TestParseAnalysisUnknownEnumsDefault(t *testing.T) {
	raw := `{"summary":"s","mood":{"overall":"ecstatic"},"action_items":[{"description":"do it","priority":"blocker"}]}`
	result, err := ParseAnalysis(raw)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if result.Mood != entities.MoodNeutral {
		t.Errorf("unknown mood should become neutral, got %q", result.Mood)
	}
	if result.ActionItems[0].Priority != entities.PriorityMedium {
		t.Errorf("unknown priority should become medium, got %q", result.ActionItems[0].Priority)
	}
	if result.ActionItems[0].Confidence != defaultItemConfidence {
		t.Errorf("absent confidence should default to %f, got %f", defaultItemConfidence, result.ActionItems[0].Confidence)
	}
}

func TestParseAnalysisConfidenceClamped(t *testing.T) {
	raw := `{"summary":"s","action_items":[{"description":"a","confidence":3.5},{"description":"b","confidence":-1}]}`
	result, err := ParseAnalysis(raw)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	for _, item := range result.ActionItems {
		if item.Confidence < 0 || item.Confidence > 1 {
			t.Errorf("item confidence %f outside [0,1]", item.Confidence)
		}
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("result confidence %f outside [0,1]", result.Confidence)
	}
}

func TestParseAnalysisMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"truncated JSON", `{"summary":"cut off", "action_items":[{"desc`},
		{"not JSON at all", "I could not analyze this transcript, sorry."},
		{"empty string", ""},
		{"missing summary", `{"mood":{"overall":"positive"},"decisions":["d"]}`},
		{"no content", `{"summary":"only a summary"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAnalysis(tc.raw)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestParseAnalysisAlwaysPopulated(t *testing.T) {
	raw := `{"summary":"s","decisions":["keep the date"]}`
	result, err := ParseAnalysis(raw)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if result.ActionItems == nil || result.NextSteps == nil || result.Decisions == nil {
		t.Fatal("result slices must never be nil")
	}
	if result.Mood == "" {
		t.Fatal("mood must never be empty")
	}
}
