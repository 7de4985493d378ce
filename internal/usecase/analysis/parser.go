package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// ErrMalformedResponse means the model's reply could not be turned into a
// usable result. The service treats it like any other call failure and goes
// down the fallback path.
var ErrMalformedResponse = errors.New("analysis: malformed model response")

// defaultItemConfidence is assumed when the model omits per-item confidence.
const defaultItemConfidence = 0.85

// wireResult mirrors the JSON shape the prompt asks the model for. Kept
// separate from the entity so sloppy model output never leaks into it.
type wireResult struct {
	Summary string `json:"summary"`
	Mood    struct {
		Overall       string `json:"overall"`
		Justification string `json:"justification"`
	} `json:"mood"`
	ActionItems []struct {
		Description string   `json:"description"`
		Assignee    string   `json:"assignee"`
		Priority    string   `json:"priority"`
		DueHint     string   `json:"due_hint"`
		Confidence  *float64 `json:"confidence"`
	} `json:"action_items"`
	Decisions []string `json:"decisions"`
	NextSteps []string `json:"next_steps"`
}

// ParseAnalysis validates and normalizes a raw model reply into an
// AnalysisResult. Missing optional fields never fail; a reply that cannot be
// parsed, has no summary, or carries no content at all returns
// ErrMalformedResponse.
func ParseAnalysis(raw string) (*entities.AnalysisResult, error) {
	jsonString := extractJSON(raw)
	if jsonString == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(jsonString), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	summary := strings.TrimSpace(wire.Summary)
	if summary == "" {
		return nil, fmt.Errorf("%w: missing summary", ErrMalformedResponse)
	}

	result := &entities.AnalysisResult{
		Summary:           summary,
		Mood:              entities.NormalizeMood(wire.Mood.Overall),
		MoodJustification: strings.TrimSpace(wire.Mood.Justification),
		Source:            entities.SourceAI,
	}

	var confSum float64
	var confCount int
	for _, item := range wire.ActionItems {
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			continue
		}
		conf := defaultItemConfidence
		if item.Confidence != nil {
			conf = entities.ClampConfidence(*item.Confidence)
			confSum += conf
			confCount++
		}
		result.ActionItems = append(result.ActionItems, entities.ActionItem{
			Description: desc,
			Assignee:    strings.TrimSpace(item.Assignee),
			Priority:    entities.NormalizePriority(item.Priority),
			DueHint:     strings.TrimSpace(item.DueHint),
			Confidence:  conf,
		})
	}

	for _, d := range wire.Decisions {
		if d = strings.TrimSpace(d); d != "" {
			result.Decisions = append(result.Decisions, d)
		}
	}
	for _, s := range wire.NextSteps {
		if s = strings.TrimSpace(s); s != "" {
			result.NextSteps = append(result.NextSteps, s)
		}
	}

	if len(result.ActionItems) == 0 && len(result.Decisions) == 0 && len(result.NextSteps) == 0 {
		return nil, fmt.Errorf("%w: no extractable content", ErrMalformedResponse)
	}

	if confCount > 0 {
		result.Confidence = entities.ClampConfidence(confSum / float64(confCount))
	} else {
		result.Confidence = defaultItemConfidence
	}

	result.EnsurePopulated()
	return result, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	// Locate the outermost object in case the model added prose around it.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}
