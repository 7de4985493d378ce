package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// fallbackConfidence is reported on heuristic results. It must stay at or
// below 0.5 so callers can always tell a heuristic result from a model one
// by score alone.
const fallbackConfidence = 0.4

// Keywords holds the keyword lists driving the heuristic extractor. The
// zero value is unusable; start from DefaultKeywords and override fields
// as needed.
type Keywords struct {
	Positive  []string
	Negative  []string
	Task      []string
	Urgent    []string
	Important []string
	Decision  []string
	NextStep  []string
}

// DefaultKeywords returns the stock keyword lists.
func DefaultKeywords() Keywords {
	return Keywords{
		Positive:  []string{"good", "great", "excellent", "positive", "success", "complete", "finished", "ready", "done", "progress"},
		Negative:  []string{"problem", "issue", "error", "failed", "critical", "urgent", "delay", "concern", "worry", "difficult"},
		Task:      []string{"will", "need to", "should", "must", "finish", "complete", "schedule", "assign", "handle", "prepare"},
		Urgent:    []string{"critical", "urgent", "asap", "immediately"},
		Important: []string{"must", "important", "priority"},
		Decision:  []string{"decided", "agreed", "concluded", "final", "approved", "confirmed"},
		NextStep:  []string{"next", "follow up", "will send", "plan", "prepare", "finalize"},
	}
}

var (
	speakerRe = regexp.MustCompile(`^([A-Z][A-Za-z.'-]*(?: [A-Z][A-Za-z.'-]*)?):\s*(.+)$`)
	dueRe     = regexp.MustCompile(`(?i)\bby\s+((?:next\s+|end\s+of\s+)?[a-z0-9]+)`)
	wordRe    = regexp.MustCompile(`[^a-z0-9']+`)
)

// Extractor is the deterministic keyword-based analyzer used whenever the
// model cannot be reached or answers garbage. It never fails and never
// touches the network.
type Extractor struct {
	kw Keywords
}

// NewExtractor creates an extractor with the given keyword lists. Empty
// lists are filled from DefaultKeywords.
func NewExtractor(kw Keywords) *Extractor {
	def := DefaultKeywords()
	if len(kw.Positive) == 0 {
		kw.Positive = def.Positive
	}
	if len(kw.Negative) == 0 {
		kw.Negative = def.Negative
	}
	if len(kw.Task) == 0 {
		kw.Task = def.Task
	}
	if len(kw.Urgent) == 0 {
		kw.Urgent = def.Urgent
	}
	if len(kw.Important) == 0 {
		kw.Important = def.Important
	}
	if len(kw.Decision) == 0 {
		kw.Decision = def.Decision
	}
	if len(kw.NextStep) == 0 {
		kw.NextStep = def.NextStep
	}
	return &Extractor{kw: kw}
}

type utterance struct {
	speaker string
	text    string
}

// Extract produces a fully populated fallback result from the transcript
// alone. Same input, same output.
func (e *Extractor) Extract(req entities.AnalysisRequest) *entities.AnalysisResult {
	result := &entities.AnalysisResult{
		Source:     entities.SourceFallback,
		Confidence: fallbackConfidence,
	}

	utterances := splitUtterances(req.Transcript)
	if len(utterances) == 0 {
		result.Summary = "No transcript content was found; nothing could be analyzed."
		result.Mood = entities.MoodNeutral
		result.MoodJustification = "Empty transcript."
		result.EnsurePopulated()
		return result
	}

	speakers := make(map[string]bool)
	var posCount, negCount int

	for _, u := range utterances {
		if u.speaker != "" {
			speakers[u.speaker] = true
		}

		norm := normalize(u.text)
		posCount += countAny(norm, e.kw.Positive)
		negCount += countAny(norm, e.kw.Negative)

		if containsAny(norm, e.kw.Task) {
			item := entities.ActionItem{
				Description: u.text,
				Assignee:    u.speaker,
				Priority:    e.priorityOf(norm),
				DueHint:     dueHint(u.text),
				Confidence:  fallbackConfidence,
			}
			result.ActionItems = append(result.ActionItems, item)
		}
		if containsAny(norm, e.kw.Decision) {
			result.Decisions = append(result.Decisions, u.text)
		}
		if containsAny(norm, e.kw.NextStep) {
			result.NextSteps = append(result.NextSteps, u.text)
		}
	}

	switch {
	case posCount > negCount:
		result.Mood = entities.MoodPositive
		result.MoodJustification = fmt.Sprintf("Positive keywords outnumber negative ones %d to %d.", posCount, negCount)
	case negCount > posCount:
		result.Mood = entities.MoodNegative
		result.MoodJustification = fmt.Sprintf("Negative keywords outnumber positive ones %d to %d.", negCount, posCount)
	default:
		result.Mood = entities.MoodNeutral
		result.MoodJustification = "No clear keyword majority."
	}

	result.Summary = buildSummary(utterances[0].text, len(result.ActionItems), len(result.Decisions), len(speakers))
	result.EnsurePopulated()
	return result
}

func (e *Extractor) priorityOf(norm string) entities.Priority {
	if containsAny(norm, e.kw.Urgent) {
		return entities.PriorityCritical
	}
	if containsAny(norm, e.kw.Important) {
		return entities.PriorityHigh
	}
	return entities.PriorityMedium
}

func splitUtterances(transcript string) []utterance {
	var out []utterance
	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := speakerRe.FindStringSubmatch(line); m != nil {
			out = append(out, utterance{speaker: m[1], text: strings.TrimSpace(m[2])})
		} else {
			out = append(out, utterance{text: line})
		}
	}
	return out
}

// normalize lowercases and pads a line so keyword lookups match on whole
// words and multi-word phrases alike.
func normalize(s string) string {
	return " " + strings.TrimSpace(wordRe.ReplaceAllString(strings.ToLower(s), " ")) + " "
}

func containsAny(norm string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(norm, " "+kw+" ") {
			return true
		}
	}
	return false
}

func countAny(norm string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		n += strings.Count(norm, " "+kw+" ")
	}
	return n
}

func dueHint(text string) string {
	if m := dueRe.FindStringSubmatch(text); m != nil {
		return strings.TrimRight(m[1], ".,!?")
	}
	return ""
}

func buildSummary(first string, tasks, decisions, participants int) string {
	if len(first) > 120 {
		first = first[:120] + "..."
	}
	return fmt.Sprintf(
		"Keyword-based summary. Opening topic: %s Detected %d action item(s), %d decision(s), %d identified participant(s).",
		ensurePeriod(first), tasks, decisions, participants,
	)
}

func ensurePeriod(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}
