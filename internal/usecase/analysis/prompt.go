package analysis

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// DefaultMaxPromptChars bounds the transcript portion of a prompt when the
// caller does not configure a limit.
const DefaultMaxPromptChars = 24000

const responseSchema = `{
  "summary": "2-3 sentence summary of the meeting",
  "mood": {
    "overall": "positive|neutral|negative",
    "justification": "one sentence explaining the mood"
  },
  "action_items": [
    {
      "description": "what needs to be done",
      "assignee": "person responsible, or Unassigned",
      "priority": "critical|high|medium|low",
      "due_hint": "any mentioned deadline, or empty",
      "confidence": 0.0
    }
  ],
  "decisions": ["decisions that were made"],
  "next_steps": ["agreed follow-ups"]
}`

// BuildPrompt renders the instruction prompt for one analysis request. It is
// deterministic: the same request always yields the same prompt. When the
// transcript exceeds maxChars it is cut from the end and truncated=true is
// returned so the caller can lower its confidence in the result.
func BuildPrompt(req entities.AnalysisRequest, maxChars int) (string, bool) {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}

	transcript := req.Transcript
	truncated := false
	if len(transcript) > maxChars {
		transcript = transcript[:maxChars]
		truncated = true
	}

	var b strings.Builder
	b.WriteString("You are an assistant that analyzes meeting transcripts for a software team.\n")

	if req.ClientName != "" && req.ProjectName != "" {
		fmt.Fprintf(&b, "This is a %s meeting for the project %q with the client %q.\n", req.Type(), req.ProjectName, req.ClientName)
	} else if req.ProjectName != "" {
		fmt.Fprintf(&b, "This is a %s meeting for the project %q.\n", req.Type(), req.ProjectName)
	} else if req.ClientName != "" {
		fmt.Fprintf(&b, "This is a %s meeting with the client %q.\n", req.Type(), req.ClientName)
	} else {
		fmt.Fprintf(&b, "This is a %s meeting.\n", req.Type())
	}

	b.WriteString("\nAnalyze the transcript below and respond with ONLY a JSON object, no prose, no markdown fences, exactly this shape:\n\n")
	b.WriteString(responseSchema)
	b.WriteString("\n\nRules: mood.overall must be one of positive, neutral, negative. ")
	b.WriteString("priority must be one of critical, high, medium, low. ")
	b.WriteString("confidence is a number between 0 and 1. ")
	b.WriteString("Use \"Unassigned\" when no owner is clear.\n")

	b.WriteString("\nTranscript:\n")
	b.WriteString(transcript)
	b.WriteString("\n")

	return b.String(), truncated
}
