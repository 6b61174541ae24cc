package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sells-group/strategy-agent/internal/model"
)

const classifyMaxTokens = 200

const intentPrompt = `Analyze: %q

Return valid JSON ONLY:
{
    "intent": "research" | "follow_up" | "compare" | "off_topic" | "greeting",
    "companies": ["List", "of", "companies"]
}`

// classifyIntent asks the model what the user wants to do.
func (a *Agent) classifyIntent(ctx context.Context, userText string) model.IntentDecision {
	raw := a.generate(ctx, "classify", fmt.Sprintf(intentPrompt, userText), classifyMaxTokens)
	return ParseIntent(raw)
}

// ParseIntent turns raw model output into an IntentDecision. Any malformed
// or unrecognized output falls back to plain research with no companies, so
// dispatch always has a usable decision.
func ParseIntent(raw string) model.IntentDecision {
	fallback := model.IntentDecision{Intent: model.IntentResearch, Companies: []string{}}

	var d model.IntentDecision
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &d); err != nil {
		return fallback
	}
	if !d.Intent.Valid() {
		return fallback
	}
	if d.Companies == nil {
		d.Companies = []string{}
	}
	return d
}
