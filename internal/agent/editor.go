package agent

import (
	"context"
	"encoding/json"
	"fmt"
)

const maxFollowUpContext = 5000

const rewritePrompt = `The user has manually updated the '%s' section of the account plan.
Updated JSON Data: %s

Task: Rewrite the FULL textual report to reflect this change.
Constraints:
1. STRICTLY maintain the original professional format.
2. Do NOT include "Here is the updated report" or any conversational filler.
3. Do NOT include dates or prepared by lines.
4. Start directly with the Markdown content.`

// answerFollowUp answers a question against the stored report for company.
func (a *Agent) answerFollowUp(ctx context.Context, company, question string) string {
	plan, _ := a.session.Plan(company)
	prompt := fmt.Sprintf("Context Report: %s. User Question: %s. Answer professionally.",
		truncate(plan.Text, maxFollowUpContext), question)
	return a.generate(ctx, "follow_up", prompt, defaultMaxTokens)
}

// UpdateSection replaces one field of a company's structured plan and
// regenerates the textual report to match. The original report text is
// preserved; only the current text is overwritten. Unknown companies or
// sections fail before any state changes.
func (a *Agent) UpdateSection(ctx context.Context, company, section string, value any) (string, error) {
	if err := a.session.SetDataField(company, section, value); err != nil {
		return "", err
	}

	plan, _ := a.session.Plan(company)
	dataJSON, _ := json.Marshal(plan.Data)
	newText := a.generate(ctx, "rewrite", fmt.Sprintf(rewritePrompt, section, dataJSON), narrativeMaxTokens)

	if err := a.session.SetText(company, newText); err != nil {
		return "", err
	}
	return "Report Regenerated Successfully.", nil
}
