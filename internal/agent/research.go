package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sells-group/strategy-agent/internal/model"
)

const (
	narrativeMaxTokens  = 8000
	extractionMaxTokens = 4000

	maxSearchContext    = 3000
	maxNarrativeContext = 20000
)

const narrativePrompt = `Role: Senior Strategy Consultant.
Task: Create a COMPREHENSIVE Strategic Account Plan for '%s'.

Sources:
Search: %s
Finance: %s

Instructions:
1. Generate a detailed, multi-section report in Markdown.
2. **IMPORTANT:** Do NOT include a title page, "Date:", "Prepared by:", or any introductory conversation.
3. Start DIRECTLY with the first header (e.g., # Executive Summary).
4. Sections required:
   - **Executive Summary**: High-level strategic overview.
   - **Product & Services Portfolio**: Detailed breakdown of offerings.
   - **Market Analysis**: Competitive landscape and position.
   - **Financial Health**: Analysis of the provided financial metrics.
   - **SWOT Analysis**: Detailed Strengths, Weaknesses, Opportunities, Threats.
   - **Strategic Recommendations**: Actionable next steps.`

const extractionPrompt = `You are a Data Extraction Specialist.

INPUT TEXT:
%s

INSTRUCTIONS:
Convert the insights from the text above into a valid JSON object.
Do NOT include Markdown formatting (no ` + "```json" + `). Just the raw JSON string.

JSON Structure:
{
    "company_name": "%s",
    "overview": "Summary of the overview section...",
    "products_services": ["List of key products..."],
    "market_position": "Summary of market position...",
    "swot_analysis": { "strengths": [], "weaknesses": [], "opportunities": [], "threats": [] },
    "strategic_recommendations": ["List of recommendations..."]
}`

// Research runs the full pipeline for one company: search, financial
// lookup, narrative generation, structured extraction. The plan is stored
// under the company name exactly as given and the narrative is returned.
func (a *Agent) Research(ctx context.Context, company string, status StatusFunc) string {
	notify(status, "Searching global sources for "+company+"...")
	results := a.search.Search(ctx, company+" strategic analysis news", a.maxResults)

	notify(status, "Analyzing financial markets...")
	fin := a.finance.Fetch(ctx, company)

	notify(status, "Writing comprehensive report (step 1/2)...")
	searchJSON, _ := json.Marshal(results)
	finJSON, _ := json.Marshal(fin)
	prompt := fmt.Sprintf(narrativePrompt, company, truncate(string(searchJSON), maxSearchContext), finJSON)
	narrative := a.generate(ctx, "narrative", prompt, narrativeMaxTokens)

	notify(status, "Extracting structured data (step 2/2)...")
	data := a.extractPlan(ctx, company, narrative)

	a.session.StorePlan(company, narrative, data)
	return narrative
}

// extractPlan compresses the narrative into the structured plan shape. A
// failed parse keeps the raw model output under an error marker so the
// narrative is never lost to a bad extraction.
func (a *Agent) extractPlan(ctx context.Context, company, narrative string) model.PlanData {
	prompt := fmt.Sprintf(extractionPrompt, truncate(narrative, maxNarrativeContext), company)
	raw := a.generate(ctx, "extract", prompt, extractionMaxTokens)

	cleaned := cleanJSON(raw)
	var data model.PlanData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return model.PlanData{
			model.KeyExtractionError:   "Failed to parse JSON",
			model.KeyExtractionRawText: cleaned,
		}
	}
	return data
}
