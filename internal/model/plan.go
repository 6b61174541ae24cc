package model

import "time"

// Intent is the classified purpose of a user utterance.
type Intent string

const (
	IntentResearch Intent = "research"
	IntentFollowUp Intent = "follow_up"
	IntentCompare  Intent = "compare"
	IntentOffTopic Intent = "off_topic"
	IntentGreeting Intent = "greeting"
)

// AllIntents returns every valid intent value.
func AllIntents() []Intent {
	return []Intent{IntentResearch, IntentFollowUp, IntentCompare, IntentOffTopic, IntentGreeting}
}

// Valid reports whether the intent is one of the known values.
func (i Intent) Valid() bool {
	for _, v := range AllIntents() {
		if i == v {
			return true
		}
	}
	return false
}

// IntentDecision is the classifier's verdict for one user utterance.
type IntentDecision struct {
	Intent    Intent   `json:"intent"`
	Companies []string `json:"companies"`
}

// SearchResult is one normalized web search hit. Results are produced per
// query and never persisted beyond the current request.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// FinancialSnapshot is a small market-data summary for one ticker. Fields
// are partially populated depending on which provider path succeeded; a
// non-empty Err marks a failed lookup.
type FinancialSnapshot struct {
	Symbol    string  `json:"symbol,omitempty"`
	MarketCap float64 `json:"market_cap,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	Sector    string  `json:"sector,omitempty"`
	Summary   string  `json:"summary,omitempty"`
	Source    string  `json:"source,omitempty"`
	Err       string  `json:"error,omitempty"`
}

// PlanData is the structured form of a strategic account plan. It stays a
// loose map because the section editor addresses fields by JSON key and
// replaces values verbatim, including the error/raw payload left behind by
// a failed extraction.
type PlanData map[string]any

// Expected PlanData keys when extraction succeeds.
const (
	KeyCompanyName       = "company_name"
	KeyOverview          = "overview"
	KeyProductsServices  = "products_services"
	KeyMarketPosition    = "market_position"
	KeySWOTAnalysis      = "swot_analysis"
	KeyRecommendations   = "strategic_recommendations"
	KeyExtractionError   = "error"
	KeyExtractionRawText = "raw"
)

// CompanyPlan bundles the narrative and structured output for one
// researched company. OriginalText is written exactly once, at first
// research; Text tracks the latest regeneration.
type CompanyPlan struct {
	OriginalText string   `json:"original_text"`
	Text         string   `json:"text"`
	Data         PlanData `json:"json"`
}

// ToolCallRecord is one entry in the append-only diagnostics log.
type ToolCallRecord struct {
	Tool      string    `json:"tool"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMessage is one turn of the conversation.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
