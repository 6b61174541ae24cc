// Package session holds all per-conversation state: the company memory
// store, the tool-call diagnostics log, and the chat transcript. A Session
// is owned by exactly one orchestrator; nothing here survives the process.
package session

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/strategy-agent/internal/model"
)

// maxLogField caps tool-call input/output summaries.
const maxLogField = 300

// Session is the single mutable state bundle for one conversation.
type Session struct {
	id string

	mu        sync.Mutex
	plans     map[string]*model.CompanyPlan
	order     []string // company keys, insertion order
	toolCalls []model.ToolCallRecord
	history   []model.ChatMessage
}

// New creates an empty session with a fresh id.
func New() *Session {
	return &Session{
		id:    uuid.NewString(),
		plans: make(map[string]*model.CompanyPlan),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// StorePlan writes the research result for a company. OriginalText is set
// only on the first write for that key; later writes refresh Text and Data
// but never touch it.
func (s *Session) StorePlan(company, text string, data model.PlanData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.plans[company]; ok {
		existing.Text = text
		existing.Data = data
		return
	}
	s.plans[company] = &model.CompanyPlan{
		OriginalText: text,
		Text:         text,
		Data:         data,
	}
	s.order = append(s.order, company)
}

// Plan returns a copy of the stored plan for a company. The Data map is
// copied too, so callers may read it while later turns mutate the store.
func (s *Session) Plan(company string) (model.CompanyPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[company]
	if !ok {
		return model.CompanyPlan{}, false
	}
	cp := *p
	if p.Data != nil {
		cp.Data = make(model.PlanData, len(p.Data))
		for k, v := range p.Data {
			cp.Data[k] = v
		}
	}
	return cp, true
}

// Companies lists the researched company keys in insertion order.
func (s *Session) Companies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// LastCompany returns the most recently inserted company key. Note this is
// insertion order, not conversational recency.
func (s *Session) LastCompany() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) == 0 {
		return "", false
	}
	return s.order[len(s.order)-1], true
}

// SetText overwrites the current report text for a company. OriginalText
// is left alone.
func (s *Session) SetText(company, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[company]
	if !ok {
		return eris.Errorf("session: company not found: %s", company)
	}
	p.Text = text
	return nil
}

// SetDataField replaces one field of a company's structured data verbatim.
// The field must already exist; other fields are untouched.
func (s *Session) SetDataField(company, section string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[company]
	if !ok {
		return eris.Errorf("session: company not found: %s", company)
	}
	if p.Data == nil {
		return eris.Errorf("session: no structured data for %s", company)
	}
	if _, ok := p.Data[section]; !ok {
		return eris.Errorf("session: unknown section %q for %s", section, company)
	}
	p.Data[section] = value
	return nil
}

// RecordTool appends one entry to the diagnostics log. Input and output
// are stringified and truncated to keep the log viewer readable.
func (s *Session) RecordTool(tool string, input, output any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toolCalls = append(s.toolCalls, model.ToolCallRecord{
		Tool:      tool,
		Input:     truncate(fmt.Sprint(input), maxLogField),
		Output:    truncate(fmt.Sprint(output), maxLogField),
		Timestamp: time.Now().UTC(),
	})
}

// ToolCalls returns the diagnostics log in append order.
func (s *Session) ToolCalls() []model.ToolCallRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ToolCallRecord, len(s.toolCalls))
	copy(out, s.toolCalls)
	return out
}

// AppendMessage records one chat turn.
func (s *Session) AppendMessage(role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, model.ChatMessage{Role: role, Text: text})
}

// History returns the chat transcript so far.
func (s *Session) History() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
