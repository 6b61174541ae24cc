package agent

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/strategy-agent/internal/model"
)

func TestParseIntent(t *testing.T) {
	fallback := model.IntentDecision{Intent: model.IntentResearch, Companies: []string{}}

	tests := []struct {
		name string
		raw  string
		want model.IntentDecision
	}{
		{
			name: "plain json",
			raw:  `{"intent": "compare", "companies": ["Ford", "GM"]}`,
			want: model.IntentDecision{Intent: model.IntentCompare, Companies: []string{"Ford", "GM"}},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"intent\": \"greeting\", \"companies\": []}\n```",
			want: model.IntentDecision{Intent: model.IntentGreeting, Companies: []string{}},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"intent\": \"off_topic\", \"companies\": []}\n```",
			want: model.IntentDecision{Intent: model.IntentOffTopic, Companies: []string{}},
		},
		{
			name: "leading commentary",
			raw:  `Sure, here is the classification: {"intent": "research", "companies": ["Tesla"]} hope that helps!`,
			want: model.IntentDecision{Intent: model.IntentResearch, Companies: []string{"Tesla"}},
		},
		{
			name: "missing companies key",
			raw:  `{"intent": "follow_up"}`,
			want: model.IntentDecision{Intent: model.IntentFollowUp, Companies: []string{}},
		},
		{
			name: "unknown intent value",
			raw:  `{"intent": "banana", "companies": ["Tesla"]}`,
			want: fallback,
		},
		{
			name: "not json",
			raw:  "I cannot classify that.",
			want: fallback,
		},
		{
			name: "empty string",
			raw:  "",
			want: fallback,
		},
		{
			name: "truncated json",
			raw:  `{"intent": "research", "compan`,
			want: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.raw))
		})
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding prose", `Here you go: {"a": 1}. Done.`, `{"a": 1}`},
		{"no braces", "nothing here", "nothing here"},
		{"nested objects", `x {"a": {"b": 2}} y`, `{"a": {"b": 2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit", "abc", 10, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"mid-rune cut backs up", "abécd", 3, "ab"},
		{"multi-byte kept when whole", "abécd", 4, "abé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
