package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(ts time.Time) func(o *Options) {
	return func(o *Options) { o.Now = func() time.Time { return ts } }
}

func TestCombine_LaterKeysWin(t *testing.T) {
	first := map[string]any{"a": 1}
	second := map[string]any{"a": 2, "b": 3}

	r := Combine("Team", []Output{
		{TaskID: "t1", TaskType: "x", AgentID: "ag1", Value: first},
		{TaskID: "t2", TaskType: "y", AgentID: "ag2", Value: second},
	})

	assert.Equal(t, map[string]any{"a": 2, "b": 3}, r.FinalSummary)
	require.Len(t, r.SequentialResults, 2)
	assert.Equal(t, Result{TaskID: "t1", TaskType: "x", Agent: "ag1", Output: map[string]any{"a": 1}}, r.SequentialResults[0])
	assert.Equal(t, Result{TaskID: "t2", TaskType: "y", Agent: "ag2", Output: map[string]any{"a": 2, "b": 3}}, r.SequentialResults[1])
	assert.Equal(t, map[string]any{"a": 1}, first)
}

func TestCombine_TextOutputs(t *testing.T) {
	ts := time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)

	r := Combine("Corporate Team", []Output{
		{TaskID: "summarize", Value: `{"summary": "Q3 up", "actions": ["email board"]}`},
		{TaskID: "email", Value: "Dear team, results are in."},
		{TaskID: "rank", Value: "```json\n{\"summary\": \"final\"}\n```"},
		{TaskID: "list", Value: `["not", "an", "object"]`},
	}, fixedNow(ts))

	assert.Equal(t, "Corporate Team", r.WorkflowName)
	assert.Equal(t, ts, r.ExecutionTime)
	assert.Equal(t, map[string]any{
		"summary":           "final",
		"actions":           []any{"email board"},
		"task_email_output": "Dear team, results are in.",
		"task_list_output":  `["not", "an", "object"]`,
	}, r.FinalSummary)
	assert.Equal(t, "Dear team, results are in.", r.SequentialResults[1].Output)
}

func TestCombine_Empty(t *testing.T) {
	r := Combine("", nil)
	assert.Empty(t, r.SequentialResults)
	assert.NotNil(t, r.FinalSummary)
	assert.False(t, r.ExecutionTime.IsZero())
}

func TestParseObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"object", `{"a": 1}`, true},
		{"padded object", "  {\"a\": 1}\n", true},
		{"fenced", "```json\n{\"a\": 1}\n```", true},
		{"plain fence", "```\n{\"a\": 1}\n```", true},
		{"unterminated fence", "```json\n{\"a\": 1}", false},
		{"array", `[1, 2]`, false},
		{"number", `42`, false},
		{"invalid", `{"a": }`, false},
		{"prose", "All good.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, ok := ParseObject(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, float64(1), fields["a"])
			}
		})
	}
}
