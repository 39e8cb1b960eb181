// Package report folds the ordered outputs of a run into one combined report.
package report

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Output is the result of one executed task. Value is either a
// map[string]any or a string.
type Output struct {
	TaskID   string
	TaskType string
	AgentID  string
	Value    any
}

// Result is the per-task record kept verbatim in a report.
type Result struct {
	TaskID   string `json:"task_id"`
	TaskType string `json:"task_type"`
	Agent    string `json:"agent"`
	Output   any    `json:"output"`
}

// Report is the combined result of a run.
type Report struct {
	WorkflowName      string         `json:"workflow_name"`
	ExecutionTime     time.Time      `json:"execution_time"`
	SequentialResults []Result       `json:"sequential_results"`
	FinalSummary      map[string]any `json:"final_summary"`
}

// Options configures Combine.
type Options struct {
	// Now supplies the report timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Combine builds a report from outputs in execution order.
//
// Map outputs and text outputs holding a JSON object are merged into the
// final summary; later keys overwrite earlier ones. Any other text is stored
// under "task_<id>_output". The per-task results keep every output as given.
func Combine(workflowName string, outputs []Output, optFns ...func(o *Options)) *Report {
	opts := Options{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := &Report{
		WorkflowName:      workflowName,
		ExecutionTime:     opts.Now(),
		SequentialResults: make([]Result, 0, len(outputs)),
		FinalSummary:      map[string]any{},
	}

	for _, out := range outputs {
		r.SequentialResults = append(r.SequentialResults, Result{
			TaskID:   out.TaskID,
			TaskType: out.TaskType,
			Agent:    out.AgentID,
			Output:   out.Value,
		})

		if fields, ok := Structured(out.Value); ok {
			maps.Copy(r.FinalSummary, fields)
			continue
		}

		r.FinalSummary[TextKey(out.TaskID)] = out.Value
	}

	return r
}

// TextKey is the summary key used for unstructured task output.
func TextKey(taskID string) string {
	return fmt.Sprintf("task_%s_output", taskID)
}

// Structured returns the fields of v when v is a map or a string holding a
// JSON object, optionally wrapped in a markdown code fence.
func Structured(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case string:
		return ParseObject(val)
	case []byte:
		return ParseObject(string(val))
	default:
		return nil, false
	}
}

// ParseObject parses text as a JSON object.
func ParseObject(text string) (map[string]any, bool) {
	text = stripFence(strings.TrimSpace(text))
	if text == "" || !gjson.Valid(text) {
		return nil, false
	}

	res := gjson.Parse(text)
	if !res.IsObject() {
		return nil, false
	}

	fields, ok := res.Value().(map[string]any)

	return fields, ok
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		return text
	}

	body = strings.TrimSpace(body)
	if !strings.HasSuffix(body, "```") {
		return text
	}

	return strings.TrimSpace(strings.TrimSuffix(body, "```"))
}
