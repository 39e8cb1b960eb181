package tool

import (
	"fmt"
	"slices"
	"sort"

	"github.com/hupe1980/agentnet/core"
)

const notePrefix = "note:"

// NewNotesTool returns the "run_notes" tool. Agents use it to leave findings
// for agents that run later in the same network run. Notes live in the run
// session state under the "note:" prefix.
func NewNotesTool() Tool {
	return NewFunctionTool(
		"run_notes",
		"Read or write shared notes for the current run. Operations: get, set, list.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type":        "string",
					"enum":        []string{"get", "set", "list"},
					"description": "The note operation to perform",
				},
				"key": map[string]any{
					"type":        "string",
					"description": "Note key for get/set",
				},
				"value": map[string]any{
					"type":        "string",
					"description": "Note text for set",
				},
			},
			"required": []string{"operation"},
		},
		callNotes,
	)
}

func callNotes(tc *core.ToolContext, args map[string]any) (any, error) {
	op, _ := args["operation"].(string)
	key, _ := args["key"].(string)

	switch op {
	case "get":
		if key == "" {
			return nil, fmt.Errorf("key is required for get")
		}
		v, ok := tc.GetState(notePrefix + key)
		return map[string]any{"key": key, "exists": ok, "value": v}, nil
	case "set":
		if key == "" {
			return nil, fmt.Errorf("key is required for set")
		}
		value, _ := args["value"].(string)
		tc.SetState(notePrefix+key, value)
		indexNote(tc, key)
		return map[string]any{"key": key, "success": true}, nil
	case "list":
		return listNotes(tc), nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", op)
	}
}

const noteIndex = notePrefix + "_index"

func listNotes(tc *core.ToolContext) []string {
	idx, _ := tc.GetState(noteIndex)
	keys, _ := idx.([]string)
	out := slices.Clone(keys)
	sort.Strings(out)
	return out
}

func indexNote(tc *core.ToolContext, key string) {
	idx, _ := tc.GetState(noteIndex)
	keys, _ := idx.([]string)
	if slices.Contains(keys, key) {
		return
	}
	tc.SetState(noteIndex, append(slices.Clone(keys), key))
}
