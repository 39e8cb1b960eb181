package core

import (
	"errors"
	"testing"
)

func TestSession_MergeStateAndClone(t *testing.T) {
	s := NewSession("s1")

	s.MergeState(map[string]any{"a": 1, "b": "x"})
	if v, ok := s.GetState("a"); !ok || v.(int) != 1 {
		t.Fatalf("State not applied: %+v", s.State)
	}

	clone := s.Clone()
	if clone == s {
		t.Error("Clone should be a different pointer")
	}

	clone.SetState("c", 2)
	if _, exists := s.GetState("c"); exists {
		t.Error("Original should not have clone's new key")
	}
}

func TestSession_AddEventAppliesDelta(t *testing.T) {
	s := NewSession("s2")

	ev := NewMessageEvent("run-1", EventTaskCompleted, "writer", "done")
	ev.StateDelta = map[string]any{"task:write": "done"}
	s.AddEvent(ev)
	s.AddEvent(NewEvent("run-1", EventRunCompleted, "engine"))

	all := s.GetEvents()
	if len(all) != 2 {
		t.Fatalf("expected 2 events, got %d", len(all))
	}

	all[0].Author = "changed"
	if s.GetEvents()[0].Author != "writer" {
		t.Error("events slice should be copied on read")
	}

	if v, _ := s.GetState("task:write"); v != "done" {
		t.Errorf("expected delta applied, got %v", v)
	}

	if got := s.EventsOfType(EventRunCompleted); len(got) != 1 {
		t.Errorf("expected 1 run.completed event, got %d", len(got))
	}
}

func TestModelLimiter(t *testing.T) {
	l := NewModelLimiter(2)
	if err := l.Increment(); err != nil {
		t.Fatal(err)
	}
	if err := l.Increment(); err != nil {
		t.Fatal(err)
	}
	if err := l.Increment(); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if l.Count() != 3 || l.Remaining() != -1 {
		t.Errorf("unexpected count %d remaining %d", l.Count(), l.Remaining())
	}

	if NewModelLimiter(0).Remaining() != -1 {
		t.Error("zero max should be unlimited")
	}
}

func TestTaskOutput_Value(t *testing.T) {
	raw := TaskOutput{Raw: "text"}
	if raw.Value() != "text" {
		t.Errorf("expected raw text, got %v", raw.Value())
	}

	structured := TaskOutput{Raw: `{"a":1}`, Structured: map[string]any{"a": 1}}
	if m, ok := structured.Value().(map[string]any); !ok || m["a"] != 1 {
		t.Errorf("expected structured map, got %v", structured.Value())
	}
}
