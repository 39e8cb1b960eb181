package core

import (
	"context"
	"fmt"
	"testing"
)

type recordingStore struct {
	created []string
	events  map[string][]Event
}

func (r *recordingStore) Create(id string) (*Session, error) {
	r.created = append(r.created, id)
	return NewSession(id), nil
}

func (r *recordingStore) Get(id string) (*Session, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *recordingStore) AppendEvent(id string, ev Event) error {
	if r.events == nil {
		r.events = map[string][]Event{}
	}
	r.events[id] = append(r.events[id], ev)
	return nil
}

func (r *recordingStore) Delete(string) error { return nil }

func TestRunContext_EmitMirrorsStore(t *testing.T) {
	store := &recordingStore{}
	rc, err := NewRunContext(context.Background(), "run-1", func(o *RunOptions) {
		o.NetworkID = "network_1"
		o.SessionStore = store
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(store.created) != 1 || store.created[0] != "run-1" {
		t.Fatalf("expected session created in store, got %v", store.created)
	}

	if err := rc.Emit(NewEvent("", EventRunStarted, "engine")); err != nil {
		t.Fatal(err)
	}

	if got := store.events["run-1"]; len(got) != 1 || got[0].RunID != "run-1" {
		t.Fatalf("expected event mirrored with run id, got %+v", got)
	}

	if len(rc.Session.GetEvents()) != 1 {
		t.Error("expected event in local session")
	}

	if rc.Session.Metadata["network_id"] != "network_1" {
		t.Error("expected network id metadata")
	}
}

func TestRunContext_GeneratesIDAndSharesState(t *testing.T) {
	rc, err := NewRunContext(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	if rc.RunID == "" {
		t.Fatal("expected generated run id")
	}

	ctx, cancel := context.WithCancel(context.Background())
	child := rc.WithContext(ctx)
	cancel()

	if child.Err() == nil {
		t.Error("expected child context cancelled")
	}
	if rc.Err() != nil {
		t.Error("parent context must not be cancelled")
	}

	child.SetState("k", "v")
	if v, ok := rc.GetState("k"); !ok || v != "v" {
		t.Error("state should be shared with parent")
	}

	tc := NewToolContext(child, "analyst", "call-1")
	if tc.AgentName() != "analyst" || tc.FunctionCallID() != "call-1" || tc.RunID() != rc.RunID {
		t.Errorf("unexpected tool context %+v", tc)
	}
	if tc.Logger() == nil {
		t.Error("expected non-nil logger")
	}
}
