package session

import (
	"testing"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_Lifecycle(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get("run-1")
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = store.Create("run-1")
	require.NoError(t, err)

	ev := core.NewEvent("run-1", core.EventTaskStarted, "writer")
	ev.StateDelta = map[string]any{"task:current": "draft"}
	require.NoError(t, store.AppendEvent("run-1", ev))

	sess, err := store.Get("run-1")
	require.NoError(t, err)
	require.Len(t, sess.GetEvents(), 1)

	v, ok := sess.GetState("task:current")
	require.True(t, ok)
	assert.Equal(t, "draft", v)

	// snapshots are detached from the stored session
	sess.SetState("task:current", "mutated")
	again, err := store.Get("run-1")
	require.NoError(t, err)
	v, _ = again.GetState("task:current")
	assert.Equal(t, "draft", v)

	assert.Equal(t, []string{"run-1"}, store.IDs())

	require.NoError(t, store.Delete("run-1"))
	_, err = store.Get("run-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestInMemoryStore_Errors(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Create("")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	err = store.AppendEvent("missing", core.NewEvent("missing", core.EventRunStarted, "engine"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestInMemoryStore_ReplaysBuiltHistory(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Create("run-2")
	require.NoError(t, err)

	events := []core.Event{
		testutil.NewEventBuilder().Run("run-2").Type(core.EventTaskStarted).Author("writer").State("task:current", "draft").Build(),
		testutil.NewEventBuilder().Run("run-2").Type(core.EventToolCall).Author("writer").FunctionCall("c1", "web_search", `{"query":"go"}`).Build(),
		testutil.NewEventBuilder().Run("run-2").Author("writer").Text("done").Build(),
		testutil.NewEventBuilder().Run("run-2").Type(core.EventTaskFailed).Author("editor").Error("boom").Build(),
	}
	for _, ev := range events {
		require.NoError(t, store.AppendEvent("run-2", ev))
	}

	want := testutil.NewSessionBuilder("run-2").Events(events...).Build()

	got, err := store.Get("run-2")
	require.NoError(t, err)
	assert.Equal(t, want.State, got.State)
	assert.Len(t, got.GetEvents(), len(events))
	assert.Len(t, got.EventsOfType(core.EventTaskCompleted), 1)
	assert.Equal(t, "done", got.EventsOfType(core.EventTaskCompleted)[0].Content.Text())

	failed := got.EventsOfType(core.EventTaskFailed)
	require.Len(t, failed, 1)
	assert.True(t, failed[0].IsError())

	calls := got.EventsOfType(core.EventToolCall)
	require.Len(t, calls, 1)
	assert.Equal(t, "web_search", calls[0].Content.FunctionCalls()[0].Name)
}
