package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksDropIncompleteEvents(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{nil, capture}

	for _, event := range []Event{
		{},
		{Verb: "dashboard.widget.add"},
		{Verb: "  ", ObjectType: "widget"},
		{ObjectType: "dashboard"},
	} {
		require.NoError(t, hooks.Notify(context.Background(), event))
	}
	assert.Empty(t, capture.Snapshot())
}

func TestHooksDeliverTrimmedEvent(t *testing.T) {
	capture := &CaptureHook{}
	err := Hooks{capture}.Notify(context.Background(), Event{
		Verb:       "\tdashboard.widget.remove ",
		ActorID:    " user-9 ",
		ObjectType: " widget ",
		ObjectID:   " security-issues",
	})
	require.NoError(t, err)

	events := capture.Snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "dashboard.widget.remove", events[0].Verb)
	assert.Equal(t, "user-9", events[0].ActorID)
	assert.Equal(t, "widget", events[0].ObjectType)
	assert.Equal(t, "security-issues", events[0].ObjectID)
	assert.WithinDuration(t, time.Now(), events[0].OccurredAt, time.Minute)
}

func TestNormalizeEventOwnsMetadata(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	source := Event{Verb: "dashboard.panel.apply", Metadata: map[string]any{"session": "s-1"}, OccurredAt: at}

	normalized := NormalizeEvent(source)
	normalized.Metadata["session"] = "s-2"

	assert.Equal(t, "s-1", source.Metadata["session"])
	assert.Equal(t, at, normalized.OccurredAt)
}

func TestHooksKeepDeliveringAfterFailure(t *testing.T) {
	first := errors.New("primary sink down")
	second := errors.New("secondary sink down")
	capture := &CaptureHook{}
	hooks := Hooks{
		HookFunc(func(context.Context, Event) error { return first }),
		capture,
		HookFunc(func(context.Context, Event) error { return second }),
	}

	err := hooks.Notify(context.Background(), Event{Verb: "dashboard.reset", ObjectType: "dashboard"})
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Len(t, capture.Snapshot(), 1)
}

func TestCaptureSnapshotIsDetached(t *testing.T) {
	capture := &CaptureHook{}
	require.NoError(t, capture.Notify(context.Background(), Event{Verb: "dashboard.widget.add"}))

	snapshot := capture.Snapshot()
	snapshot[0].Verb = "changed"
	assert.Equal(t, "dashboard.widget.add", capture.Snapshot()[0].Verb)
}
