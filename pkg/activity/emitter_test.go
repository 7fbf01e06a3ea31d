package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterChannel(t *testing.T) {
	cases := []struct {
		name     string
		config   string
		event    string
		expected string
	}{
		{name: "default", expected: DefaultChannel},
		{name: "configured", config: "audit", expected: "audit"},
		{name: "event wins", config: "audit", event: "security", expected: "security"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			capture := &CaptureHook{}
			em := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: tc.config})

			require.NoError(t, em.Emit(context.Background(), Event{
				Verb:       "dashboard.widget.add",
				ObjectType: "widget",
				ObjectID:   "widget-1",
				Channel:    tc.event,
			}))
			events := capture.Snapshot()
			require.Len(t, events, 1)
			assert.Equal(t, tc.expected, events[0].Channel)
		})
	}
}

func TestEmitterEnabled(t *testing.T) {
	var nilEmitter *Emitter
	assert.False(t, nilEmitter.Enabled())
	assert.False(t, NewEmitter(nil, Config{Enabled: true}).Enabled())
	assert.False(t, NewEmitter(Hooks{&CaptureHook{}}, Config{}).Enabled())
	assert.True(t, NewEmitter(Hooks{&CaptureHook{}}, Config{Enabled: true}).Enabled())
}

func TestDisabledEmitterDropsEvents(t *testing.T) {
	capture := &CaptureHook{}
	em := NewEmitter(Hooks{capture}, Config{Enabled: false})

	require.NoError(t, em.Emit(context.Background(), Event{Verb: "dashboard.reset", ObjectType: "dashboard"}))
	assert.Empty(t, capture.Snapshot())
}
