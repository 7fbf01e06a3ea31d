package dashboard

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	event := WidgetEvent{SessionKey: "alice", Category: "Registry Scan", WidgetID: "image-risk", Reason: "widget.remove"}
	require.NoError(t, hook.WidgetUpdated(context.Background(), event))
	select {
	case e := <-ch:
		assert.Equal(t, event, e)
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookFiltersBySession(t *testing.T) {
	hook := NewBroadcastHook()
	alice, cancelAlice := hook.SubscribeSession("alice")
	defer cancelAlice()
	bob, cancelBob := hook.SubscribeSession("bob")
	defer cancelBob()

	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{SessionKey: "alice", Reason: "search"}))

	select {
	case e := <-alice:
		assert.Equal(t, "search", e.Reason)
	default:
		t.Fatalf("expected alice to receive the event")
	}
	select {
	case e := <-bob:
		t.Fatalf("bob should not receive %+v", e)
	default:
	}
}

func TestBroadcastHookCancelAndClose(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	assert.Equal(t, 1, hook.Subscribers())
	cancel()
	cancel()
	assert.Equal(t, 0, hook.Subscribers())
	_, ok := <-ch
	assert.False(t, ok)

	other, _ := hook.Subscribe()
	hook.Close()
	_, ok = <-other
	assert.False(t, ok)

	late, lateCancel := hook.Subscribe()
	defer lateCancel()
	_, ok = <-late
	assert.False(t, ok)
}

func TestBroadcastHookDropsWhenSubscriberIsFull(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()
	for range subscriberBuffer + 4 {
		require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{Reason: "refresh"}))
	}
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=alice"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{SessionKey: "alice", Reason: "panel.apply"}))

	var got WidgetEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "panel.apply", got.Reason)
	assert.Equal(t, "alice", got.SessionKey)
}

func TestWriteSSEFormatsEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, writeSSE(rec, WidgetEvent{SessionKey: "default", Reason: "reset"}))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: reset\ndata: {"))
	assert.True(t, strings.HasSuffix(body, "}\n\n"))
	assert.Contains(t, body, `"session":"default"`)
}

func TestWriteSSEDropsEventNameWithLineBreaks(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, writeSSE(rec, WidgetEvent{SessionKey: "bob", Reason: "reset\ndata: {\"forged\":true}\n\nevent: x"}))

	lines := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "data: {"))
}

func TestServeSSEDefaultsToDefaultSession(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeSSE))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{SessionKey: "bob", Reason: "search"}))
	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{SessionKey: "default", Reason: "reset"}))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: reset\n", line)
}
