package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

const subscriberBuffer = 16

// BroadcastHook fans widget events out to in-process subscribers. Slow
// subscribers miss events instead of blocking the writer.
type BroadcastHook struct {
	mu     sync.RWMutex
	subs   map[int]subscriber
	next   int
	closed bool
}

type subscriber struct {
	session string
	ch      chan WidgetEvent
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]subscriber)}
}

// WidgetUpdated satisfies RefreshHook.
func (h *BroadcastHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.session != "" && sub.session != event.SessionKey {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns every event and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan WidgetEvent, func()) {
	return h.SubscribeSession("")
}

// SubscribeSession returns the events of one session. An empty key receives all.
func (h *BroadcastHook) SubscribeSession(sessionKey string) (<-chan WidgetEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan WidgetEvent, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = subscriber{session: sessionKey, ch: ch}
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

// Subscribers reports the number of live subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later subscriptions receive a closed channel.
func (h *BroadcastHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket streams the events of the session named by the "session"
// query parameter, or of the default session when it is missing.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	h.StreamWebSocket(w, r, querySession(r))
}

// ServeSSE is the Server-Sent Events variant of ServeWebSocket.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	h.StreamSSE(w, r, querySession(r))
}

func querySession(r *http.Request) string {
	if session := strings.TrimSpace(r.URL.Query().Get("session")); session != "" {
		return session
	}
	return defaultSessionKey
}

// StreamWebSocket upgrades the request and writes the events of sessionKey as
// JSON until the client leaves or the hook closes.
func (h *BroadcastHook) StreamWebSocket(w http.ResponseWriter, r *http.Request, sessionKey string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.SubscribeSession(sessionKey)
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// StreamSSE writes the events of sessionKey as Server-Sent Events.
func (h *BroadcastHook) StreamSSE(w http.ResponseWriter, r *http.Request, sessionKey string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.SubscribeSession(sessionKey)
	defer cancel()

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSE(w, event); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// writeSSE frames one event. The event name is omitted when the reason holds a
// line break; the JSON data line cannot contain one.
func writeSSE(w http.ResponseWriter, event WidgetEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if event.Reason != "" && !strings.ContainsAny(event.Reason, "\r\n") {
		if _, err := w.Write([]byte("event: " + event.Reason + "\n")); err != nil {
			return err
		}
	}
	_, err = w.Write([]byte("data: " + string(payload) + "\n\n"))
	return err
}
