package dashboard

import "context"

// SessionStore keeps dashboard sessions between requests.
// Implementations must return copies so callers can mutate freely.
type SessionStore interface {
	Load(ctx context.Context, key string) (Session, bool, error)
	Save(ctx context.Context, key string, session Session) error
	Delete(ctx context.Context, key string) error
}

// RefreshHook notifies transports (REST/WebSocket) about dashboard changes.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

// IDGenerator produces widget identifiers.
type IDGenerator interface {
	NewID() string
}

// Widget is a named content card as it appears on the committed dashboard.
type Widget struct {
	ID      string `json:"id" yaml:"id,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

// Category groups widgets under a unique name.
type Category struct {
	Name      string   `json:"name" yaml:"name"`
	ShortForm string   `json:"short_form" yaml:"short_form"`
	Widgets   []Widget `json:"widgets" yaml:"widgets"`
}

// Tree is the committed dashboard state.
type Tree struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// PendingWidget is a widget in the working tree. Visible is the pending-visibility
// flag: widgets with Visible=false are dropped on commit.
type PendingWidget struct {
	Widget
	Visible bool `json:"visible"`
}

// WorkingCategory mirrors Category inside the working tree.
type WorkingCategory struct {
	Name      string          `json:"name"`
	ShortForm string          `json:"short_form"`
	Widgets   []PendingWidget `json:"widgets"`
}

// WorkingTree is the provisional copy edited in the management panel.
type WorkingTree struct {
	Categories []WorkingCategory `json:"categories"`
}

// ViewerContext identifies whose dashboard session a request targets.
type ViewerContext struct {
	UserID    string
	SessionID string
	Roles     []string
	Locale    string
}

// SessionKey returns the store key for the viewer.
func (v ViewerContext) SessionKey() string {
	if v.SessionID != "" {
		return v.SessionID
	}
	if v.UserID != "" {
		return v.UserID
	}
	return defaultSessionKey
}

// WidgetEvent describes changes that transports might care about.
type WidgetEvent struct {
	SessionKey string `json:"session"`
	Category   string `json:"category,omitempty"`
	WidgetID   string `json:"widget_id,omitempty"`
	Reason     string `json:"reason"`
}

const defaultSessionKey = "default"

// RefreshReason marks events that ask subscribers to re-render without a change.
const RefreshReason = "refresh"
