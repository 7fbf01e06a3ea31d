package dashboard

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-widgetboard/pkg/activity"
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Sessions    SessionStore
	Seed        Tree
	IDs         IDGenerator
	RefreshHook RefreshHook
	Telemetry   Telemetry

	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
}

// Service applies dashboard operations to viewer sessions. Every operation runs
// load, mutate and save under one lock so a session has a single writer at a time.
type Service struct {
	opts     Options
	activity *activity.Emitter
	mu       sync.Mutex
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Sessions == nil {
		opts.Sessions = NewInMemorySessionStore()
	}
	if len(opts.Seed.Categories) == 0 {
		opts.Seed = DefaultTree()
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator{}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}
}

// AddWidgetRequest captures the data required to create a widget.
type AddWidgetRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Content  string `json:"content"`
}

// AddWidget appends a widget to a category of the viewer's committed tree and
// closes the creation dialog. Invalid requests are ignored.
func (s *Service) AddWidget(ctx context.Context, viewer ViewerContext, req AddWidgetRequest) error {
	return s.mutate(ctx, viewer, "widget.add", func(session *Session) (WidgetEvent, bool) {
		widget, ok := session.AddWidget(s.opts.IDs, req.Category, req.Name, req.Content)
		return WidgetEvent{Category: req.Category, WidgetID: widget.ID}, ok
	})
}

// SubmitDialog adds a widget from the fields currently held by the creation dialog.
func (s *Service) SubmitDialog(ctx context.Context, viewer ViewerContext) error {
	return s.mutate(ctx, viewer, "widget.add", func(session *Session) (WidgetEvent, bool) {
		category := session.Dialog.Category
		widget, ok := session.SubmitDialog(s.opts.IDs)
		return WidgetEvent{Category: category, WidgetID: widget.ID}, ok
	})
}

// RemoveWidget deletes a widget from the committed tree. Unknown ids are ignored.
func (s *Service) RemoveWidget(ctx context.Context, viewer ViewerContext, categoryName, widgetID string) error {
	return s.mutate(ctx, viewer, "widget.remove", func(session *Session) (WidgetEvent, bool) {
		ok := session.RemoveWidget(categoryName, widgetID)
		return WidgetEvent{Category: categoryName, WidgetID: widgetID}, ok
	})
}

// ToggleWidget flips a widget's pending visibility in the working tree.
func (s *Service) ToggleWidget(ctx context.Context, viewer ViewerContext, categoryName, widgetID string) error {
	return s.mutate(ctx, viewer, "widget.toggle", func(session *Session) (WidgetEvent, bool) {
		ok := session.ToggleWidget(categoryName, widgetID)
		return WidgetEvent{Category: categoryName, WidgetID: widgetID}, ok
	})
}

// ApplyChanges commits the working tree and closes the management panel.
func (s *Service) ApplyChanges(ctx context.Context, viewer ViewerContext) error {
	return s.mutate(ctx, viewer, "panel.apply", func(session *Session) (WidgetEvent, bool) {
		session.ApplyChanges()
		return WidgetEvent{}, true
	})
}

// CancelChanges discards the working tree and closes the management panel.
func (s *Service) CancelChanges(ctx context.Context, viewer ViewerContext) error {
	return s.mutate(ctx, viewer, "panel.cancel", func(session *Session) (WidgetEvent, bool) {
		session.CancelChanges()
		return WidgetEvent{}, true
	})
}

// OpenManagePanel shows the management panel.
func (s *Service) OpenManagePanel(ctx context.Context, viewer ViewerContext) error {
	return s.mutate(ctx, viewer, "panel.open", func(session *Session) (WidgetEvent, bool) {
		session.OpenManagePanel()
		return WidgetEvent{}, true
	})
}

// CloseManagePanel hides the management panel without touching pending toggles.
func (s *Service) CloseManagePanel(ctx context.Context, viewer ViewerContext) error {
	return s.mutate(ctx, viewer, "panel.close", func(session *Session) (WidgetEvent, bool) {
		session.CloseManagePanel()
		return WidgetEvent{}, true
	})
}

// OpenAddDialog opens the creation dialog, scoped when categoryName is set.
func (s *Service) OpenAddDialog(ctx context.Context, viewer ViewerContext, categoryName string) error {
	return s.mutate(ctx, viewer, "dialog.open", func(session *Session) (WidgetEvent, bool) {
		session.OpenAddDialog(categoryName)
		return WidgetEvent{Category: categoryName}, true
	})
}

// CloseAddDialog closes the creation dialog and clears its fields.
func (s *Service) CloseAddDialog(ctx context.Context, viewer ViewerContext) error {
	return s.mutate(ctx, viewer, "dialog.close", func(session *Session) (WidgetEvent, bool) {
		session.CloseAddDialog()
		return WidgetEvent{}, true
	})
}

// UpdateDraft stores the creation dialog fields.
func (s *Service) UpdateDraft(ctx context.Context, viewer ViewerContext, draft Draft) error {
	return s.mutate(ctx, viewer, "dialog.draft", func(session *Session) (WidgetEvent, bool) {
		session.UpdateDraft(draft)
		return WidgetEvent{Category: session.Dialog.Category}, true
	})
}

// SetSearch updates the search term used to filter the rendered view.
func (s *Service) SetSearch(ctx context.Context, viewer ViewerContext, term string) error {
	return s.mutate(ctx, viewer, "search", func(session *Session) (WidgetEvent, bool) {
		if session.Search == term {
			return WidgetEvent{}, false
		}
		session.SetSearch(term)
		return WidgetEvent{}, true
	})
}

// Reset drops the viewer's session so the next read starts from the seed.
func (s *Service) Reset(ctx context.Context, viewer ViewerContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := viewer.SessionKey()
	if err := s.opts.Sessions.Delete(ctx, key); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "dashboard: reset session")
	}
	return s.notify(ctx, "reset", WidgetEvent{SessionKey: key})
}

// Session returns a copy of the viewer's session.
func (s *Service) Session(ctx context.Context, viewer ViewerContext) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, viewer.SessionKey())
}

// View builds the render model for the viewer.
func (s *Service) View(ctx context.Context, viewer ViewerContext) (View, error) {
	session, err := s.Session(ctx, viewer)
	if err != nil {
		return View{}, err
	}
	return BuildView(session), nil
}

// FilteredView returns the viewer's committed tree filtered by term without
// storing the term.
func (s *Service) FilteredView(ctx context.Context, viewer ViewerContext, term string) (Tree, error) {
	session, err := s.Session(ctx, viewer)
	if err != nil {
		return Tree{}, err
	}
	return FilteredView(session.Committed, term), nil
}

// NotifyWidgetUpdated pushes a refresh event to the subscribers of one session.
// The reason is always RefreshReason and the event never reaches the activity feed.
func (s *Service) NotifyWidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if event.SessionKey == "" {
		event.SessionKey = defaultSessionKey
	}
	return s.notify(ctx, RefreshReason, event)
}

func (s *Service) mutate(ctx context.Context, viewer ViewerContext, reason string, fn func(*Session) (WidgetEvent, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := viewer.SessionKey()
	session, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	event, changed := fn(&session)
	if !changed {
		return nil
	}
	if err := s.opts.Sessions.Save(ctx, key, session); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "dashboard: save session")
	}
	event.SessionKey = key
	return s.notify(ctx, reason, event)
}

func (s *Service) load(ctx context.Context, key string) (Session, error) {
	session, ok, err := s.opts.Sessions.Load(ctx, key)
	if err != nil {
		return Session{}, goerrors.Wrap(err, goerrors.CategoryInternal, "dashboard: load session")
	}
	if !ok {
		return NewSession(s.opts.Seed), nil
	}
	return session, nil
}

func (s *Service) notify(ctx context.Context, reason string, event WidgetEvent) error {
	event.Reason = reason
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
		return err
	}
	payload := map[string]any{"session": event.SessionKey}
	if event.Category != "" {
		payload["category"] = event.Category
	}
	if event.WidgetID != "" {
		payload["widget_id"] = event.WidgetID
	}
	if actor := ActivityFromContext(ctx); actor.ActorID != "" {
		payload["actor_id"] = actor.ActorID
	}
	s.recordTelemetry(ctx, "dashboard."+reason, payload)
	s.emitActivity(ctx, event)
	return nil
}

// auditedReasons are the events that change a committed tree. Overlay and
// search updates stay out of the activity feed.
var auditedReasons = map[string]bool{
	"widget.add":    true,
	"widget.remove": true,
	"panel.apply":   true,
	"reset":         true,
}

func (s *Service) emitActivity(ctx context.Context, event WidgetEvent) {
	if !s.activity.Enabled() || !auditedReasons[event.Reason] {
		return
	}
	actor := ActivityFromContext(ctx)
	entry := activity.Event{
		Verb:       "dashboard." + event.Reason,
		ActorID:    actor.ActorID,
		UserID:     actor.UserID,
		TenantID:   actor.TenantID,
		ObjectType: "dashboard",
		ObjectID:   event.SessionKey,
		Metadata:   map[string]any{"session": event.SessionKey},
	}
	if event.WidgetID != "" {
		entry.ObjectType = "widget"
		entry.ObjectID = event.WidgetID
	}
	if event.Category != "" {
		entry.Metadata["category"] = event.Category
	}
	if err := s.activity.Emit(ctx, entry); err != nil {
		s.recordTelemetry(ctx, "dashboard.activity_error", map[string]any{
			"session": event.SessionKey,
			"verb":    entry.Verb,
			"error":   err.Error(),
		})
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error {
	return nil
}
