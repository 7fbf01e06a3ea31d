package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-widgetboard/components/dashboard"
	"github.com/goliatone/go-widgetboard/components/dashboard/commands"
	"github.com/goliatone/go-widgetboard/components/dashboard/queries"
)

const maxBodyBytes = 64 << 10

// ViewerFunc resolves the viewer of a request.
type ViewerFunc func(*http.Request) dashboard.ViewerContext

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API        Executor
	Controller *dashboard.Controller
	Broadcast  *dashboard.BroadcastHook
	Viewer     ViewerFunc
}

// ViewerFromHeaders reads X-Session-ID, X-User-ID, X-Roles and Accept-Language.
// The "session" query parameter overrides the session header.
func ViewerFromHeaders(r *http.Request) dashboard.ViewerContext {
	viewer := dashboard.ViewerContext{
		SessionID: strings.TrimSpace(r.Header.Get("X-Session-ID")),
		UserID:    strings.TrimSpace(r.Header.Get("X-User-ID")),
		Locale:    ParseAcceptLanguage(r.Header.Get("Accept-Language")),
	}
	if session := strings.TrimSpace(r.URL.Query().Get("session")); session != "" {
		viewer.SessionID = session
	}
	for _, role := range strings.Split(r.Header.Get("X-Roles"), ",") {
		if role = strings.TrimSpace(role); role != "" {
			viewer.Roles = append(viewer.Roles, role)
		}
	}
	return viewer
}

// ParseAcceptLanguage returns the first language tag of the header, lowercased.
func ParseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

// ActorFor derives the activity actor from the viewer.
func ActorFor(viewer dashboard.ViewerContext) commands.Actor {
	return commands.Actor{ActorID: viewer.UserID, UserID: viewer.UserID}
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return ViewerFromHeaders(r)
}

// HandleDashboard renders the HTML shell.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if h.Controller == nil {
		writeError(w, errNotConfigured)
		return
	}
	var buf bytes.Buffer
	if err := h.Controller.RenderTemplate(r.Context(), h.viewer(r), &buf); err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

// HandleOverview renders the widgets-per-category chart.
func (h *Handlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	if h.Controller == nil {
		writeError(w, errNotConfigured)
		return
	}
	html, err := h.Controller.Overview(r.Context(), h.viewer(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, []byte(html))
}

// HandleState returns the viewer's render model.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, http.StatusOK)
}

// HandleTree returns the committed tree filtered by the "term" query parameter
// without storing the term.
func (h *Handlers) HandleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.API.FilteredView(r.Context(), queries.FilteredViewInput{
		Viewer: h.viewer(r),
		Term:   r.URL.Query().Get("term"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// HandleAddWidget creates a widget.
func (h *Handlers) HandleAddWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.AddWidgetInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = h.viewer(r)
	payload.Actor = ActorFor(payload.Viewer)
	if err := h.API.AddWidget(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, http.StatusCreated)
}

// HandleRemoveWidget deletes a widget from a category.
func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, category, widgetID string) {
	viewer := h.viewer(r)
	input := commands.RemoveWidgetInput{
		Viewer:   viewer,
		Category: category,
		WidgetID: widgetID,
		Actor:    ActorFor(viewer),
	}
	if err := h.API.RemoveWidget(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, http.StatusOK)
}

// HandleToggleWidget flips a pending checkbox.
func (h *Handlers) HandleToggleWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.ToggleWidgetInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = h.viewer(r)
	if err := h.API.ToggleWidget(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, http.StatusOK)
}

// HandlePanel runs the panel action named in the payload.
func (h *Handlers) HandlePanel(w http.ResponseWriter, r *http.Request) {
	var payload commands.PanelInput
	if !decode(w, r, &payload) {
		return
	}
	h.panel(w, r, payload.Action)
}

// HandlePanelAction returns a handler bound to one panel action.
func (h *Handlers) HandlePanelAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.panel(w, r, action)
	}
}

func (h *Handlers) panel(w http.ResponseWriter, r *http.Request, action string) {
	viewer := h.viewer(r)
	input := commands.PanelInput{Viewer: viewer, Action: action, Actor: ActorFor(viewer)}
	if err := h.API.Panel(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, http.StatusOK)
}

// HandleDialog drives the creation dialog.
func (h *Handlers) HandleDialog(w http.ResponseWriter, r *http.Request) {
	var payload commands.DialogInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = h.viewer(r)
	payload.Actor = ActorFor(payload.Viewer)
	if err := h.API.Dialog(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, http.StatusOK)
}

// HandleSearch stores the search term.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetSearchInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = h.viewer(r)
	if err := h.API.Search(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, http.StatusOK)
}

// HandleReset restores the seed dashboard.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewer(r)
	if err := h.API.Reset(r.Context(), commands.ResetDashboardInput{Viewer: viewer, Actor: ActorFor(viewer)}); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, http.StatusOK)
}

// HandleRefresh pushes a refresh event to the viewer's subscribers.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshWidgetInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = h.viewer(r)
	if err := h.API.Refresh(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// HandleWebSocket streams the requesting viewer's refresh events.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.Broadcast.StreamWebSocket(w, r, h.viewer(r).SessionKey())
}

// HandleEvents streams the requesting viewer's refresh events as SSE.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	h.Broadcast.StreamSSE(w, r, h.viewer(r).SessionKey())
}

func (h *Handlers) respondView(w http.ResponseWriter, r *http.Request, status int) {
	view, err := h.API.View(r.Context(), h.viewer(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, view)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, BadInput(err, "httpapi: read body"))
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, BadInput(err, "httpapi: decode body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), NewErrorBody(err))
}
