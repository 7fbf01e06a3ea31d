package httpapi

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-widgetboard/components/dashboard/commands"
)

// Mux mounts every dashboard endpoint under base (default "/admin") on a
// standard library mux.
func (h *Handlers) Mux(base string) *http.ServeMux {
	base = "/" + strings.Trim(base, "/")
	if base == "/" {
		base = "/admin"
	}
	prefix := base + "/dashboard"
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+prefix, h.HandleDashboard)
	mux.HandleFunc("GET "+prefix+"/_state", h.HandleState)
	mux.HandleFunc("GET "+prefix+"/_tree", h.HandleTree)
	mux.HandleFunc("GET "+prefix+"/overview", h.HandleOverview)
	mux.HandleFunc("POST "+prefix+"/widgets", h.HandleAddWidget)
	mux.HandleFunc("DELETE "+prefix+"/widgets/{category}/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleRemoveWidget(w, r, r.PathValue("category"), r.PathValue("id"))
	})
	mux.HandleFunc("POST "+prefix+"/search", h.HandleSearch)
	mux.HandleFunc("POST "+prefix+"/dialog", h.HandleDialog)
	mux.HandleFunc("POST "+prefix+"/panel", h.HandlePanel)
	mux.HandleFunc("POST "+prefix+"/panel/toggle", h.HandleToggleWidget)
	mux.HandleFunc("POST "+prefix+"/panel/apply", h.HandlePanelAction(commands.PanelApply))
	mux.HandleFunc("POST "+prefix+"/panel/cancel", h.HandlePanelAction(commands.PanelCancel))
	mux.HandleFunc("POST "+prefix+"/reset", h.HandleReset)
	mux.HandleFunc("POST "+prefix+"/refresh", h.HandleRefresh)
	if h.Broadcast != nil {
		mux.HandleFunc("GET "+prefix+"/ws", h.HandleWebSocket)
		mux.HandleFunc("GET "+prefix+"/events", h.HandleEvents)
	}
	return mux
}
