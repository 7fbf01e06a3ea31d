package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

// RefreshWidgetInput asks the subscribers of the viewer's session to re-render,
// optionally pointing at one category or widget.
type RefreshWidgetInput struct {
	Viewer   dashboard.ViewerContext `json:"-"`
	Category string                  `json:"category,omitempty"`
	WidgetID string                  `json:"widget_id,omitempty"`
}

type refreshNotifier interface {
	NotifyWidgetUpdated(ctx context.Context, event dashboard.WidgetEvent) error
}

// RefreshWidgetCommand pushes a refresh event through the service's hooks.
type RefreshWidgetCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshWidgetCommand creates the command.
func NewRefreshWidgetCommand(service refreshNotifier, telemetry Telemetry) *RefreshWidgetCommand {
	return &RefreshWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshWidgetInput] = (*RefreshWidgetCommand)(nil)

// Execute notifies the hooks of the viewer's session with a refresh event.
func (c *RefreshWidgetCommand) Execute(ctx context.Context, msg RefreshWidgetInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	event := dashboard.WidgetEvent{
		SessionKey: msg.Viewer.SessionKey(),
		Category:   msg.Category,
		WidgetID:   msg.WidgetID,
		Reason:     dashboard.RefreshReason,
	}
	if err := c.service.NotifyWidgetUpdated(ctx, event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.refresh", map[string]any{
		"session": event.SessionKey,
		"reason":  event.Reason,
	})
	return nil
}
