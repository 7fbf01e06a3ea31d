package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

// RemoveWidgetInput identifies the widget to remove.
type RemoveWidgetInput struct {
	Viewer   dashboard.ViewerContext `json:"-"`
	Category string                  `json:"category"`
	WidgetID string                  `json:"widget_id"`
	Actor
}

type removeService interface {
	RemoveWidget(ctx context.Context, viewer dashboard.ViewerContext, category, widgetID string) error
}

// RemoveWidgetCommand wraps Service.RemoveWidget.
type RemoveWidgetCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveWidgetCommand builds a command instance.
func NewRemoveWidgetCommand(service removeService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the widget.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	ctx = msg.Actor.bind(ctx)
	if err := c.service.RemoveWidget(ctx, msg.Viewer, msg.Category, msg.WidgetID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.widget.remove", map[string]any{
		"session":   msg.Viewer.SessionKey(),
		"category":  msg.Category,
		"widget_id": msg.WidgetID,
	})
	return nil
}
