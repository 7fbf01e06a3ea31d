package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

// ToggleWidgetInput flips one pending checkbox of the management panel.
type ToggleWidgetInput struct {
	Viewer   dashboard.ViewerContext `json:"-"`
	Category string                  `json:"category"`
	WidgetID string                  `json:"widget_id"`
}

type toggleService interface {
	ToggleWidget(ctx context.Context, viewer dashboard.ViewerContext, category, widgetID string) error
}

// ToggleWidgetCommand wraps Service.ToggleWidget.
type ToggleWidgetCommand struct {
	service   toggleService
	telemetry Telemetry
}

// NewToggleWidgetCommand creates the command.
func NewToggleWidgetCommand(service toggleService, telemetry Telemetry) *ToggleWidgetCommand {
	return &ToggleWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleWidgetInput] = (*ToggleWidgetCommand)(nil)

// Execute toggles the widget's pending visibility.
func (c *ToggleWidgetCommand) Execute(ctx context.Context, msg ToggleWidgetInput) error {
	if c.service == nil {
		return errors.New("toggle command requires service")
	}
	if err := c.service.ToggleWidget(ctx, msg.Viewer, msg.Category, msg.WidgetID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.widget.toggle", map[string]any{
		"session":   msg.Viewer.SessionKey(),
		"widget_id": msg.WidgetID,
	})
	return nil
}
