package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

// AddWidgetInput creates a widget in one category of the viewer's dashboard.
type AddWidgetInput struct {
	Viewer   dashboard.ViewerContext `json:"-"`
	Category string                  `json:"category"`
	Name     string                  `json:"name"`
	Content  string                  `json:"content"`
	Actor
}

type addService interface {
	AddWidget(ctx context.Context, viewer dashboard.ViewerContext, req dashboard.AddWidgetRequest) error
}

// AddWidgetCommand wraps Service.AddWidget so transports can create widgets
// without linking directly against the service.
type AddWidgetCommand struct {
	service   addService
	telemetry Telemetry
}

// NewAddWidgetCommand creates a command instance.
func NewAddWidgetCommand(service addService, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute delegates to the dashboard service.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if c.service == nil {
		return errors.New("add command requires service")
	}
	ctx = msg.Actor.bind(ctx)
	req := dashboard.AddWidgetRequest{Category: msg.Category, Name: msg.Name, Content: msg.Content}
	if err := c.service.AddWidget(ctx, msg.Viewer, req); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.widget.add", map[string]any{
		"session":  msg.Viewer.SessionKey(),
		"category": msg.Category,
	})
	return nil
}
