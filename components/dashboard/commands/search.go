package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

// SetSearchInput stores the viewer's search term.
type SetSearchInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Term   string                  `json:"term"`
}

type searchService interface {
	SetSearch(ctx context.Context, viewer dashboard.ViewerContext, term string) error
}

// SetSearchCommand wraps Service.SetSearch.
type SetSearchCommand struct {
	service   searchService
	telemetry Telemetry
}

// NewSetSearchCommand creates the command.
func NewSetSearchCommand(service searchService, telemetry Telemetry) *SetSearchCommand {
	return &SetSearchCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetSearchInput] = (*SetSearchCommand)(nil)

// Execute updates the search term.
func (c *SetSearchCommand) Execute(ctx context.Context, msg SetSearchInput) error {
	if c.service == nil {
		return errors.New("search command requires service")
	}
	if err := c.service.SetSearch(ctx, msg.Viewer, msg.Term); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.search", map[string]any{
		"session":  msg.Viewer.SessionKey(),
		"has_term": msg.Term != "",
	})
	return nil
}
