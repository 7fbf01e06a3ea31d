package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

// ResetDashboardInput restores the viewer's dashboard to the seed.
type ResetDashboardInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Actor
}

type resetService interface {
	Reset(ctx context.Context, viewer dashboard.ViewerContext) error
}

// ResetDashboardCommand wraps Service.Reset.
type ResetDashboardCommand struct {
	service   resetService
	telemetry Telemetry
}

// NewResetDashboardCommand creates the command.
func NewResetDashboardCommand(service resetService, telemetry Telemetry) *ResetDashboardCommand {
	return &ResetDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetDashboardInput] = (*ResetDashboardCommand)(nil)

// Execute drops the viewer's session.
func (c *ResetDashboardCommand) Execute(ctx context.Context, msg ResetDashboardInput) error {
	if c.service == nil {
		return errors.New("reset command requires service")
	}
	ctx = msg.Actor.bind(ctx)
	if err := c.service.Reset(ctx, msg.Viewer); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.reset", map[string]any{
		"session": msg.Viewer.SessionKey(),
	})
	return nil
}
