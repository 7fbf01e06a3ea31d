package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

// Panel actions.
const (
	PanelOpen   = "open"
	PanelClose  = "close"
	PanelApply  = "apply"
	PanelCancel = "cancel"
)

// PanelInput drives the management panel.
type PanelInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Action string                  `json:"action"`
	Actor
}

type panelService interface {
	OpenManagePanel(ctx context.Context, viewer dashboard.ViewerContext) error
	CloseManagePanel(ctx context.Context, viewer dashboard.ViewerContext) error
	ApplyChanges(ctx context.Context, viewer dashboard.ViewerContext) error
	CancelChanges(ctx context.Context, viewer dashboard.ViewerContext) error
}

// PanelCommand opens, closes, confirms or cancels the management panel.
type PanelCommand struct {
	service   panelService
	telemetry Telemetry
}

// NewPanelCommand creates the command.
func NewPanelCommand(service panelService, telemetry Telemetry) *PanelCommand {
	return &PanelCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PanelInput] = (*PanelCommand)(nil)

// Execute dispatches on the action.
func (c *PanelCommand) Execute(ctx context.Context, msg PanelInput) error {
	if c.service == nil {
		return errors.New("panel command requires service")
	}
	ctx = msg.Actor.bind(ctx)
	var err error
	switch msg.Action {
	case PanelOpen:
		err = c.service.OpenManagePanel(ctx, msg.Viewer)
	case PanelClose:
		err = c.service.CloseManagePanel(ctx, msg.Viewer)
	case PanelApply:
		err = c.service.ApplyChanges(ctx, msg.Viewer)
	case PanelCancel:
		err = c.service.CancelChanges(ctx, msg.Viewer)
	default:
		return goerrors.New("dashboard: unknown panel action "+msg.Action, goerrors.CategoryBadInput)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.panel."+msg.Action, map[string]any{
		"session": msg.Viewer.SessionKey(),
	})
	return nil
}
