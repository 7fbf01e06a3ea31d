package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

// Dialog actions.
const (
	DialogOpen   = "open"
	DialogClose  = "close"
	DialogDraft  = "draft"
	DialogSubmit = "submit"
)

// DialogInput drives the creation dialog. Category scopes the dialog on open
// and selects the category on draft and submit.
type DialogInput struct {
	Viewer   dashboard.ViewerContext `json:"-"`
	Action   string                  `json:"action"`
	Category string                  `json:"category"`
	Name     string                  `json:"name"`
	Content  string                  `json:"content"`
	Actor
}

func (in DialogInput) draft() dashboard.Draft {
	return dashboard.Draft{Category: in.Category, Name: in.Name, Content: in.Content}
}

type dialogService interface {
	OpenAddDialog(ctx context.Context, viewer dashboard.ViewerContext, category string) error
	CloseAddDialog(ctx context.Context, viewer dashboard.ViewerContext) error
	UpdateDraft(ctx context.Context, viewer dashboard.ViewerContext, draft dashboard.Draft) error
	SubmitDialog(ctx context.Context, viewer dashboard.ViewerContext) error
}

// DialogCommand wraps the creation dialog operations of the service.
type DialogCommand struct {
	service   dialogService
	telemetry Telemetry
}

// NewDialogCommand creates the command.
func NewDialogCommand(service dialogService, telemetry Telemetry) *DialogCommand {
	return &DialogCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DialogInput] = (*DialogCommand)(nil)

// Execute dispatches on the action. Submit stores the posted fields before
// adding the widget so a failed submit keeps them in the dialog.
func (c *DialogCommand) Execute(ctx context.Context, msg DialogInput) error {
	if c.service == nil {
		return errors.New("dialog command requires service")
	}
	ctx = msg.Actor.bind(ctx)
	var err error
	switch msg.Action {
	case DialogOpen:
		err = c.service.OpenAddDialog(ctx, msg.Viewer, msg.Category)
	case DialogClose:
		err = c.service.CloseAddDialog(ctx, msg.Viewer)
	case DialogDraft:
		err = c.service.UpdateDraft(ctx, msg.Viewer, msg.draft())
	case DialogSubmit:
		if err = c.service.UpdateDraft(ctx, msg.Viewer, msg.draft()); err == nil {
			err = c.service.SubmitDialog(ctx, msg.Viewer)
		}
	default:
		return goerrors.New("dashboard: unknown dialog action "+msg.Action, goerrors.CategoryBadInput)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.dialog."+msg.Action, map[string]any{
		"session":  msg.Viewer.SessionKey(),
		"category": msg.Category,
	})
	return nil
}
