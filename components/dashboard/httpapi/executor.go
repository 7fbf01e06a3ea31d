package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-widgetboard/components/dashboard"
	"github.com/goliatone/go-widgetboard/components/dashboard/commands"
	"github.com/goliatone/go-widgetboard/components/dashboard/queries"
)

// Executor is the command and query surface transports call into.
type Executor interface {
	AddWidget(ctx context.Context, input commands.AddWidgetInput) error
	RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error
	ToggleWidget(ctx context.Context, input commands.ToggleWidgetInput) error
	Panel(ctx context.Context, input commands.PanelInput) error
	Dialog(ctx context.Context, input commands.DialogInput) error
	Search(ctx context.Context, input commands.SetSearchInput) error
	Reset(ctx context.Context, input commands.ResetDashboardInput) error
	Refresh(ctx context.Context, input commands.RefreshWidgetInput) error
	View(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.View, error)
	FilteredView(ctx context.Context, input queries.FilteredViewInput) (dashboard.Tree, error)
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	AddCommander     gocommand.Commander[commands.AddWidgetInput]
	RemoveCommander  gocommand.Commander[commands.RemoveWidgetInput]
	ToggleCommander  gocommand.Commander[commands.ToggleWidgetInput]
	PanelCommander   gocommand.Commander[commands.PanelInput]
	DialogCommander  gocommand.Commander[commands.DialogInput]
	SearchCommander  gocommand.Commander[commands.SetSearchInput]
	ResetCommander   gocommand.Commander[commands.ResetDashboardInput]
	RefreshCommander gocommand.Commander[commands.RefreshWidgetInput]
	ViewQuerier      gocommand.Querier[dashboard.ViewerContext, dashboard.View]
	FilterQuerier    gocommand.Querier[queries.FilteredViewInput, dashboard.Tree]
}

var _ Executor = (*CommandExecutor)(nil)

var errNotConfigured = errors.New("httpapi: operation not configured")

// NewCommandExecutor wires every command and query to service.
func NewCommandExecutor(service *dashboard.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		AddCommander:     commands.NewAddWidgetCommand(service, telemetry),
		RemoveCommander:  commands.NewRemoveWidgetCommand(service, telemetry),
		ToggleCommander:  commands.NewToggleWidgetCommand(service, telemetry),
		PanelCommander:   commands.NewPanelCommand(service, telemetry),
		DialogCommander:  commands.NewDialogCommand(service, telemetry),
		SearchCommander:  commands.NewSetSearchCommand(service, telemetry),
		ResetCommander:   commands.NewResetDashboardCommand(service, telemetry),
		RefreshCommander: commands.NewRefreshWidgetCommand(service, telemetry),
		ViewQuerier:      queries.NewViewQuery(service),
		FilterQuerier:    queries.NewFilteredViewQuery(service),
	}
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}

// AddWidget runs the add command.
func (e *CommandExecutor) AddWidget(ctx context.Context, input commands.AddWidgetInput) error {
	return execute(ctx, e.AddCommander, input)
}

// RemoveWidget runs the remove command.
func (e *CommandExecutor) RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error {
	return execute(ctx, e.RemoveCommander, input)
}

// ToggleWidget runs the toggle command.
func (e *CommandExecutor) ToggleWidget(ctx context.Context, input commands.ToggleWidgetInput) error {
	return execute(ctx, e.ToggleCommander, input)
}

// Panel runs the panel command.
func (e *CommandExecutor) Panel(ctx context.Context, input commands.PanelInput) error {
	return execute(ctx, e.PanelCommander, input)
}

// Dialog runs the dialog command.
func (e *CommandExecutor) Dialog(ctx context.Context, input commands.DialogInput) error {
	return execute(ctx, e.DialogCommander, input)
}

// Search runs the search command.
func (e *CommandExecutor) Search(ctx context.Context, input commands.SetSearchInput) error {
	return execute(ctx, e.SearchCommander, input)
}

// Reset runs the reset command.
func (e *CommandExecutor) Reset(ctx context.Context, input commands.ResetDashboardInput) error {
	return execute(ctx, e.ResetCommander, input)
}

// Refresh runs the refresh command.
func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshWidgetInput) error {
	return execute(ctx, e.RefreshCommander, input)
}

// View runs the view query.
func (e *CommandExecutor) View(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.View, error) {
	if e.ViewQuerier == nil {
		return dashboard.View{}, errNotConfigured
	}
	return e.ViewQuerier.Query(ctx, viewer)
}

// FilteredView runs the filter query.
func (e *CommandExecutor) FilteredView(ctx context.Context, input queries.FilteredViewInput) (dashboard.Tree, error) {
	if e.FilterQuerier == nil {
		return dashboard.Tree{}, errNotConfigured
	}
	return e.FilterQuerier.Query(ctx, input)
}
