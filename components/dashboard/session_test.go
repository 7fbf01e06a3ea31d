package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionClonesSeed(t *testing.T) {
	seed := DefaultTree()
	session := NewSession(seed)
	session.Committed.Categories[0].Name = "changed"
	assert.Equal(t, cspm, seed.Categories[0].Name)
	assert.Equal(t, NewWorkingTree(DefaultTree()), session.Working)
}

func TestSessionAddWidgetClosesDialog(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenAddDialog("Registry Scan")
	session.UpdateDraft(Draft{Name: "Runtime", Content: "Runtime Widget"})

	widget, ok := session.SubmitDialog(&SequenceGenerator{Prefix: "w"})
	require.True(t, ok)
	assert.Equal(t, "w-1", widget.ID)
	assert.Equal(t, AddDialog{}, session.Dialog)
	assert.Len(t, mustCategory(t, session.Committed, "Registry Scan").Widgets, 3)
	assert.Len(t, session.Working.Categories[2].Widgets, 3)
}

func TestSessionAddWidgetFailureKeepsDialogAndIDs(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenAddDialog("")
	session.UpdateDraft(Draft{Category: cspm, Name: "Only name"})
	ids := &SequenceGenerator{}

	_, ok := session.SubmitDialog(ids)
	assert.False(t, ok)
	assert.True(t, session.Dialog.Open)
	assert.Equal(t, "Only name", session.Dialog.Name)
	assert.Equal(t, "widget-1", ids.NewID())
}

func TestSessionSubmitClosedDialogIsNoop(t *testing.T) {
	session := NewSession(DefaultTree())
	session.UpdateDraft(Draft{Category: cspm, Name: "Runtime", Content: "Runtime Widget"})
	ids := &SequenceGenerator{}

	_, ok := session.SubmitDialog(ids)
	assert.False(t, ok)
	assert.Len(t, mustCategory(t, session.Committed, cspm).Widgets, 2)
	assert.Equal(t, "widget-1", ids.NewID())
}

func TestSessionAddWidgetResetsPendingToggles(t *testing.T) {
	session := NewSession(DefaultTree())
	require.True(t, session.ToggleWidget(cspm, "cloud-accounts"))
	_, ok := session.AddWidget(&SequenceGenerator{}, "CWPP Dashboard", "n", "c")
	require.True(t, ok)
	assert.Equal(t, NewWorkingTree(session.Committed), session.Working)
}

func TestScopedDialogIgnoresDraftCategory(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenAddDialog("CWPP Dashboard")
	session.UpdateDraft(Draft{Category: cspm, Name: "n", Content: "c"})
	assert.True(t, session.Dialog.Scoped)
	assert.Equal(t, "CWPP Dashboard", session.Dialog.Category)

	session.CloseAddDialog()
	assert.Equal(t, AddDialog{}, session.Dialog)
}

func TestUnscopedDialogTakesDraftCategory(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenAddDialog("")
	session.UpdateDraft(Draft{Category: "Registry Scan", Name: "n", Content: "c"})
	assert.False(t, session.Dialog.Scoped)
	assert.Equal(t, "Registry Scan", session.Dialog.Category)
}

func TestApplyChangesReportsDropped(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenManagePanel()
	session.ToggleWidget(cspm, "cloud-accounts")
	session.ToggleWidget("Registry Scan", "security-issues")

	dropped := session.ApplyChanges()

	assert.Equal(t, 2, dropped)
	assert.False(t, session.PanelOpen)
	assert.Equal(t, 4, session.Committed.WidgetCount())
	assert.Equal(t, NewWorkingTree(session.Committed), session.Working)
}

func TestCloseManagePanelKeepsToggles(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenManagePanel()
	session.ToggleWidget(cspm, "cloud-accounts")
	session.CloseManagePanel()

	assert.False(t, session.PanelOpen)
	assert.False(t, session.Working.Categories[0].Widgets[0].Visible)

	session.OpenManagePanel()
	session.CancelChanges()
	assert.True(t, session.Working.Categories[0].Widgets[0].Visible)
	assert.False(t, session.PanelOpen)
}

func TestSessionCloneIsDeep(t *testing.T) {
	session := NewSession(DefaultTree())
	clone := session.Clone()
	clone.Committed.Categories[0].Widgets[0].Name = "changed"
	clone.Working.Categories[0].Widgets[0].Visible = false
	assert.Equal(t, "Cloud Accounts", session.Committed.Categories[0].Widgets[0].Name)
	assert.True(t, session.Working.Categories[0].Widgets[0].Visible)
}

func TestSessionFilteredUsesSearch(t *testing.T) {
	session := NewSession(DefaultTree())
	session.SetSearch("alerts")
	filtered := session.Filtered()
	assert.Equal(t, 2, filtered.WidgetCount())
	assert.Equal(t, 6, session.Committed.WidgetCount())
}
