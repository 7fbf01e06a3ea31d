package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildViewDefaults(t *testing.T) {
	view := BuildView(NewSession(DefaultTree()))

	assert.Equal(t, 6, view.WidgetCount)
	assert.Len(t, view.Categories, 3)
	assert.False(t, view.Dialog.Open)
	assert.Equal(t, "Add New Widget", view.Dialog.Title)
	assert.False(t, view.Dialog.CanSubmit)
	require.Len(t, view.Panel.Tabs, 3)
	assert.Equal(t, "CSPM", view.Panel.Tabs[0].ShortForm)
	for _, tab := range view.Panel.Tabs {
		for _, item := range tab.Items {
			assert.True(t, item.Checked)
		}
	}
}

func TestBuildViewFiltersCategoriesButCountsCommitted(t *testing.T) {
	session := NewSession(DefaultTree())
	session.SetSearch("image")
	view := BuildView(session)
	assert.Equal(t, "image", view.Search)
	assert.Equal(t, 6, view.WidgetCount)
	assert.Empty(t, view.Categories[0].Widgets)
	assert.Len(t, view.Categories[2].Widgets, 2)
}

func TestBuildViewScopedDialog(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenAddDialog("Registry Scan")
	session.UpdateDraft(Draft{Name: "n", Content: "c"})

	dialog := BuildView(session).Dialog

	assert.True(t, dialog.Open)
	assert.True(t, dialog.Scoped)
	assert.Equal(t, "Add New Widget in RS", dialog.Title)
	assert.Equal(t, "RS", dialog.ShortForm)
	assert.True(t, dialog.CanSubmit)
	assert.Empty(t, dialog.Options)
}

func TestBuildViewUnscopedDialogOptions(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenAddDialog("")
	session.UpdateDraft(Draft{Category: "CWPP Dashboard", Name: "n"})

	dialog := BuildView(session).Dialog

	assert.Equal(t, "Add New Widget in CWPP", dialog.Title)
	assert.False(t, dialog.CanSubmit)
	require.Len(t, dialog.Options, 3)
	assert.False(t, dialog.Options[0].Selected)
	assert.True(t, dialog.Options[1].Selected)
}

func TestBuildViewUnknownCategoryKeepsPlainTitle(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenAddDialog("")
	session.UpdateDraft(Draft{Category: "Gone", Name: "n", Content: "c"})
	dialog := BuildView(session).Dialog
	assert.Equal(t, "Add New Widget", dialog.Title)
	assert.Empty(t, dialog.ShortForm)
}

func TestBuildViewPanelReflectsToggles(t *testing.T) {
	session := NewSession(DefaultTree())
	session.OpenManagePanel()
	session.ToggleWidget("CWPP Dashboard", "workload-alerts")

	panel := BuildView(session).Panel

	assert.True(t, panel.Open)
	assert.Equal(t, PanelItem{ID: "workload-alerts", Name: "Workload Alerts", Checked: false}, panel.Tabs[1].Items[1])
	assert.True(t, panel.Tabs[1].Items[0].Checked)
}
