package dashboard

// View is the render model for one dashboard session. The category list is the
// committed tree filtered by the search term.
type View struct {
	Search      string     `json:"search"`
	Categories  []Category `json:"categories"`
	WidgetCount int        `json:"widget_count"`
	Dialog      DialogView `json:"dialog"`
	Panel       PanelView  `json:"panel"`
}

// DialogView describes the creation dialog.
type DialogView struct {
	Open      bool             `json:"open"`
	Title     string           `json:"title"`
	Scoped    bool             `json:"scoped"`
	Category  string           `json:"category"`
	ShortForm string           `json:"short_form,omitempty"`
	Name      string           `json:"name"`
	Content   string           `json:"content"`
	CanSubmit bool             `json:"can_submit"`
	Options   []CategoryOption `json:"options,omitempty"`
}

// CategoryOption is an entry of the dialog's category selector.
type CategoryOption struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// PanelView describes the management panel: one tab per category.
type PanelView struct {
	Open bool       `json:"open"`
	Tabs []PanelTab `json:"tabs"`
}

// PanelTab lists the checkboxes of one category.
type PanelTab struct {
	Category  string      `json:"category"`
	ShortForm string      `json:"short_form"`
	Items     []PanelItem `json:"items"`
}

// PanelItem is one checkbox in the management panel.
type PanelItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

const dialogTitle = "Add New Widget"

// BuildView derives the render model from a session.
func BuildView(session Session) View {
	filtered := session.Filtered()
	return View{
		Search:      session.Search,
		Categories:  filtered.Categories,
		WidgetCount: session.Committed.WidgetCount(),
		Dialog:      buildDialogView(session),
		Panel:       buildPanelView(session),
	}
}

func buildDialogView(session Session) DialogView {
	d := session.Dialog
	view := DialogView{
		Open:     d.Open,
		Title:    dialogTitle,
		Scoped:   d.Scoped,
		Category: d.Category,
		Name:     d.Name,
		Content:  d.Content,
	}
	if category, ok := session.Committed.Category(d.Category); ok && category.ShortForm != "" {
		view.ShortForm = category.ShortForm
		view.Title = dialogTitle + " in " + category.ShortForm
	}
	view.CanSubmit = d.Category != "" && d.Name != "" && d.Content != ""
	if !d.Scoped {
		view.Options = make([]CategoryOption, len(session.Committed.Categories))
		for i, c := range session.Committed.Categories {
			view.Options[i] = CategoryOption{Name: c.Name, Selected: c.Name == d.Category}
		}
	}
	return view
}

func buildPanelView(session Session) PanelView {
	view := PanelView{
		Open: session.PanelOpen,
		Tabs: make([]PanelTab, len(session.Working.Categories)),
	}
	for i, c := range session.Working.Categories {
		tab := PanelTab{
			Category:  c.Name,
			ShortForm: c.ShortForm,
			Items:     make([]PanelItem, len(c.Widgets)),
		}
		for j, w := range c.Widgets {
			tab.Items[j] = PanelItem{ID: w.ID, Name: w.Name, Checked: w.Visible}
		}
		view.Tabs[i] = tab
	}
	return view
}
