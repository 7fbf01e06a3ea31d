package dashboard

// Session holds one dashboard's state: the committed tree, the working tree edited
// in the management panel, the search term and the overlay state.
type Session struct {
	Committed Tree        `json:"committed"`
	Working   WorkingTree `json:"working"`
	Search    string      `json:"search"`
	Dialog    AddDialog   `json:"dialog"`
	PanelOpen bool        `json:"panel_open"`
}

// AddDialog is the creation dialog state. Scoped dialogs were opened from a
// category row and do not let the user pick another category.
type AddDialog struct {
	Open     bool   `json:"open"`
	Category string `json:"category"`
	Scoped   bool   `json:"scoped"`
	Name     string `json:"name"`
	Content  string `json:"content"`
}

// Draft carries the dialog form fields.
type Draft struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Content  string `json:"content"`
}

// NewSession starts a session from the seed tree.
func NewSession(seed Tree) Session {
	s := Session{}
	s.setCommitted(seed.Clone())
	return s
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	s.Committed = s.Committed.Clone()
	s.Working = s.Working.Clone()
	return s
}

// Filtered returns the committed tree narrowed by the current search term.
func (s Session) Filtered() Tree {
	return FilteredView(s.Committed, s.Search)
}

func (s *Session) setCommitted(tree Tree) {
	s.Committed = tree
	s.Working = NewWorkingTree(tree)
}

// AddWidget appends a widget to the committed tree, then closes and clears the
// creation dialog. Nothing happens when a precondition fails.
func (s *Session) AddWidget(ids IDGenerator, categoryName, name, content string) (Widget, bool) {
	if name == "" || content == "" || categoryName == "" {
		return Widget{}, false
	}
	if _, ok := s.Committed.Category(categoryName); !ok {
		return Widget{}, false
	}
	widget := Widget{ID: ids.NewID(), Name: name, Content: content}
	tree, ok := AddWidget(s.Committed, categoryName, widget)
	if !ok {
		return Widget{}, false
	}
	s.setCommitted(tree)
	s.CloseAddDialog()
	return widget, true
}

// SubmitDialog adds a widget from the fields of the open dialog. A closed
// dialog submits nothing.
func (s *Session) SubmitDialog(ids IDGenerator) (Widget, bool) {
	if !s.Dialog.Open {
		return Widget{}, false
	}
	return s.AddWidget(ids, s.Dialog.Category, s.Dialog.Name, s.Dialog.Content)
}

// RemoveWidget drops a widget from the committed tree.
func (s *Session) RemoveWidget(categoryName, widgetID string) bool {
	tree, ok := RemoveWidget(s.Committed, categoryName, widgetID)
	if !ok {
		return false
	}
	s.setCommitted(tree)
	return true
}

// ToggleWidget flips a pending flag in the working tree only.
func (s *Session) ToggleWidget(categoryName, widgetID string) bool {
	working, ok := ToggleWidgetPending(s.Working, categoryName, widgetID)
	if !ok {
		return false
	}
	s.Working = working
	return true
}

// ApplyChanges commits the working tree and closes the panel. It returns how many
// widgets were dropped.
func (s *Session) ApplyChanges() int {
	before := s.Committed.WidgetCount()
	s.setCommitted(CommitWorkingTree(s.Working))
	s.PanelOpen = false
	return before - s.Committed.WidgetCount()
}

// CancelChanges discards pending toggles and closes the panel.
func (s *Session) CancelChanges() {
	s.Working = NewWorkingTree(s.Committed)
	s.PanelOpen = false
}

// OpenAddDialog opens the creation dialog. A non-empty category scopes the dialog
// to that category.
func (s *Session) OpenAddDialog(categoryName string) {
	s.Dialog = AddDialog{
		Open:     true,
		Category: categoryName,
		Scoped:   categoryName != "",
	}
}

// CloseAddDialog closes the dialog and clears its fields.
func (s *Session) CloseAddDialog() {
	s.Dialog = AddDialog{}
}

// UpdateDraft stores the dialog fields. The category is kept when the dialog is scoped.
func (s *Session) UpdateDraft(d Draft) {
	s.Dialog.Name = d.Name
	s.Dialog.Content = d.Content
	if !s.Dialog.Scoped {
		s.Dialog.Category = d.Category
	}
}

// OpenManagePanel shows the management panel.
func (s *Session) OpenManagePanel() {
	s.PanelOpen = true
}

// CloseManagePanel hides the panel and keeps pending toggles for the next opening.
func (s *Session) CloseManagePanel() {
	s.PanelOpen = false
}

// SetSearch updates the search term.
func (s *Session) SetSearch(term string) {
	s.Search = term
}
