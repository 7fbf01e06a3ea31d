package dashboard

import (
	"slices"
	"strings"
)

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t.Categories == nil {
		return Tree{}
	}
	out := Tree{Categories: make([]Category, len(t.Categories))}
	for i, c := range t.Categories {
		out.Categories[i] = c.clone()
	}
	return out
}

// Category finds a category by exact name.
func (t Tree) Category(name string) (Category, bool) {
	for _, c := range t.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// WidgetCount returns the number of widgets across every category.
func (t Tree) WidgetCount() int {
	total := 0
	for _, c := range t.Categories {
		total += len(c.Widgets)
	}
	return total
}

func (c Category) clone() Category {
	c.Widgets = slices.Clone(c.Widgets)
	return c
}

// AddWidget appends widget to the named category. It is a no-op, reported by the
// boolean, when the name or content is empty or the category does not exist.
func AddWidget(tree Tree, categoryName string, widget Widget) (Tree, bool) {
	if widget.Name == "" || widget.Content == "" || categoryName == "" {
		return tree, false
	}
	idx := tree.indexOf(categoryName)
	if idx < 0 {
		return tree, false
	}
	out := tree.Clone()
	out.Categories[idx].Widgets = append(out.Categories[idx].Widgets, widget)
	return out, true
}

// RemoveWidget drops the widget with widgetID from the named category.
func RemoveWidget(tree Tree, categoryName, widgetID string) (Tree, bool) {
	idx := tree.indexOf(categoryName)
	if idx < 0 {
		return tree, false
	}
	out := tree.Clone()
	widgets := out.Categories[idx].Widgets
	kept := widgets[:0]
	for _, w := range widgets {
		if w.ID != widgetID {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(widgets) {
		return tree, false
	}
	out.Categories[idx].Widgets = kept
	return out, true
}

// NewWorkingTree clones the committed tree with every pending flag set.
func NewWorkingTree(tree Tree) WorkingTree {
	out := WorkingTree{Categories: make([]WorkingCategory, len(tree.Categories))}
	for i, c := range tree.Categories {
		wc := WorkingCategory{
			Name:      c.Name,
			ShortForm: c.ShortForm,
			Widgets:   make([]PendingWidget, len(c.Widgets)),
		}
		for j, w := range c.Widgets {
			wc.Widgets[j] = PendingWidget{Widget: w, Visible: true}
		}
		out.Categories[i] = wc
	}
	return out
}

// Clone returns a deep copy of the working tree.
func (w WorkingTree) Clone() WorkingTree {
	if w.Categories == nil {
		return WorkingTree{}
	}
	out := WorkingTree{Categories: make([]WorkingCategory, len(w.Categories))}
	for i, c := range w.Categories {
		c.Widgets = slices.Clone(c.Widgets)
		out.Categories[i] = c
	}
	return out
}

// ToggleWidgetPending flips the pending flag of one widget in the working tree.
func ToggleWidgetPending(working WorkingTree, categoryName, widgetID string) (WorkingTree, bool) {
	for i, c := range working.Categories {
		if c.Name != categoryName {
			continue
		}
		for j, w := range c.Widgets {
			if w.ID != widgetID {
				continue
			}
			out := working.Clone()
			out.Categories[i].Widgets[j].Visible = !w.Visible
			return out, true
		}
		return working, false
	}
	return working, false
}

// CommitWorkingTree keeps only the widgets still flagged visible.
func CommitWorkingTree(working WorkingTree) Tree {
	out := Tree{Categories: make([]Category, len(working.Categories))}
	for i, c := range working.Categories {
		widgets := make([]Widget, 0, len(c.Widgets))
		for _, w := range c.Widgets {
			if w.Visible {
				widgets = append(widgets, w.Widget)
			}
		}
		out.Categories[i] = Category{Name: c.Name, ShortForm: c.ShortForm, Widgets: widgets}
	}
	return out
}

// FilteredView keeps widgets whose name contains term, ignoring case.
// Categories are never dropped.
func FilteredView(tree Tree, term string) Tree {
	if term == "" {
		return tree.Clone()
	}
	needle := strings.ToLower(term)
	out := Tree{Categories: make([]Category, len(tree.Categories))}
	for i, c := range tree.Categories {
		widgets := make([]Widget, 0, len(c.Widgets))
		for _, w := range c.Widgets {
			if strings.Contains(strings.ToLower(w.Name), needle) {
				widgets = append(widgets, w)
			}
		}
		out.Categories[i] = Category{Name: c.Name, ShortForm: c.ShortForm, Widgets: widgets}
	}
	return out
}

func (t Tree) indexOf(name string) int {
	for i, c := range t.Categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}
