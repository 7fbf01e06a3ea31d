package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

const (
	seedVersionV1 = "1"
	// SeedVersion exposes the current seed format version for tooling.
	SeedVersion = seedVersionV1
)

// SeedDocument models a YAML/JSON file describing the starting dashboard.
type SeedDocument struct {
	Version    string         `json:"version" yaml:"version"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	Categories []SeedCategory `json:"categories" yaml:"categories"`
	Source     string         `json:"-" yaml:"-"`
}

// SeedCategory is one category entry of a seed document.
type SeedCategory struct {
	Name      string       `json:"name" yaml:"name"`
	ShortForm string       `json:"short_form,omitempty" yaml:"short_form,omitempty"`
	Widgets   []SeedWidget `json:"widgets,omitempty" yaml:"widgets,omitempty"`
}

// SeedWidget is one widget entry. A missing id is generated when the seed is
// converted to a tree.
type SeedWidget struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

// ReadSeed loads and validates a seed file from disk.
func ReadSeed(path string) (*SeedDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open seed %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeSeed(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode seed %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeSeed reads a seed from any reader. Unknown fields are rejected.
func DecodeSeed(r io.Reader) (*SeedDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc SeedDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, goerrors.New("dashboard: seed is empty", goerrors.CategoryBadInput)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "dashboard: parse seed")
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeSeed writes the document as YAML.
func EncodeSeed(w io.Writer, doc *SeedDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode seed: %w", err)
	}
	return encoder.Close()
}

// Validate checks the document against the seed schema, then enforces the rules
// a schema cannot express: unique category names and unique widget ids per category.
func (doc *SeedDocument) Validate() error {
	if err := defaultSeedValidator.Validate(doc); err != nil {
		return err
	}
	var fields []goerrors.FieldError
	categories := make(map[string]struct{}, len(doc.Categories))
	for i, c := range doc.Categories {
		if _, dup := categories[c.Name]; dup {
			fields = append(fields, goerrors.FieldError{
				Field:   "categories[" + strconv.Itoa(i) + "].name",
				Message: "duplicate category name",
				Value:   c.Name,
			})
		}
		categories[c.Name] = struct{}{}
		ids := make(map[string]struct{}, len(c.Widgets))
		for j, w := range c.Widgets {
			if w.ID == "" {
				continue
			}
			if _, dup := ids[w.ID]; dup {
				fields = append(fields, goerrors.FieldError{
					Field:   fmt.Sprintf("categories[%d].widgets[%d].id", i, j),
					Message: "duplicate widget id",
					Value:   w.ID,
				})
			}
			ids[w.ID] = struct{}{}
		}
	}
	if len(fields) > 0 {
		return goerrors.NewValidation("dashboard: invalid seed", fields...)
	}
	return nil
}

// Tree converts the document into a committed tree. Widgets without an id get
// one from ids.
func (doc *SeedDocument) Tree(ids IDGenerator) Tree {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	tree := Tree{Categories: make([]Category, len(doc.Categories))}
	for i, c := range doc.Categories {
		category := Category{
			Name:      c.Name,
			ShortForm: c.ShortForm,
			Widgets:   make([]Widget, len(c.Widgets)),
		}
		for j, w := range c.Widgets {
			id := w.ID
			if id == "" {
				id = ids.NewID()
			}
			category.Widgets[j] = Widget{ID: id, Name: w.Name, Content: w.Content}
		}
		tree.Categories[i] = category
	}
	return tree
}

// Category finds a category entry by name.
func (doc *SeedDocument) Category(name string) (*SeedCategory, bool) {
	for i := range doc.Categories {
		if doc.Categories[i].Name == name {
			return &doc.Categories[i], true
		}
	}
	return nil, false
}

// SeedFromTree builds a document describing tree.
func SeedFromTree(tree Tree) *SeedDocument {
	doc := &SeedDocument{
		Version:    seedVersionV1,
		Categories: make([]SeedCategory, len(tree.Categories)),
	}
	for i, c := range tree.Categories {
		category := SeedCategory{Name: c.Name, ShortForm: c.ShortForm}
		for _, w := range c.Widgets {
			category.Widgets = append(category.Widgets, SeedWidget(w))
		}
		doc.Categories[i] = category
	}
	return doc
}

func (doc *SeedDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = seedVersionV1
	}
}
