package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"

	"github.com/goliatone/go-widgetboard/components/dashboard"
)

type cli struct {
	Init        initCmd        `cmd:"" help:"Write the starter dashboard to a seed file."`
	AddCategory addCategoryCmd `cmd:"" name:"add-category" help:"Append a category to a seed file."`
	AddWidget   addWidgetCmd   `cmd:"" name:"add-widget" help:"Append a widget to a category of a seed file."`
	Validate    validateCmd    `cmd:"" help:"Validate a seed file against the seed schema."`
	List        listCmd        `cmd:"" help:"Print the categories and widgets of a seed file."`
}

type initCmd struct {
	Path      string `arg:"" type:"path" help:"Seed file to create."`
	Overwrite bool   `help:"Replace an existing file."`
}

type addCategoryCmd struct {
	Path      string `arg:"" type:"path" help:"Seed file to update."`
	Name      string `required:"" help:"Category name."`
	ShortForm string `name:"short-form" help:"Abbreviation shown in dialog titles and panel tabs."`
}

type addWidgetCmd struct {
	Path     string `arg:"" type:"path" help:"Seed file to update."`
	Category string `required:"" help:"Category that receives the widget."`
	Name     string `required:"" help:"Widget name."`
	Content  string `required:"" help:"Widget body text."`
	ID       string `help:"Widget id (defaults to the kebab-cased name)."`
}

type validateCmd struct {
	Path string `arg:"" type:"existingfile" help:"Seed file to check."`
}

type listCmd struct {
	Path string `arg:"" type:"existingfile" help:"Seed file to print."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Seed file editor for go-widgetboard dashboards."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func (cmd *initCmd) Run(_ context.Context, out io.Writer) error {
	if _, err := os.Stat(cmd.Path); err == nil && !cmd.Overwrite {
		return fmt.Errorf("widgetctl: %s already exists (use --overwrite to replace)", cmd.Path)
	}
	doc := dashboard.SeedFromTree(dashboard.DefaultTree())
	if err := writeSeed(cmd.Path, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Wrote starter dashboard to %s\n", cmd.Path)
	return nil
}

func (cmd *addCategoryCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := loadOrInitSeed(cmd.Path)
	if err != nil {
		return err
	}
	if err := addCategory(doc, cmd.Name, cmd.ShortForm); err != nil {
		return err
	}
	if err := writeSeed(cmd.Path, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Added category %q to %s\n", cmd.Name, cmd.Path)
	return nil
}

func (cmd *addWidgetCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := loadOrInitSeed(cmd.Path)
	if err != nil {
		return err
	}
	widget, err := addWidget(doc, cmd.Category, cmd.ID, cmd.Name, cmd.Content)
	if err != nil {
		return err
	}
	if err := writeSeed(cmd.Path, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Added widget %s to %q in %s\n", widget.ID, cmd.Category, cmd.Path)
	return nil
}

func (cmd *validateCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := dashboard.ReadSeed(cmd.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ %s is valid (%d categories, %d widgets)\n", cmd.Path, len(doc.Categories), doc.Tree(nil).WidgetCount())
	return nil
}

func (cmd *listCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := dashboard.ReadSeed(cmd.Path)
	if err != nil {
		return err
	}
	return printSeed(out, doc)
}

func addCategory(doc *dashboard.SeedDocument, name, shortForm string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("widgetctl: category name is required")
	}
	if _, exists := doc.Category(name); exists {
		return fmt.Errorf("widgetctl: category %q already exists", name)
	}
	doc.Categories = append(doc.Categories, dashboard.SeedCategory{Name: name, ShortForm: strings.TrimSpace(shortForm)})
	return nil
}

func addWidget(doc *dashboard.SeedDocument, categoryName, id, name, content string) (dashboard.SeedWidget, error) {
	category, ok := doc.Category(categoryName)
	if !ok {
		return dashboard.SeedWidget{}, fmt.Errorf("widgetctl: unknown category %q", categoryName)
	}
	if id == "" {
		id = strcase.ToKebab(name)
	}
	for _, w := range category.Widgets {
		if w.ID == id {
			return dashboard.SeedWidget{}, fmt.Errorf("widgetctl: widget id %s already used in %q", id, categoryName)
		}
	}
	widget := dashboard.SeedWidget{ID: id, Name: strings.TrimSpace(name), Content: strings.TrimSpace(content)}
	category.Widgets = append(category.Widgets, widget)
	if err := doc.Validate(); err != nil {
		category.Widgets = category.Widgets[:len(category.Widgets)-1]
		return dashboard.SeedWidget{}, err
	}
	return widget, nil
}

func printSeed(out io.Writer, doc *dashboard.SeedDocument) error {
	for _, c := range doc.Categories {
		label := c.Name
		if c.ShortForm != "" {
			label += " (" + c.ShortForm + ")"
		}
		if _, err := fmt.Fprintln(out, label); err != nil {
			return err
		}
		for _, w := range c.Widgets {
			if _, err := fmt.Fprintf(out, "  - %s: %s\n", w.ID, w.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func loadOrInitSeed(path string) (*dashboard.SeedDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.SeedDocument{Version: dashboard.SeedVersion, Source: path}, nil
		}
		return nil, fmt.Errorf("widgetctl: stat seed: %w", err)
	}
	return dashboard.ReadSeed(path)
}

func writeSeed(path string, doc *dashboard.SeedDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("widgetctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("widgetctl: create seed %s: %w", path, err)
	}
	defer file.Close()
	return dashboard.EncodeSeed(file, doc)
}
