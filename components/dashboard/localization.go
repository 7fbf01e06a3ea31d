package dashboard

import (
	"context"
	"strings"
)

// TranslationService translates shell labels. Implementations may be backed by
// go-i18n or any catalog keyed by "dashboard.<label>".
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// defaultLabels are the English shell strings keyed by template name.
var defaultLabels = map[string]string{
	"search_placeholder": "Search widgets",
	"widgets":            "widgets",
	"add_widget":         "+ Add Widget",
	"manage_widgets":     "Manage Widgets",
	"reset":              "Reset",
	"cancel":             "Cancel",
	"confirm":            "Confirm",
	"add":                "Add",
	"category":           "Category",
	"select_category":    "Select a category",
	"widget_name":        "Widget name",
	"widget_content":     "Widget content",
}

// Labels resolves every shell label for locale. Missing translations keep the
// English default.
func Labels(ctx context.Context, svc TranslationService, locale string) map[string]string {
	out := make(map[string]string, len(defaultLabels))
	for key, fallback := range defaultLabels {
		out[key] = translateOrFallback(ctx, svc, "dashboard."+key, locale, fallback, nil)
	}
	return out
}

// ResolveLocalizedValue picks the entry for locale, then its base language, then
// "default". Keys match case-insensitively and "_" is read as "-".
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if normalizeLocale(key) == candidate && value != "" {
				return value
			}
		}
	}
	return fallback
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(locale)), "_", "-")
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
