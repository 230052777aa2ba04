// Package format renders command output for history entries and article
// lists in the styles the CLI offers.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/storage"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatHistory writes history entries, in the order given.
	FormatHistory(entries []storage.Entry, w io.Writer) error

	// FormatArticles writes an article list with its toggle states.
	FormatArticles(articles []page.Article, w io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeSimple writes one tab-aligned line per item.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeTable writes a table with colored headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeCompact writes only messages or titles, one per line.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON writes a JSON array.
	FormatterTypeJSON FormatterType = "json"
)

// Types lists every formatter type.
var Types = []FormatterType{FormatterTypeSimple, FormatterTypeTable, FormatterTypeCompact, FormatterTypeJSON}

// ParseFormatterType resolves a --format value.
func ParseFormatterType(value string) (FormatterType, error) {
	t := FormatterType(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	names := make([]string, len(Types))
	for i, known := range Types {
		names[i] = string(known)
	}
	return "", fmt.Errorf("format: unknown format %q (want one of: %s)", value, strings.Join(names, ", "))
}

// NewFormatter creates a new formatter of the specified type. Unknown types
// get the simple formatter.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeTable:
		return NewTableFormatter()
	case FormatterTypeCompact:
		return NewCompactFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewSimpleFormatter()
	}
}

// toggleView is the flattened state of one article toggle.
type toggleView struct {
	Kind   string `json:"kind"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

func toggles(a page.Article) []toggleView {
	out := make([]toggleView, 0, len(a.Toggles))
	for _, c := range a.Toggles {
		state := c.State()
		out = append(out, toggleView{
			Kind:   c.Attr("data-mapping"),
			Label:  state.Label,
			Active: state.Active,
			Method: state.Method,
			URL:    c.Attr("href"),
		})
	}
	return out
}
