// Package search filters the notification history. Substring, regex and
// token strategies share the Provider interface so the CLI can switch
// between them with a flag.
package search

import (
	"github.com/argosnews/argosctl/internal/storage"
)

// Provider matches history entries against a query.
type Provider interface {
	// Match reports whether the entry matches the query. An empty query
	// matches everything.
	Match(entry storage.Entry, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool     // If true, searches ignore case
	Fields          []string // Fields to search in: "message", "source"
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: false,
		Fields:          []string{"message", "source"},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValue returns the entry's value for a field name.
func fieldValue(entry storage.Entry, field string) string {
	switch field {
	case "message":
		return entry.Message
	case "source":
		return entry.Source
	default:
		return ""
	}
}

// Filter returns the entries p matches, keeping their order. A limit > 0
// caps the result.
func Filter(entries []storage.Entry, p Provider, query string, limit int) []storage.Entry {
	var out []storage.Entry
	for _, e := range entries {
		if limit > 0 && len(out) >= limit {
			break
		}
		if p.Match(e, query) {
			out = append(out, e)
		}
	}
	return out
}
