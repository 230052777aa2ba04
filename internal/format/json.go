package format

import (
	"encoding/json"
	"io"
	"time"

	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/storage"
)

// JSONFormatter writes indented JSON arrays.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type entryJSON struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

type articleJSON struct {
	Title      string       `json:"title"`
	Bookmarked bool         `json:"bookmarked"`
	Toggles    []toggleView `json:"toggles"`
}

// FormatHistory writes the entries as a JSON array.
func (f *JSONFormatter) FormatHistory(entries []storage.Entry, w io.Writer) error {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			ID:        e.ID,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
			Source:    e.Source,
			Message:   e.Message,
		})
	}
	return encode(w, out)
}

// FormatArticles writes the articles as a JSON array.
func (f *JSONFormatter) FormatArticles(articles []page.Article, w io.Writer) error {
	out := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleJSON{
			Title:      a.Title,
			Bookmarked: a.Bookmarked,
			Toggles:    toggles(a),
		})
	}
	return encode(w, out)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
