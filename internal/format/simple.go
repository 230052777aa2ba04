package format

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/storage"
)

const bookmarkMark = "*"

// SimpleFormatter writes tab-aligned lines without headers.
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new simple formatter.
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// FormatHistory writes "date  source  message" lines.
func (f *SimpleFormatter) FormatHistory(entries []storage.Entry, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Source, e.Message)
	}
	return tw.Flush()
}

// FormatArticles writes the bookmark mark, the title and each toggle as
// kind=label.
func (f *SimpleFormatter) FormatArticles(articles []page.Article, w io.Writer) error {
	for _, a := range articles {
		mark := " "
		if a.Bookmarked {
			mark = bookmarkMark
		}
		line := mark + " " + a.Title
		for _, t := range toggles(a) {
			line += fmt.Sprintf("\t%s=%s", t.Kind, t.Label)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// CompactFormatter writes only messages or titles.
type CompactFormatter struct{}

// NewCompactFormatter creates a new compact formatter.
func NewCompactFormatter() *CompactFormatter {
	return &CompactFormatter{}
}

// FormatHistory writes one message per line.
func (f *CompactFormatter) FormatHistory(entries []storage.Entry, w io.Writer) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.Message); err != nil {
			return err
		}
	}
	return nil
}

// FormatArticles writes one title per line.
func (f *CompactFormatter) FormatArticles(articles []page.Article, w io.Writer) error {
	for _, a := range articles {
		if _, err := fmt.Fprintln(w, a.Title); err != nil {
			return err
		}
	}
	return nil
}
