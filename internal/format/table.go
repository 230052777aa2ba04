package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/storage"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableConfig holds configuration for table formatting.
type TableConfig struct {
	// ShowHeaders determines whether to show column headers.
	ShowHeaders bool

	// HeaderColor is the color of the header row.
	HeaderColor lipgloss.Color

	// MaxMessageWidth truncates messages and titles. Zero keeps them whole.
	MaxMessageWidth int
}

// DefaultTableConfig returns a default table configuration.
func DefaultTableConfig() *TableConfig {
	return &TableConfig{
		ShowHeaders:     true,
		HeaderColor:     lipgloss.Color("4"),
		MaxMessageWidth: 60,
	}
}

// TableFormatter writes a bordered table under a header row.
type TableFormatter struct {
	config *TableConfig
}

// NewTableFormatter creates a new table formatter with default configuration.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{config: DefaultTableConfig()}
}

// NewTableFormatterWithConfig creates a table formatter with custom configuration.
func NewTableFormatterWithConfig(config *TableConfig) *TableFormatter {
	if config == nil {
		config = DefaultTableConfig()
	}
	return &TableFormatter{config: config}
}

// FormatHistory writes ID, date, source and message columns.
func (f *TableFormatter) FormatHistory(entries []storage.Entry, w io.Writer) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.Local().Format(time.DateTime),
			e.Source,
			f.truncate(e.Message),
		})
	}
	return f.render(w, []string{"ID", "DATE", "SOURCE", "MESSAGE"}, rows)
}

// FormatArticles writes title, bookmark flag and toggle label columns.
func (f *TableFormatter) FormatArticles(articles []page.Article, w io.Writer) error {
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		labels := map[string]string{}
		for _, t := range toggles(a) {
			labels[t.Kind] = t.Label
		}
		rows = append(rows, []string{
			f.truncate(a.Title),
			strconv.FormatBool(a.Bookmarked),
			orDash(labels["bookmark"]),
			orDash(labels["watch"]),
		})
	}
	return f.render(w, []string{"TITLE", "BOOKMARKED", "BOOKMARK", "WATCH"}, rows)
}

func (f *TableFormatter) render(w io.Writer, headers []string, rows [][]string) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(f.config.HeaderColor).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if f.config.ShowHeaders {
		t = t.Headers(headers...)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func (f *TableFormatter) truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	limit := f.config.MaxMessageWidth
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
