// Package page adapts a server-rendered HTML page to the action and toast
// models. It reads the declarative attributes the server emits and applies
// the mutations those models describe.
package page

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/argosnews/argosctl/internal/action"
)

const (
	// ControlSelector matches every element that declares an HTTP method.
	ControlSelector = "[data-method]"
	// MoreSelector matches "load more" controls.
	MoreSelector = "[data-href]"
	// ListSelector matches the article list a "more" control refreshes.
	ListSelector = ".articles"
	// LabelSelector matches the text label inside a toggle control.
	LabelSelector = ".action-label"
	// BookmarkFlagSelector matches the bookmark flag of an article.
	BookmarkFlagSelector = ".item--bookmark"
	// IconSelector matches admin source icons that accept uploads.
	IconSelector = ".admin-source-icon"
)

// ErrNoList is returned when a "more" response carries no article list.
var ErrNoList = errors.New("no article list")

// Document is a parsed page.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString reads an HTML page from a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// HTML renders the document back to markup.
func (d *Document) HTML() (string, error) {
	markup, err := d.doc.Html()
	if err != nil {
		return "", fmt.Errorf("page: render: %w", err)
	}
	return markup, nil
}

// Title returns the page title.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// Find exposes a selector query over the page.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Controls returns every actionable control in document order.
func (d *Document) Controls() []Control {
	var out []Control
	d.doc.Find(ControlSelector + "," + MoreSelector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, Control{sel: s})
	})
	return out
}

// MoreControls returns the "load more" controls.
func (d *Document) MoreControls() []Control {
	var out []Control
	d.doc.Find(MoreSelector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, Control{sel: s})
	})
	return out
}

// ReplaceList overwrites the inner content of the page's article list with
// the inner content of the list found in body. Nodes outside the list are
// left alone.
func (d *Document) ReplaceList(body string) error {
	target := d.doc.Find(ListSelector).First()
	if target.Length() == 0 {
		return fmt.Errorf("page: %w on page", ErrNoList)
	}
	resp, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("page: parse list response: %w", err)
	}
	source := resp.Find(ListSelector).First()
	if source.Length() == 0 {
		return fmt.Errorf("page: %w in response", ErrNoList)
	}
	inner, err := source.Html()
	if err != nil {
		return fmt.Errorf("page: render list response: %w", err)
	}
	target.SetHtml(inner)
	return nil
}

// ApplyToggle writes a toggle mutation onto its control.
func (d *Document) ApplyToggle(c Control, m action.Mutation) {
	s := c.sel
	s.SetAttr("data-method", m.State.Method)
	if label := s.Find(LabelSelector); label.Length() > 0 {
		label.SetText(m.State.Label)
	} else {
		setOwnText(s, m.State.Label)
	}
	if m.State.Active {
		s.AddClass(action.ActiveClass)
	} else {
		s.RemoveClass(action.ActiveClass)
	}
	if m.HasFlag {
		setVisible(c.flag(), m.State.FlagVisible)
	}
}

// ownText returns the control's direct text, ignoring text inside child
// elements such as icons.
func ownText(s *goquery.Selection) string {
	var parts []string
	s.Contents().Each(func(_ int, n *goquery.Selection) {
		if goquery.NodeName(n) != "#text" {
			return
		}
		if text := strings.TrimSpace(n.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

// setOwnText writes text into the first non-blank direct text node and
// empties the others. Child elements are kept.
func setOwnText(s *goquery.Selection, text string) {
	written := false
	s.Contents().Each(func(_ int, n *goquery.Selection) {
		if goquery.NodeName(n) != "#text" || strings.TrimSpace(n.Text()) == "" {
			return
		}
		if written {
			n.Nodes[0].Data = ""
			return
		}
		n.Nodes[0].Data = text
		written = true
	})
	if !written {
		s.AppendHtml(html.EscapeString(text))
	}
}

// setVisible toggles the display declaration of the inline style, leaving
// every other declaration as it was.
func setVisible(s *goquery.Selection, visible bool) {
	if s.Length() == 0 {
		return
	}
	s.RemoveAttr("hidden")

	var decls []string
	for _, decl := range strings.Split(s.AttrOr("style", ""), ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(name), "display") {
			continue
		}
		decls = append(decls, decl)
	}
	if !visible {
		decls = append(decls, "display: none")
	}
	if len(decls) == 0 {
		s.RemoveAttr("style")
		return
	}
	s.SetAttr("style", strings.Join(decls, "; "))
}

func isVisible(s *goquery.Selection) bool {
	if s.Length() == 0 {
		return false
	}
	if _, hidden := s.Attr("hidden"); hidden {
		return false
	}
	style := strings.ReplaceAll(strings.ToLower(s.AttrOr("style", "")), " ", "")
	return !strings.Contains(style, "display:none")
}
