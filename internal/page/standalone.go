package page

import (
	"fmt"
	"html"

	"github.com/argosnews/argosctl/internal/action"
)

// NewToggleControl builds a one-article page holding a single toggle in
// state, the way the server would render it. One-shot commands use it to
// run a toggle without loading a page first.
func NewToggleControl(kind action.Kind, url string, state action.ToggleState) (*Document, Control, error) {
	if !kind.IsToggle() {
		return nil, Control{}, fmt.Errorf("page: %s is not a toggle", kind)
	}
	class := ""
	if state.Active {
		class = ` class="` + action.ActiveClass + `"`
	}
	flag := ""
	if kind == action.Bookmark {
		style := ` style="display: none"`
		if state.FlagVisible {
			style = ""
		}
		flag = `<span class="item--bookmark"` + style + `>Bookmarked</span>`
	}
	markup := fmt.Sprintf(`<html><body><article>`+
		`<a href="%s" data-method="%s" data-mapping="%s"%s><span class="action-label">%s</span></a>`+
		`%s</article></body></html>`,
		html.EscapeString(url), state.Method, kind, class, html.EscapeString(state.Label), flag)

	doc, err := ParseString(markup)
	if err != nil {
		return nil, Control{}, err
	}
	controls := doc.Controls()
	if len(controls) != 1 {
		return nil, Control{}, fmt.Errorf("page: expected one control, got %d", len(controls))
	}
	return doc, controls[0], nil
}

// NewMoreControl builds a page holding an empty article list and a "load
// more" control for ref.
func NewMoreControl(ref string) (*Document, Control, error) {
	markup := fmt.Sprintf(`<html><body><ul class="articles"></ul>`+
		`<a data-href="%s" data-mapping="%s">More</a></body></html>`,
		html.EscapeString(ref), action.Articles)

	doc, err := ParseString(markup)
	if err != nil {
		return nil, Control{}, err
	}
	controls := doc.MoreControls()
	if len(controls) != 1 {
		return nil, Control{}, fmt.Errorf("page: expected one more control, got %d", len(controls))
	}
	return doc, controls[0], nil
}
