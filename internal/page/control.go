package page

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/argosnews/argosctl/internal/action"
)

// Control is one actionable element of a page.
type Control struct {
	sel *goquery.Selection
}

// IsMore reports whether the control is a "load more" control.
func (c Control) IsMore() bool {
	_, ok := c.sel.Attr("data-href")
	return ok
}

// Attr returns an attribute of the control.
func (c Control) Attr(name string) string {
	return c.sel.AttrOr(name, "")
}

// Descriptor reads the control's request description.
// "more" controls always GET their data-href.
func (c Control) Descriptor() (action.Descriptor, error) {
	if c.IsMore() {
		mapping := c.sel.AttrOr("data-mapping", action.Articles.String())
		return action.NewDescriptor(c.Attr("data-href"), http.MethodGet, mapping)
	}
	return action.NewDescriptor(c.Attr("href"), c.Attr("data-method"), c.Attr("data-mapping"))
}

// Label returns the visible text of the control.
func (c Control) Label() string {
	if label := c.sel.Find(LabelSelector); label.Length() > 0 {
		return strings.TrimSpace(label.Text())
	}
	return ownText(c.sel)
}

// State reads the toggle tuple off the control.
func (c Control) State() action.ToggleState {
	return action.ToggleState{
		Method:      strings.ToUpper(c.Attr("data-method")),
		Label:       c.Label(),
		Active:      c.sel.HasClass(action.ActiveClass),
		FlagVisible: isVisible(c.flag()),
	}
}

// flag is the bookmark flag of the article the control belongs to.
func (c Control) flag() *goquery.Selection {
	return c.sel.Closest("article").Find(BookmarkFlagSelector)
}
