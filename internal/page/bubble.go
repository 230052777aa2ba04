package page

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/argosnews/argosctl/internal/toast"
)

const (
	// BubbleSelector matches the notification bubble.
	BubbleSelector = ".popover-notification"
	// BubbleContentSelector matches the bubble's text node.
	BubbleContentSelector = ".popover-notification--content"

	bubbleMarkup = `<div class="popover-notification"><div class="popover-notification--content"></div></div>`
)

var _ toast.Surface = (*Document)(nil)

func (d *Document) bubble() *goquery.Selection {
	return d.doc.Find(BubbleSelector)
}

// HasBubble reports whether the page already holds a bubble.
func (d *Document) HasBubble() bool {
	return d.bubble().Length() > 0
}

// BubbleCount returns the number of bubble nodes on the page.
func (d *Document) BubbleCount() int {
	return d.bubble().Length()
}

// BubbleText returns the text of the bubble, or "" without one.
func (d *Document) BubbleText() string {
	return d.bubble().First().Find(BubbleContentSelector).Text()
}

// CreateBubble appends a new bubble to the body.
func (d *Document) CreateBubble(message string) {
	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		body = d.doc.Selection
	}
	body.AppendHtml(bubbleMarkup)
	d.SetBubbleText(message)
}

// SetBubbleText replaces the bubble text in place.
func (d *Document) SetBubbleText(message string) {
	d.bubble().First().Find(BubbleContentSelector).SetText(message)
}

// RenderBubble writes position and opacity of b onto the bubble node.
func (d *Document) RenderBubble(b toast.Bubble) {
	node := d.bubble().First()
	if node.Length() == 0 {
		return
	}
	node.SetAttr("style", fmt.Sprintf("bottom: %.2fem; opacity: %.2f", -b.Offset, b.Opacity))
	if b.Visible {
		node.AddClass("visible")
	} else {
		node.RemoveClass("visible")
	}
}
