package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Icon is an admin source icon that accepts uploads.
type Icon struct {
	sel *goquery.Selection
}

// SourceID is the data-id of the source the icon belongs to.
func (i Icon) SourceID() string {
	return strings.TrimSpace(i.sel.AttrOr("data-id", ""))
}

// Src returns the current image source.
func (i Icon) Src() string {
	return i.sel.AttrOr("src", "")
}

// Label describes the icon for listings.
func (i Icon) Label() string {
	if alt := strings.TrimSpace(i.sel.AttrOr("alt", "")); alt != "" {
		return alt
	}
	return "source " + i.SourceID()
}

// SetSrc points the image at url.
func (i Icon) SetSrc(url string) {
	i.sel.SetAttr("src", url)
}

// Icons lists the page's upload-enabled source icons.
func (d *Document) Icons() []Icon {
	var out []Icon
	d.doc.Find(IconSelector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, Icon{sel: s})
	})
	return out
}

// Icon finds the icon of a source.
func (d *Document) Icon(sourceID string) (Icon, bool) {
	for _, i := range d.Icons() {
		if i.SourceID() == sourceID {
			return i, true
		}
	}
	return Icon{}, false
}
