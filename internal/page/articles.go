package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/argosnews/argosctl/internal/action"
)

// Article is one item of an article list, with the toggles it carries.
type Article struct {
	Title      string
	Bookmarked bool
	Toggles    []Control
}

// Toggle returns the article's control for kind.
func (a Article) Toggle(kind action.Kind) (Control, bool) {
	for _, c := range a.Toggles {
		if c.Attr("data-mapping") == kind.String() {
			return c, true
		}
	}
	return Control{}, false
}

// Articles lists the page's article elements in document order.
func (d *Document) Articles() []Article {
	var out []Article
	d.doc.Find("article").Each(func(_ int, s *goquery.Selection) {
		a := Article{
			Title:      articleTitle(s),
			Bookmarked: isVisible(s.Find(BookmarkFlagSelector)),
		}
		s.Find(ControlSelector).Each(func(_ int, c *goquery.Selection) {
			a.Toggles = append(a.Toggles, Control{sel: c})
		})
		out = append(out, a)
	})
	return out
}

func articleTitle(s *goquery.Selection) string {
	for _, sel := range []string{".title", "h1", "h2", "h3"} {
		if t := strings.TrimSpace(s.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return strings.Join(strings.Fields(s.Text()), " ")
}
