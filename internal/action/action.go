// Package action models the declarative actions a page exposes and the
// state transitions their successful completion produces.
package action

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnknownMapping indicates a data-mapping value with no matching Kind.
// It means the server markup and this client disagree; it is not a
// runtime condition to recover from.
var ErrUnknownMapping = errors.New("unknown action mapping")

// ErrUnsupportedMethod indicates a data-method value outside GET, POST and DELETE.
var ErrUnsupportedMethod = errors.New("unsupported action method")

// Kind selects what happens after an action succeeds.
type Kind int

const (
	// Bookmark toggles an event bookmark and its flag.
	Bookmark Kind = iota + 1
	// Watch toggles watching a story.
	Watch
	// Articles replaces the article list with the next page.
	Articles
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{Bookmark, Watch, Articles}

// String returns the data-mapping key of the Kind.
func (k Kind) String() string {
	switch k {
	case Bookmark:
		return "bookmark"
	case Watch:
		return "watch"
	case Articles:
		return "articles"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsToggle reports whether the Kind is a two-state toggle.
func (k Kind) IsToggle() bool {
	return k == Bookmark || k == Watch
}

// ParseKind resolves a data-mapping key.
func ParseKind(mapping string) (Kind, error) {
	switch strings.TrimSpace(mapping) {
	case "bookmark":
		return Bookmark, nil
	case "watch":
		return Watch, nil
	case "articles":
		return Articles, nil
	default:
		return 0, fmt.Errorf("action: %w: %q", ErrUnknownMapping, mapping)
	}
}

// Descriptor is what a control declares about the request it triggers.
type Descriptor struct {
	URL    string
	Method string
	Kind   Kind
}

// NewDescriptor validates and normalizes raw attribute values.
func NewDescriptor(url, method, mapping string) (Descriptor, error) {
	kind, err := ParseKind(mapping)
	if err != nil {
		return Descriptor{}, err
	}
	m, err := normalizeMethod(method)
	if err != nil {
		return Descriptor{}, err
	}
	if strings.TrimSpace(url) == "" {
		return Descriptor{}, fmt.Errorf("action: %s control has no url", kind)
	}
	return Descriptor{URL: strings.TrimSpace(url), Method: m, Kind: kind}, nil
}

func normalizeMethod(method string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	switch m {
	case "":
		return http.MethodGet, nil
	case http.MethodGet, http.MethodPost, http.MethodDelete:
		return m, nil
	default:
		return "", fmt.Errorf("action: %w: %q", ErrUnsupportedMethod, method)
	}
}
