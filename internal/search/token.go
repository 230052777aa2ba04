package search

import (
	"strings"

	"github.com/argosnews/argosctl/internal/storage"
)

const sourcePrefix = "source:"

// TokenProvider splits the query on whitespace. Every text token must
// match at least one field (AND logic). A "source:<name>" token restricts
// the match to entries recorded by that source.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

// Match returns true if the entry satisfies every token.
func (p *TokenProvider) Match(entry storage.Entry, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}

	for _, token := range tokens {
		if src, ok := strings.CutPrefix(strings.ToLower(token), sourcePrefix); ok {
			if !strings.EqualFold(entry.Source, src) {
				return false
			}
			continue
		}
		if !p.matchToken(entry, token) {
			return false
		}
	}
	return true
}

func (p *TokenProvider) matchToken(entry storage.Entry, token string) bool {
	if p.opts.CaseInsensitive {
		token = strings.ToLower(token)
	}
	for _, field := range p.opts.Fields {
		value := fieldValue(entry, field)
		if p.opts.CaseInsensitive {
			value = strings.ToLower(value)
		}
		if value != "" && strings.Contains(value, token) {
			return true
		}
	}
	return false
}

// Name returns the provider name.
func (p *TokenProvider) Name() string {
	return "token"
}
