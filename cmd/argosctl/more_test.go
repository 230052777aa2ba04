package main

import (
	"context"
	"errors"
	"testing"

	"github.com/argosnews/argosctl/internal/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMoreClient struct {
	refs     []string
	articles []page.Article
	err      error
}

func (f *fakeMoreClient) More(_ context.Context, ref string) ([]page.Article, error) {
	f.refs = append(f.refs, ref)
	return f.articles, f.err
}

func parseArticles(t *testing.T, markup string) []page.Article {
	t.Helper()
	doc, err := page.ParseString(markup)
	require.NoError(t, err)
	return doc.Articles()
}

func TestNewMoreCmdPanicsWhenClientIsNil(t *testing.T) {
	assertPanicsWithNilClient(t, func() { NewMoreCmd(nil) })
}

func TestMoreCmdPrintsArticles(t *testing.T) {
	client := &fakeMoreClient{articles: parseArticles(t, `<ul class="articles">
<li><article><h2 class="title">Central bank holds rates</h2>
<span class="item--bookmark">Bookmarked</span>
<a href="/bookmark?event_id=3" data-method="DELETE" data-mapping="bookmark" class="active"><span class="action-label">Bookmarked</span></a>
<a href="/watch?story_id=30" data-method="POST" data-mapping="watch"><span class="action-label">Watch</span></a>
</article></li>
<li><article><h2 class="title">Storm warning</h2></article></li>
</ul>`)}

	out, _, err := runCmd(t, NewMoreCmd(client), "/feed?page=2")
	require.NoError(t, err)
	assert.Equal(t, []string{"/feed?page=2"}, client.refs)
	assert.Contains(t, out, "* Central bank holds rates\tbookmark=Bookmarked\twatch=Watch\n")
	assert.Contains(t, out, "  Storm warning\n")
}

func TestMoreCmdEmpty(t *testing.T) {
	out, _, err := runCmd(t, NewMoreCmd(&fakeMoreClient{}), "/feed?page=3")
	require.NoError(t, err)
	assert.Contains(t, out, "No articles")
}

func TestMoreCmdError(t *testing.T) {
	client := &fakeMoreClient{err: errors.New("no such page")}

	_, _, err := runCmd(t, NewMoreCmd(client), "/feed?page=9")
	require.EqualError(t, err, "no such page")
}

func TestMoreCmdJSONFormat(t *testing.T) {
	client := &fakeMoreClient{articles: parseArticles(t, `<ul class="articles">
<li><article><h2 class="title">Central bank holds rates</h2></article></li></ul>`)}

	out, _, err := runCmd(t, NewMoreCmd(client), "/feed?page=2", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Central bank holds rates"`)
}

func TestMoreCmdRejectsUnknownFormat(t *testing.T) {
	client := &fakeMoreClient{}

	_, _, err := runCmd(t, NewMoreCmd(client), "/feed?page=2", "--format", "xml")
	require.Error(t, err)
	assert.Empty(t, client.refs)
}
