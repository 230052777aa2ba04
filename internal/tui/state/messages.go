// Package state provides the bubbletea model of the argos browser.
package state

import (
	"time"

	"github.com/argosnews/argosctl/internal/action"
	"github.com/argosnews/argosctl/internal/dispatch"
	"github.com/argosnews/argosctl/internal/page"
	"github.com/argosnews/argosctl/internal/upload"
)

// pageLoadedMsg is sent when a page request completes.
type pageLoadedMsg struct {
	ref    string
	url    string
	doc    *page.Document
	status int
	body   string
	err    error
}

// actionDoneMsg carries a dispatched action back to the Update loop. The
// document and control are the ones captured when the action was sent.
type actionDoneMsg struct {
	doc     *page.Document
	control page.Control
	desc    action.Descriptor
	outcome dispatch.Outcome
}

// uploadDoneMsg carries an icon upload back to the Update loop.
type uploadDoneMsg struct {
	doc      *page.Document
	sourceID string
	result   upload.Result
}

// frameMsg redraws the notification bubble while it animates.
type frameMsg time.Time
