// Package dispatch runs the actions a page declares: it sends the request a
// control describes and, when it comes back, either applies the action's
// success mutation to the page or hands the response body to the notifier.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/argosnews/argosctl/internal/action"
	"github.com/argosnews/argosctl/internal/client"
	"github.com/argosnews/argosctl/internal/logging"
	"github.com/argosnews/argosctl/internal/page"
)

// ErrRequestFailed is returned by Resolve after a failure was notified.
var ErrRequestFailed = errors.New("request failed")

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string)
}

// Requester sends a body-less request.
type Requester interface {
	Do(ctx context.Context, method, ref string) (client.Response, error)
}

// Outcome is the completion of a request.
type Outcome struct {
	Status int
	Body   string
	Err    error
}

// OK reports a 2xx response with no transport error.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Status >= http.StatusOK && o.Status < http.StatusMultipleChoices
}

// Message is what the user is shown for a failed outcome.
func (o Outcome) Message() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return o.Body
}

// Dispatcher issues action requests and resolves their outcomes.
type Dispatcher struct {
	requester Requester
	notifier  Notifier
	logger    logging.Logger
}

// New returns a Dispatcher. A nil logger disables logging.
func New(requester Requester, notifier Notifier, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Dispatcher{
		requester: requester,
		notifier:  notifier,
		logger:    logger.With("component", "dispatch"),
	}
}

// Request sends the request desc describes. It touches no page state and
// is safe to call off the UI loop.
func (d *Dispatcher) Request(ctx context.Context, desc action.Descriptor) Outcome {
	resp, err := d.requester.Do(ctx, desc.Method, desc.URL)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Status: resp.Status, Body: resp.Body}
}

// Resolve applies outcome to doc. It must run wherever doc is owned.
// Success runs the action's mutation on c; failure notifies and leaves the
// page untouched.
func (d *Dispatcher) Resolve(doc *page.Document, c page.Control, desc action.Descriptor, outcome Outcome) error {
	if !outcome.OK() {
		d.logger.Info("action failed",
			"kind", desc.Kind.String(),
			"method", desc.Method,
			"url", desc.URL,
			"status", outcome.Status,
		)
		d.notifier.Notify(outcome.Message())
		if outcome.Err != nil {
			return fmt.Errorf("dispatch: %s %s: %w", desc.Method, desc.URL, outcome.Err)
		}
		return fmt.Errorf("dispatch: %s %s: %w (status %d)", desc.Method, desc.URL, ErrRequestFailed, outcome.Status)
	}

	switch desc.Kind {
	case action.Bookmark, action.Watch:
		m, err := action.Transition(desc.Kind, desc.Method)
		if err != nil {
			d.logger.Error("toggle transition failed", "kind", desc.Kind.String(), "error", err)
			return fmt.Errorf("dispatch: %w", err)
		}
		doc.ApplyToggle(c, m)
	case action.Articles:
		if err := doc.ReplaceList(outcome.Body); err != nil {
			d.notifier.Notify(err.Error())
			return fmt.Errorf("dispatch: replace list: %w", err)
		}
	default:
		d.logger.Error("unhandled action kind", "kind", desc.Kind.String())
		return fmt.Errorf("dispatch: %w: %s", action.ErrUnknownMapping, desc.Kind)
	}

	d.logger.Debug("action applied", "kind", desc.Kind.String(), "method", desc.Method, "url", desc.URL)
	return nil
}

// Click reads c's descriptor, sends the request and resolves it in one go.
// Descriptor errors are returned without a request or a notification.
func (d *Dispatcher) Click(ctx context.Context, doc *page.Document, c page.Control) error {
	desc, err := c.Descriptor()
	if err != nil {
		d.logger.Error("invalid control", "mapping", c.Attr("data-mapping"), "error", err)
		return fmt.Errorf("dispatch: %w", err)
	}
	return d.Resolve(doc, c, desc, d.Request(ctx, desc))
}
