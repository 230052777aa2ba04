package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/argosnews/argosctl/internal/client"
	"github.com/argosnews/argosctl/internal/logging"
	"github.com/argosnews/argosctl/internal/page"
)

// ErrNoFiles is returned when there is nothing to send.
var ErrNoFiles = errors.New("no file selected")

// ErrUnknownSource is returned when the page has no icon for a source.
var ErrUnknownSource = errors.New("unknown source")

// ErrUploadFailed is returned after a failed upload was notified.
var ErrUploadFailed = errors.New("upload failed")

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string)
}

// Poster sends a multipart file upload.
type Poster interface {
	Upload(ctx context.Context, ref, param, filename string, content []byte, contentType string) (client.Response, error)
}

// Result is the completion of an upload request.
type Result struct {
	Status int
	Body   string
	Err    error
}

// OK reports a 2xx response with no transport error.
func (r Result) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300
}

// Uploader validates and sends source icons.
type Uploader struct {
	poster   Poster
	notifier Notifier
	policy   Policy
	logger   logging.Logger
}

// New returns an Uploader enforcing policy. A nil logger disables logging.
func New(poster Poster, notifier Notifier, policy Policy, logger logging.Logger) *Uploader {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Uploader{
		poster:   poster,
		notifier: notifier,
		policy:   policy,
		logger:   logger.With("component", "upload"),
	}
}

// Endpoint is the icon upload URL of a source.
func Endpoint(sourceID string) string {
	return "/admin/sources/" + strings.TrimSpace(sourceID) + "/icon"
}

// Check validates files and notifies the error name when they are refused.
func (u *Uploader) Check(files []File) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if err := u.policy.Validate(files); err != nil {
		u.notifier.Notify(err.Error())
		return err
	}
	return nil
}

// Request sends the first file to the source's icon endpoint. It touches
// no page state.
func (u *Uploader) Request(ctx context.Context, sourceID string, f File) Result {
	resp, err := u.poster.Upload(ctx, Endpoint(sourceID), u.policy.ParamName, f.Name, f.Content, f.Type)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Status: resp.Status, Body: resp.Body}
}

// Resolve points the source's icon at the uploaded image, or notifies the
// failure. The response body of a successful upload is the new icon URL.
func (u *Uploader) Resolve(doc *page.Document, sourceID string, res Result) error {
	if !res.OK() {
		msg := res.Body
		if res.Err != nil {
			msg = res.Err.Error()
		}
		u.logger.Info("icon upload failed", "source", sourceID, "status", res.Status)
		u.notifier.Notify(msg)
		if res.Err != nil {
			return fmt.Errorf("upload: source %s: %w", sourceID, res.Err)
		}
		return fmt.Errorf("upload: source %s: %w (status %d)", sourceID, ErrUploadFailed, res.Status)
	}

	src := strings.TrimSpace(res.Body)
	if doc != nil {
		icon, ok := doc.Icon(sourceID)
		if !ok {
			return fmt.Errorf("upload: %w: %s", ErrUnknownSource, sourceID)
		}
		icon.SetSrc(src)
	}
	u.logger.Debug("icon uploaded", "source", sourceID, "src", src)
	return nil
}

// Upload checks, sends and resolves in one go. It returns the new icon URL.
func (u *Uploader) Upload(ctx context.Context, doc *page.Document, sourceID string, files []File) (string, error) {
	if err := u.Check(files); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	res := u.Request(ctx, sourceID, files[0])
	if err := u.Resolve(doc, sourceID, res); err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Body), nil
}
