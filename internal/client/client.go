// Package client talks to the argos server the way the web front-end does:
// same-origin requests flagged as XMLHttpRequest, authenticated by the
// session cookie.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/argosnews/argosctl/internal/logging"
	"github.com/argosnews/argosctl/internal/version"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRate    = 5
	defaultBurst   = 5

	// maxBodySize caps how much of a response is kept. Pages and error
	// bodies are far below it.
	maxBodySize = 8 << 20
)

// ErrInvalidBaseURL is returned when the base URL is not absolute http(s).
var ErrInvalidBaseURL = errors.New("invalid base url")

// Config holds the connection settings.
type Config struct {
	BaseURL       string
	SessionCookie string
	SessionToken  string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	UserAgent     string
}

// Response is a completed HTTP exchange.
type Response struct {
	Status int
	Body   string
	URL    string
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client issues requests against one argos server.
type Client struct {
	base    *url.URL
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  logging.Logger
}

// New validates cfg and returns a Client. A nil logger disables logging.
func New(cfg Config, logger logging.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: %w: %v", ErrInvalidBaseURL, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("client: %w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent()
	}
	if logger == nil {
		logger = logging.Noop()
	}

	return &Client{
		base:    base,
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		logger:  logger.With("component", "client"),
	}, nil
}

// BaseURL returns the server root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Resolve turns an href from a page into an absolute URL on the server.
func (c *Client) Resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("client: resolve %q: %w", ref, err)
	}
	base := *c.base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(u).String(), nil
}

// sameOrigin reports whether u shares the server's scheme and host. The
// session cookie is only ever sent there.
func (c *Client) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, c.base.Scheme) && strings.EqualFold(u.Host, c.base.Host)
}

// Get fetches a page.
func (c *Client) Get(ctx context.Context, ref string) (Response, error) {
	return c.Do(ctx, http.MethodGet, ref)
}

// Do sends a body-less request. A non-2xx status is not an error; the
// caller decides what the body means.
func (c *Client) Do(ctx context.Context, method, ref string) (Response, error) {
	return c.send(ctx, method, ref, nil, "")
}

// Upload posts content as a multipart form file under param.
func (c *Client) Upload(ctx context.Context, ref, param, filename string, content []byte, contentType string) (Response, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, param, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return Response{}, fmt.Errorf("client: create form part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return Response{}, fmt.Errorf("client: write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return Response{}, fmt.Errorf("client: close form: %w", err)
	}
	return c.send(ctx, http.MethodPost, ref, &body, w.FormDataContentType())
}

func (c *Client) send(ctx context.Context, method, ref string, body io.Reader, contentType string) (Response, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return Response{}, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("client: rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Response{}, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cfg.SessionToken != "" && c.sameOrigin(req.URL) {
		req.AddCookie(&http.Cookie{Name: c.cfg.SessionCookie, Value: c.cfg.SessionToken})
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "url", target, "error", err)
		return Response{}, fmt.Errorf("client: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Response{}, fmt.Errorf("client: read body: %w", err)
	}
	c.logger.Debug("request done",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return Response{Status: resp.StatusCode, Body: string(data), URL: target}, nil
}
