package connector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http2"

	"github.com/dayuer/tgmux/internal/telegram"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// maxBodySize bounds how much of a response is read into memory.
const maxBodySize = 32 << 20

var (
	ErrInvalidBaseURL = errors.New("invalid base url")
	ErrHTTPStatus     = errors.New("unexpected http status")
)

// HTTPOptions configures the default HTTP connector.
type HTTPOptions struct {
	BaseURL string        // Bot API root (default https://api.telegram.org)
	Timeout time.Duration // Per-request client timeout (0 = none; long polls set their own)
	// ForceHTTP2 configures the transport for HTTP/2 via x/net/http2.
	ForceHTTP2 bool
	// Client overrides the http.Client entirely (tests, proxies).
	Client *http.Client
}

// HTTP is the default Connector, posting JSON bodies to
// {BaseURL}/bot{token}/{method}.
type HTTP struct {
	base   string
	client *http.Client
}

// NewHTTP validates opts and builds the connector.
func NewHTTP(opts HTTPOptions) (*HTTP, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, base)
	}

	client := opts.Client
	if client == nil {
		transport := &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		}
		if opts.ForceHTTP2 {
			if err := http2.ConfigureTransport(transport); err != nil {
				return nil, fmt.Errorf("configure http2: %w", err)
			}
		}
		client = &http.Client{Transport: transport, Timeout: opts.Timeout}
	}

	return &HTTP{base: strings.TrimRight(base, "/"), client: client}, nil
}

// Factory returns a Factory producing connectors with the same options.
// Every call builds its own transport, so the three bindings of a
// credential never share a connection pool.
func (opts HTTPOptions) Factory() Factory {
	return func() (Connector, error) {
		return NewHTTP(opts)
	}
}

// Do posts the request. Responses with a body are returned whatever their
// status, since the Bot API reports failures inside the JSON envelope.
func (h *HTTP) Do(ctx context.Context, token string, req telegram.HTTPRequest) (telegram.HTTPResponse, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", h.base, token, req.Method)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(req.Body))
	if err != nil {
		return telegram.HTTPResponse{}, fmt.Errorf("build %s request: %w", req.Method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return telegram.HTTPResponse{}, fmt.Errorf("%s: %w", req.Method, redact(err, token))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return telegram.HTTPResponse{}, fmt.Errorf("%s: read body: %w", req.Method, err)
	}
	if len(body) == 0 && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return telegram.HTTPResponse{}, fmt.Errorf("%s: %w: %d", req.Method, ErrHTTPStatus, resp.StatusCode)
	}

	return telegram.HTTPResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// redact keeps the bot token out of url.Error messages.
func redact(err error, token string) error {
	var urlErr *url.Error
	if token == "" || !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: strings.ReplaceAll(urlErr.URL, token, "<token>"),
		Err: urlErr.Err,
	}
}
