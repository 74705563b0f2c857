package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mverdi/loadburst/internal/config"
	"github.com/mverdi/loadburst/internal/engine"
	"github.com/mverdi/loadburst/internal/results"
	"github.com/mverdi/loadburst/internal/tracing"
)

// BodyUnavailable is the snippet substituted when a response body cannot be
// read.
const BodyUnavailable = "(body unavailable)"

// snippetReadLimit bounds how much of a body is read before truncation.
// Larger than results.SnippetMax so multi-byte runes at the cut point
// survive.
const snippetReadLimit = 4 * results.SnippetMax

// Options configure a Client.
type Options struct {
	// Timeout applies to the whole request. Zero means none, which is the
	// engine's default: cancellation between iterations is the only bound.
	Timeout time.Duration

	// Tracing supplies the span source; nil disables tracing.
	Tracing *tracing.Provider
}

// Client issues GETs against a single target.
type Client struct {
	hc        *http.Client
	target    string
	tracer    trace.Tracer
	propagate bool
}

// New creates a Client for target.
func New(target string, opts Options) *Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,
		// Plain HTTP/1.1; units multiplex nothing.
		ForceAttemptHTTP2:     false,
		MaxIdleConns:          config.MaxConcurrency,
		MaxIdleConnsPerHost:   config.MaxConcurrency,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	c := &Client{
		hc: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		target: strings.TrimSpace(target),
	}
	if opts.Tracing != nil {
		c.tracer = opts.Tracing.Tracer()
		c.propagate = opts.Tracing.ShouldPropagate()
	}
	return c
}

// Do issues one GET. The returned snippet is at most results.SnippetMax
// characters. A non-nil error means no response was received.
func (c *Client) Do(ctx context.Context) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.target, nil)
	if err != nil {
		return 0, "", err
	}
	// Defeat intermediary caches; every attempt must hit the target.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	var span trace.Span
	if c.tracer != nil {
		ctx, span = tracing.StartRequestSpan(ctx, c.tracer, c.target, engine.UnitIDFromContext(ctx))
		req = req.WithContext(ctx)
		if c.propagate {
			tracing.InjectHTTPHeaders(ctx, req.Header)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if span != nil {
			tracing.EndSpan(span, err)
		}
		return 0, "", err
	}
	defer resp.Body.Close()

	snippet := readSnippet(resp.Body)

	if span != nil {
		tracing.EndSpan(span, nil, attribute.Int("http.response.status_code", resp.StatusCode))
	}
	return resp.StatusCode, snippet, nil
}

// readSnippet reads at most snippetReadLimit bytes, drains the rest so the
// connection can be reused, and truncates to the snippet cap.
func readSnippet(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, snippetReadLimit))
	_, _ = io.Copy(io.Discard, body)
	if err != nil {
		return BodyUnavailable
	}
	return results.Truncate(string(data))
}
