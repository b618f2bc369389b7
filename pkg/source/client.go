package source

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"keyword-scout/pkg/logger"
)

// Client is the shared fasthttp client used by every source fetcher. It sets
// browser-like headers, enforces a per-request deadline, decodes gzip and
// legacy charsets, and keeps one circuit breaker per source.
type Client struct {
	client     *fasthttp.Client
	timeout    time.Duration
	userAgents []string
	log        *logger.Logger

	breakerFailures int
	breakerReset    time.Duration
	mu              sync.Mutex
	breakers        map[string]*breaker
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	userAgents := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0",
	}
	if cfg.UserAgent != "" {
		userAgents = []string{cfg.UserAgent}
	}

	return &Client{
		client: &fasthttp.Client{
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxConnsPerHost:     32,
			MaxIdleConnDuration: 90 * time.Second,
		},
		timeout:         cfg.Timeout,
		userAgents:      userAgents,
		log:             logger.GetLogger().Component("source_client"),
		breakerFailures: cfg.BreakerFailures,
		breakerReset:    cfg.BreakerReset,
		breakers:        make(map[string]*breaker),
	}
}

// Get performs a GET for the named source and returns the UTF-8 body.
// Non-2xx responses and transport errors come back as *FetchError.
func (c *Client) Get(ctx context.Context, source, targetURL, accept string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}

	b := c.breakerFor(source)
	if !b.allow() {
		return nil, &FetchError{Source: source, Err: ErrCircuitOpen}
	}

	callerBound := false
	if d, ok := ctx.Deadline(); ok && d.Before(time.Now().Add(c.timeout)) {
		callerBound = true
	}

	body, err := c.do(ctx, source, targetURL, accept)
	if err != nil && cancelledByCaller(ctx, callerBound, err) {
		// the caller gave up; the source may be healthy
		return nil, err
	}
	b.record(err)
	return body, err
}

// cancelledByCaller reports whether err came from ctx ending rather than
// from the source.
func cancelledByCaller(ctx context.Context, callerBound bool, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return callerBound && (errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout))
}

func (c *Client) do(ctx context.Context, source, targetURL, accept string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(targetURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	c.setRequestHeaders(req, targetURL, accept)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, &FetchError{Source: source, Err: fmt.Errorf("request failed: %w", err)}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return nil, &FetchError{Source: source, Status: status, Err: ErrUnexpectedStatus}
	}

	var body []byte
	if strings.EqualFold(string(resp.Header.ContentEncoding()), "gzip") {
		decoded, err := resp.BodyGunzip()
		if err != nil {
			return nil, &FetchError{Source: source, Err: fmt.Errorf("failed to gunzip body: %w", err)}
		}
		body = decoded
	} else {
		body = append([]byte(nil), resp.Body()...)
	}

	body, err := toUTF8(body, string(resp.Header.ContentType()))
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}

	c.log.WithFields(map[string]interface{}{
		"source": source,
		"bytes":  len(body),
	}).Debug("Source responded")
	return body, nil
}

func (c *Client) setRequestHeaders(req *fasthttp.Request, targetURL, accept string) {
	req.Header.SetUserAgent(c.userAgents[hash(targetURL)%uint32(len(c.userAgents))])
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip")
}

func (c *Client) breakerFor(source string) *breaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.breakers[source]
	if !ok {
		b = newBreaker(c.breakerFailures, c.breakerReset)
		c.breakers[source] = b
	}
	return b
}

// toUTF8 converts bodies served with a legacy charset. Google Suggest answers
// in ISO-8859-1 for some locales.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}

	var enc encoding.Encoding
	switch strings.ToLower(params["charset"]) {
	case "iso-8859-1", "latin1":
		enc = charmap.ISO8859_1
	case "iso-8859-15":
		enc = charmap.ISO8859_15
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return body, nil
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s body: %w", params["charset"], err)
	}
	return decoded, nil
}

func hash(s string) uint32 {
	h := uint32(0)
	for _, c := range s {
		h = h*31 + uint32(c)
	}
	return h
}
