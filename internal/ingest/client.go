// Package ingest performs the authenticated POST to the LogDNA ingestion
// endpoint. One event, one request: there is no batching, buffering or
// retry here by design.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/logdna/ansible-logdna/internal/model"
)

const (
	clientName    = "ansible-logdna"
	clientVersion = "2.0"

	defaultTimeout = 5 * time.Second
)

// DeliveryError represents a non-2xx response from the ingestion API.
type DeliveryError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("ingest: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTags sets the tag list sent as the tags query parameter.
func WithTags(tags []string) Option {
	return func(c *Client) { c.tags = strings.Join(tags, ",") }
}

// WithGzip enables gzip compression of the request body.
func WithGzip(enabled bool) Option {
	return func(c *Client) { c.gzip = enabled }
}

// Client ships single-line payloads to one ingestion endpoint. TLS
// certificate validation uses the default transport and is never disabled.
type Client struct {
	baseURL    string // scheme://host/endpoint, no query
	key        string // ingestion key, doubles as the basic-auth username
	tags       string
	gzip       bool
	httpClient *http.Client
}

// New creates a Client for the given ingestion URL and key.
func New(baseURL, key string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		key:        key,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send serializes one line and POSTs it. hostname and now become query
// parameters; the body is the JSON payload with keys sorted. Network
// errors, TLS failures and non-2xx responses are returned to the caller
// as a single synchronous failure with nothing buffered.
func (c *Client) Send(ctx context.Context, hostname string, now time.Time, line model.Line) error {
	body, err := json.Marshal(model.Payload{Lines: []model.Line{line}})
	if err != nil {
		return fmt.Errorf("ingest: marshal: %w", err)
	}

	q := url.Values{}
	q.Set("hostname", hostname)
	q.Set("now", strconv.FormatInt(now.Unix(), 10))
	if c.tags != "" {
		q.Set("tags", c.tags)
	}

	var reader io.Reader = bytes.NewReader(body)
	if c.gzip {
		compressed, err := gzipBody(body)
		if err != nil {
			return fmt.Errorf("ingest: gzip: %w", err)
		}
		reader = bytes.NewReader(compressed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?"+q.Encode(), reader)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	req.SetBasicAuth(c.key, "")
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("User-Agent", clientName+"/"+clientVersion)
	if c.gzip {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &DeliveryError{StatusCode: resp.StatusCode, Body: string(respBody)}
}

func gzipBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := gz.Write(body); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
