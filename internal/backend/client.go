// Package backend is the single HTTP client used to talk to the letter
// management REST API. The bearer token always travels in the request
// context; there is no second, unauthenticated client configuration.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxErrorBody = 16 << 10

// Observer receives timing for every backend round trip.
type Observer interface {
	ObserveBackend(method string, status int, elapsed time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RPS throttles outgoing calls; zero disables throttling.
	RPS        float64
	HTTPClient *http.Client
	Observer   Observer
	Logger     *slog.Logger
}

// Client wraps the REST backend.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   Observer
	logger     *slog.Logger
}

// NewClient constructs a Client.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend: base url %q must be absolute", opts.BaseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var limiter *rate.Limiter
	if opts.RPS > 0 {
		burst := int(opts.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{base: base, httpClient: httpClient, limiter: limiter, observer: opts.Observer, logger: logger}, nil
}

// ResolveURL builds an absolute backend URL for path and query.
func (c *Client) ResolveURL(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// SameOrigin reports whether raw points at the configured backend. Cursor
// URLs handed back by the API are only followed when it does.
func (c *Client) SameOrigin(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return false
	}
	return strings.EqualFold(u.Scheme, c.base.Scheme) && strings.EqualFold(u.Host, c.base.Host)
}

// List fetches one page of a collection.
func (c *Client) List(ctx context.Context, path string, query url.Values) (Page, error) {
	return c.listURL(ctx, c.ResolveURL(path, query))
}

// ListURL follows an opaque next/previous URL returned by the backend.
func (c *Client) ListURL(ctx context.Context, raw string) (Page, error) {
	if !c.SameOrigin(raw) {
		return Page{}, fmt.Errorf("backend: refusing cursor url outside backend origin")
	}
	return c.listURL(ctx, raw)
}

// All fetches a non-paginated collection such as /all-active/.
func (c *Client) All(ctx context.Context, path string, query url.Values) ([]Record, error) {
	page, err := c.List(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) listURL(ctx context.Context, target string) (Page, error) {
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Page{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	return decodePage(resp.Body)
}

// Get fetches a single record, unwrapping {data: {...}} when present.
func (c *Client) Get(ctx context.Context, path string) (Record, error) {
	resp, err := c.do(ctx, http.MethodGet, c.ResolveURL(path, nil), nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	return decodeRecord(resp.Body)
}

// Create POSTs payload and returns the created record.
func (c *Client) Create(ctx context.Context, path string, payload any) (Record, error) {
	return c.send(ctx, http.MethodPost, path, payload)
}

// Update PUTs payload and returns the stored record.
func (c *Client) Update(ctx context.Context, path string, payload any) (Record, error) {
	return c.send(ctx, http.MethodPut, path, payload)
}

// Post issues a POST whose response body is not needed.
func (c *Client) Post(ctx context.Context, path string, payload any) error {
	_, err := c.send(ctx, http.MethodPost, path, payload)
	return err
}

// PostJSON issues a POST and decodes the response into dest.
func (c *Client) PostJSON(ctx context.Context, path string, payload any, dest any) error {
	body, err := encodeBody(payload)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, c.ResolveURL(path, nil), body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return json.NewDecoder(resp.Body).Decode(dest)
}

// GetJSON issues a GET and decodes the response into dest.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	resp, err := c.do(ctx, http.MethodGet, c.ResolveURL(path, query), nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Blob is a downloaded export file.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Download fetches a binary export.
func (c *Client) Download(ctx context.Context, path string, query url.Values) (Blob, error) {
	resp, err := c.do(ctx, http.MethodGet, c.ResolveURL(path, query), nil)
	if err != nil {
		return Blob{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Blob{}, fmt.Errorf("backend: read export: %w", err)
	}
	blob := Blob{Data: data, ContentType: resp.Header.Get("Content-Type")}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			blob.Filename = params["filename"]
		}
	}
	return blob, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) (Record, error) {
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, method, c.ResolveURL(path, nil), body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNoContent {
		return Record{}, nil
	}
	rec, err := decodeRecord(resp.Body)
	if errors.Is(err, io.EOF) {
		return Record{}, nil
	}
	return rec, err
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if c.observer != nil {
		c.observer.ObserveBackend(method, status, time.Since(start))
	}
	if err != nil {
		c.logger.Warn("backend request failed", slog.String("method", method), slog.String("url", target), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func encodeBody(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("backend: encode payload: %w", err)
	}
	return data, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(raw) == 0 {
		return apiErr
	}
	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return apiErr
	}
	for _, key := range []string{"detail", "message"} {
		if s, ok := envelope[key].(string); ok && s != "" {
			apiErr.Message = s
			return apiErr
		}
	}
	fields := make(map[string]string)
	for key, value := range envelope {
		switch v := value.(type) {
		case string:
			fields[key] = v
		case []any:
			if len(v) > 0 {
				fields[key] = stringify(v[0])
			}
		}
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
	}
	return apiErr
}

type pageEnvelope struct {
	Data     json.RawMessage `json:"data"`
	Count    json.RawMessage `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
}

func decodePage(r io.Reader) (Page, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Page{}, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		items, err := decodeRecords(trimmed)
		if err != nil {
			return Page{}, err
		}
		return Page{Items: items, Count: len(items)}, nil
	}
	var env pageEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Page{}, fmt.Errorf("backend: decode page: %w", err)
	}
	var items []Record
	if len(env.Data) > 0 && string(env.Data) != "null" {
		items, err = decodeRecords(env.Data)
		if err != nil {
			return Page{}, err
		}
	}
	page := Page{Items: items, Count: len(items)}
	if len(env.Count) > 0 {
		if n, err := strconv.Atoi(strings.Trim(string(env.Count), `"`)); err == nil {
			page.Count = n
		}
	}
	if env.Next != nil {
		page.Next = *env.Next
	}
	if env.Previous != nil {
		page.Previous = *env.Previous
	}
	return page, nil
}

func decodeRecords(raw []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []Record
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("backend: decode records: %w", err)
	}
	return items, nil
}

func decodeRecord(r io.Reader) (Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, fmt.Errorf("backend: decode record: %w", err)
	}
	if inner, ok := rec["data"].(map[string]any); ok {
		return Record(inner), nil
	}
	return rec, nil
}
