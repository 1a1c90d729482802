package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/url"
	"sync"

	"github.com/sistematransporte/transporte-go/errors"
)

const (
	// Buffer pool constants
	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024 // 1MB
)

// Client represents an HTTP client with connection pooling and request optimization
type Client struct {
	client         *http.Client
	requestOptPool sync.Pool
	bufferPool     sync.Pool
}

// Option configures the HTTP client
type Option func(*Client)

// WithClient sets a custom HTTP client
func WithClient(client *http.Client) Option {
	return func(h *Client) {
		h.client = client
	}
}

// New creates a new optimized HTTP client with object pooling
func New(opts ...Option) *Client {
	h := &Client{
		client: &http.Client{},
		requestOptPool: sync.Pool{
			New: func() any {
				return &RequestOption{
					header: make(map[string]string, 8), // Pre-allocate with reasonable capacity
					query:  make(map[string]string, 8),
				}
			},
		},
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// RequestOption holds options for individual HTTP requests
type RequestOption struct {
	ctx      context.Context
	header   map[string]string
	query    map[string]string
	response any
}

// WithContext sets a custom context for the request
func WithContext(ctx context.Context) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.ctx = ctx
	}
}

// WithHeader sets multiple headers for the request
func WithHeader(header map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		maps.Copy(opt.header, header)
	}
}

// WithQuery sets query parameters appended to the request URL
func WithQuery(query map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		maps.Copy(opt.query, query)
	}
}

// WithResponse sets the response target object for automatic unmarshaling
func WithResponse(response any) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.response = response
	}
}

// reset efficiently resets the RequestOption for reuse
func (opt *RequestOption) reset() {
	opt.ctx = nil
	// Clear maps efficiently by reusing the underlying storage
	for k := range opt.header {
		delete(opt.header, k)
	}
	for k := range opt.query {
		delete(opt.query, k)
	}
	// Set default content type
	opt.header[HeaderContentType] = ContentTypeJSON
	opt.response = nil
}

// Request sends an HTTP request with the specified method, URL, and body.
// Non-2xx responses are returned as coded errors carrying the backend's
// status and message. GET requests are retried once on transport failure.
// The response body is consumed before returning; use WithResponse to
// capture it.
func (cli *Client) Request(method, rawURL string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	// Get and configure request options
	opt := cli.getRequestOption()
	defer cli.putRequestOption(opt)

	// Apply request options
	for _, o := range opts {
		o(opt)
	}

	if len(opt.query) > 0 {
		rawURL = appendQuery(rawURL, opt.query)
	}

	resp, err := cli.do(method, rawURL, body, opt)
	if err != nil && method == MethodGet && !isStatusError(err) {
		// Transient transport failure on an idempotent request: retry once.
		resp, err = cli.do(method, rawURL, body, opt)
	}
	if err != nil {
		return nil, err
	}

	// Process response
	return cli.processResponse(resp, opt.response)
}

// do executes a single request attempt.
func (cli *Client) do(method, rawURL string, body any, opt *RequestOption) (*http.Response, error) {
	req, err := cli.createRequest(method, rawURL, body)
	if err != nil {
		return nil, err
	}

	// Set headers and context
	cli.setRequestHeaders(req, opt.header)
	if opt.ctx != nil {
		req = req.WithContext(opt.ctx)
	}

	resp, err := cli.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	return resp, nil
}

// getRequestOption retrieves a RequestOption from the pool
func (cli *Client) getRequestOption() *RequestOption {
	opt := cli.requestOptPool.Get().(*RequestOption)
	opt.reset()
	return opt
}

// putRequestOption returns a RequestOption to the pool
func (cli *Client) putRequestOption(opt *RequestOption) {
	cli.requestOptPool.Put(opt)
}

// createRequest creates an HTTP request with the appropriate body
func (cli *Client) createRequest(method, url string, body any) (*http.Request, error) {
	switch v := body.(type) {
	case nil:
		return http.NewRequest(method, url, nil)
	case io.Reader:
		return http.NewRequest(method, url, v)
	default:
		return cli.createJSONRequest(method, url, v)
	}
}

// createJSONRequest creates an HTTP request with JSON body
func (cli *Client) createJSONRequest(method, url string, body any) (*http.Request, error) {
	buf := cli.getBuffer()
	defer cli.putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, err
	}

	// The request body and its GetBody outlive this call, so the bytes must
	// not alias the pooled buffer once it is recycled.
	payload := bytes.Clone(buf.Bytes())
	return http.NewRequest(method, url, bytes.NewReader(payload))
}

// setRequestHeaders sets headers on the HTTP request
func (cli *Client) setRequestHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// getBuffer retrieves a buffer from the pool
func (cli *Client) getBuffer() *bytes.Buffer {
	buf := cli.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool, with size check to prevent memory leaks
func (cli *Client) putBuffer(buf *bytes.Buffer) {
	// Prevent very large buffers from being pooled to avoid memory leaks
	if buf.Cap() <= maxBufferSize {
		cli.bufferPool.Put(buf)
	}
}

// processResponse consumes the response body, decoding into dest when one
// was requested. The body is always closed so connections get reused.
func (cli *Client) processResponse(resp *http.Response, dest any) (*http.Response, error) {
	defer resp.Body.Close()

	if dest == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBufferSize))
		return resp, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return nil, err
	}

	return resp, nil
}

// errorBody covers both error shapes the backend emits.
type errorBody struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

// decodeError maps a non-2xx response to a coded error, consuming the body.
func decodeError(resp *http.Response) error {
	defer resp.Body.Close()

	var body errorBody
	msg := http.StatusText(resp.StatusCode)
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBufferSize)).Decode(&body); err == nil {
		switch {
		case body.Message != "":
			msg = body.Message
		case len(body.Detail) > 0:
			var detail string
			if json.Unmarshal(body.Detail, &detail) == nil && detail != "" {
				msg = detail
			}
		}
	}

	return errors.New(resp.StatusCode, "%s", msg)
}

// isStatusError reports whether err came from a backend response rather than
// the transport itself.
func isStatusError(err error) bool {
	var te *errors.Error
	return errors.As(err, &te)
}

// appendQuery appends query parameters to a raw URL.
func appendQuery(rawURL string, query map[string]string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Convenience methods for common HTTP operations

// Get performs a GET request
func (cli *Client) Get(url string, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodGet, url, nil, opts...)
}

// Post performs a POST request with JSON body
func (cli *Client) Post(url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodPost, url, body, opts...)
}

// Put performs a PUT request with JSON body
func (cli *Client) Put(url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodPut, url, body, opts...)
}

// Delete performs a DELETE request
func (cli *Client) Delete(url string, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodDelete, url, nil, opts...)
}

// Patch performs a PATCH request with JSON body
func (cli *Client) Patch(url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return cli.Request(MethodPatch, url, body, opts...)
}
