package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/sistematransporte/transporte-go/log"
	"github.com/sistematransporte/transporte-go/transport/http/metrics"
)

// DefaultRefreshTimeout bounds the background token refresh so an expired
// session cannot hang every queued request indefinitely.
const DefaultRefreshTimeout = 15 * time.Second

// refreshCall marks the context of requests issued from inside the shared
// refresh. A 401 on such a request must never re-enter the refresh: the
// singleflight key is already held, so a nested attempt would wait on itself.
type refreshCall struct{}

// Transport is an http.RoundTripper that attaches the bearer token to
// non-public requests and transparently recovers from 401 responses by
// refreshing the token once and replaying the request.
//
// Concurrent 401s share a single refresh: the first caller performs it, the
// rest wait for its result. The refresh runs on a context detached from the
// triggering request, so one canceled caller cannot abort a refresh other
// callers are waiting on.
type Transport struct {
	base           http.RoundTripper
	token          func() string
	refresh        func(ctx context.Context) (string, error)
	onForbidden    func(*http.Request)
	public         *PathMatcher
	refreshTimeout time.Duration
	logger         *log.Logger
	metrics        *metrics.Metrics

	group singleflight.Group
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithBase sets the underlying round tripper.
func WithBase(rt http.RoundTripper) TransportOption {
	return func(t *Transport) {
		if rt != nil {
			t.base = rt
		}
	}
}

// WithTokenSource sets the function that supplies the current access token.
// An empty return means no Authorization header is attached.
func WithTokenSource(fn func() string) TransportOption {
	return func(t *Transport) {
		t.token = fn
	}
}

// WithRefreshFunc sets the function invoked to refresh the token after a 401.
// It must return the new access token. Without it 401 responses pass through.
func WithRefreshFunc(fn func(ctx context.Context) (string, error)) TransportOption {
	return func(t *Transport) {
		t.refresh = fn
	}
}

// WithOnForbidden sets a hook invoked when the backend answers 403.
func WithOnForbidden(fn func(*http.Request)) TransportOption {
	return func(t *Transport) {
		t.onForbidden = fn
	}
}

// WithPublicPaths replaces the public path rules. Public requests carry no
// bearer token and never trigger a refresh.
func WithPublicPaths(paths []string) TransportOption {
	return func(t *Transport) {
		t.public = NewPathMatcher(paths)
	}
}

// WithRefreshTimeout bounds the detached refresh call.
func WithRefreshTimeout(d time.Duration) TransportOption {
	return func(t *Transport) {
		if d > 0 {
			t.refreshTimeout = d
		}
	}
}

// WithTransportLogger sets a custom logger.
func WithTransportLogger(logger *log.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) TransportOption {
	return func(t *Transport) {
		t.metrics = m
	}
}

// NewTransport creates the auth round tripper.
func NewTransport(opts ...TransportOption) *Transport {
	t := &Transport{
		base:           http.DefaultTransport,
		public:         NewPathMatcher(DefaultPublicPaths()),
		refreshTimeout: DefaultRefreshTimeout,
		logger:         log.G,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// RoundTrip implements http.RoundTripper. The incoming request is never
// modified; all header work happens on a clone.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	t.decorate(out)

	public := t.public.Match(out.URL.Path)
	if !public && t.token != nil {
		if token := t.token(); token != "" {
			out.Header.Set(HeaderAuthorization, "Bearer "+token)
		}
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	t.metrics.RecordRequest(out.Method, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized && !public && t.refresh != nil &&
		req.Context().Value(refreshCall{}) == nil:
		return t.retryWithRefresh(out, resp)
	case resp.StatusCode == http.StatusForbidden:
		if t.onForbidden != nil {
			t.onForbidden(req)
		}
	case resp.StatusCode >= 500:
		t.logger.Warn().
			Int("status", resp.StatusCode).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("transport: backend server error")
	}

	return resp, nil
}

// decorate applies the default headers. The request ID is preserved across a
// replay because the retry is cloned from the already decorated request.
func (t *Transport) decorate(req *http.Request) {
	if req.Body != nil && req.Header.Get(HeaderContentType) == "" {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}
	if req.Header.Get(HeaderAccept) == "" {
		req.Header.Set(HeaderAccept, ContentTypeJSON)
	}
	req.Header.Set(HeaderRequestedWith, "XMLHttpRequest")
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
}

// retryWithRefresh refreshes the token and replays sent with it. Whenever the
// replay is impossible or the refresh fails, the original 401 response is
// returned untouched so the caller sees the real outcome.
func (t *Transport) retryWithRefresh(sent *http.Request, resp *http.Response) (*http.Response, error) {
	// A consumed body that cannot be rebuilt rules out a replay.
	if sent.Body != nil && sent.GetBody == nil {
		return resp, nil
	}

	token, err := t.refreshToken(sent.Context())
	if err != nil {
		t.logger.Warn().Err(err).Str("path", sent.URL.Path).Msg("transport: token refresh failed")
		return resp, nil
	}

	retry := sent.Clone(sent.Context())
	if sent.GetBody != nil {
		body, berr := sent.GetBody()
		if berr != nil {
			return resp, nil
		}
		retry.Body = body
	}
	retry.Header.Set(HeaderAuthorization, "Bearer "+token)

	drainBody(resp)
	t.metrics.RecordReplay()
	t.logger.Debug().Str("path", retry.URL.Path).Msg("transport: replaying request after refresh")

	replayed, err := t.base.RoundTrip(retry)
	if err != nil {
		return nil, err
	}
	t.metrics.RecordRequest(retry.Method, replayed.StatusCode)
	return replayed, nil
}

// refreshToken performs the shared refresh. The singleflight group collapses
// concurrent 401s into one backend call; the detached context keeps the
// refresh alive even if the triggering request is canceled, bounded by the
// refresh timeout.
func (t *Transport) refreshToken(ctx context.Context) (string, error) {
	v, err, _ := t.group.Do("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.refreshTimeout)
		defer cancel()
		rctx = context.WithValue(rctx, refreshCall{}, struct{}{})

		token, err := t.refresh(rctx)
		t.metrics.RecordRefresh(err == nil)
		if err != nil {
			return nil, err
		}
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// drainBody discards and closes a response body so the connection can be
// reused.
func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBufferSize))
	resp.Body.Close()
}
