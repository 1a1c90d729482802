package auth

import (
	"context"
	"sync"
	"time"

	"github.com/sistematransporte/transporte-go/log"
	thttp "github.com/sistematransporte/transporte-go/transport/http"
)

// Credentials are the login form fields sent to the backend.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Endpoints are the backend auth paths, relative to the base URL.
type Endpoints struct {
	Login          string
	Logout         string
	Refresh        string
	ChangePassword string
	ForgotPassword string
	ResetPassword  string
}

// DefaultEndpoints returns the backend's auth endpoint table.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:          "api/auth/login",
		Logout:         "api/auth/logout",
		Refresh:        "api/auth/refresh-token",
		ChangePassword: "api/auth/change-password",
		ForgotPassword: "api/auth/forgot-password",
		ResetPassword:  "api/auth/reset-password",
	}
}

// sessionResponse is the body of successful login and refresh calls.
type sessionResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         *Principal `json:"user"`
	ExpiresIn    int64      `json:"expiresIn"`
}

// Service owns the session: login, logout, refresh, authorization predicates
// and principal change notification. All mutable state lives behind a mutex;
// instances are safe for concurrent use.
type Service struct {
	store     Store
	client    thttp.Clienter
	baseURL   string
	endpoints Endpoints
	logger    *log.Logger
	now       func() time.Time

	mu        sync.RWMutex
	tokens    Tokens
	principal *Principal

	subMu   sync.Mutex
	subs    map[int]func(*Principal)
	nextSub int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets a custom logger.
func WithLogger(logger *log.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEndpoints overrides the backend auth endpoint table.
func WithEndpoints(e Endpoints) ServiceOption {
	return func(s *Service) {
		s.endpoints = e
	}
}

// WithClock sets the time source used for token expiry checks.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a session service backed by the given store and HTTP
// client. It hydrates from the store: a stored, unexpired token restores the
// session; anything else clears the store so memory and storage stay
// consistent.
func NewService(store Store, client thttp.Clienter, baseURL string, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		store:     store,
		client:    client,
		baseURL:   baseURL,
		endpoints: DefaultEndpoints(),
		logger:    log.G,
		now:       time.Now,
		subs:      make(map[int]func(*Principal)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.hydrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// hydrate restores the session from durable storage.
func (s *Service) hydrate(ctx context.Context) error {
	tokens, principal, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	if principal != nil && tokenValid(tokens.AccessToken, s.now()) {
		s.mu.Lock()
		s.tokens = tokens
		s.principal = principal
		s.mu.Unlock()
		s.logger.Debug().Str("user", principal.Email).Msg("auth: session restored from storage")
		return nil
	}

	// Stale or inconsistent state: never keep a principal without a live token.
	if tokens != (Tokens{}) || principal != nil {
		if err := s.store.Clear(ctx); err != nil {
			return err
		}
		s.logger.Debug().Msg("auth: stale session cleared during hydration")
	}

	return nil
}

// Login authenticates against the backend, persists the returned session and
// publishes the new principal. Backend errors propagate untouched.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Principal, error) {
	var resp sessionResponse
	_, err := s.client.Request(thttp.MethodPost, s.url(s.endpoints.Login), creds,
		thttp.WithContext(ctx), thttp.WithResponse(&resp))
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, ErrMissingAccessToken
	}

	if err := s.setSession(ctx, resp); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", resp.User.Email).Msg("auth: login succeeded")
	return resp.User, nil
}

// Logout notifies the backend (best effort, failures only logged), then
// unconditionally clears the session and publishes an absent principal. It is
// idempotent: logging out while logged out still clears and publishes once.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.tokens.RefreshToken
	s.mu.RUnlock()

	if refreshToken != "" {
		_, err := s.client.Request(thttp.MethodPost, s.url(s.endpoints.Logout),
			map[string]string{"refreshToken": refreshToken}, thttp.WithContext(ctx))
		if err != nil {
			s.logger.Warn().Err(err).Msg("auth: backend logout failed")
		}
	}

	return s.clearSession(ctx)
}

// Refresh exchanges the stored refresh token for a new session. With no
// refresh token stored it fails immediately with ErrNoRefreshToken. A backend
// failure is unrecoverable: the session is cleared and the user must
// re-authenticate.
func (s *Service) Refresh(ctx context.Context) (*Principal, error) {
	s.mu.RLock()
	refreshToken := s.tokens.RefreshToken
	s.mu.RUnlock()

	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	var resp sessionResponse
	_, err := s.client.Request(thttp.MethodPost, s.url(s.endpoints.Refresh),
		map[string]string{"refreshToken": refreshToken},
		thttp.WithContext(ctx), thttp.WithResponse(&resp))
	if err != nil {
		s.logger.Warn().Err(err).Msg("auth: refresh failed, clearing session")
		if cerr := s.clearSession(ctx); cerr != nil {
			s.logger.Error().Err(cerr).Msg("auth: failed to clear session after refresh failure")
		}
		return nil, err
	}
	if resp.AccessToken == "" || resp.User == nil {
		if cerr := s.clearSession(ctx); cerr != nil {
			s.logger.Error().Err(cerr).Msg("auth: failed to clear session after refresh failure")
		}
		return nil, ErrMissingAccessToken
	}

	if err := s.setSession(ctx, resp); err != nil {
		return nil, err
	}

	s.logger.Debug().Msg("auth: token refreshed")
	return resp.User, nil
}

// IsAuthenticated reports whether an unexpired access token is held. A
// malformed token reads as not authenticated, never as an error.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	token := s.tokens.AccessToken
	s.mu.RUnlock()

	return tokenValid(token, s.now())
}

// CurrentPrincipal returns the in-memory principal, nil when logged out.
func (s *Service) CurrentPrincipal() *Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal
}

// AccessToken returns the current access token, empty when logged out.
func (s *Service) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

// HasPermission reports whether the current principal holds the permission.
func (s *Service) HasPermission(permission string) bool {
	return s.CurrentPrincipal().HasPermission(permission)
}

// HasRole reports whether the current principal's role is among names.
func (s *Service) HasRole(names ...string) bool {
	return s.CurrentPrincipal().HasRole(names...)
}

// Subscribe registers a callback invoked synchronously, exactly once per
// session transition (login, logout, refresh), with the new principal or nil.
// The returned function cancels the subscription.
func (s *Service) Subscribe(fn func(*Principal)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// ChangePassword updates the authenticated user's password.
func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	_, err := s.client.Request(thttp.MethodPost, s.url(s.endpoints.ChangePassword),
		map[string]string{"currentPassword": currentPassword, "newPassword": newPassword},
		thttp.WithContext(ctx))
	return err
}

// ForgotPassword requests a password reset email.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	_, err := s.client.Request(thttp.MethodPost, s.url(s.endpoints.ForgotPassword),
		map[string]string{"email": email}, thttp.WithContext(ctx))
	return err
}

// ResetPassword completes a password reset with the emailed token.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := s.client.Request(thttp.MethodPost, s.url(s.endpoints.ResetPassword),
		map[string]string{"token": token, "newPassword": newPassword},
		thttp.WithContext(ctx))
	return err
}

func (s *Service) url(endpoint string) string {
	return thttp.JoinURL(s.baseURL, endpoint)
}

// setSession stores the new session durably, adopts it in memory and
// publishes the principal.
func (s *Service) setSession(ctx context.Context, resp sessionResponse) error {
	tokens := Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := s.store.Save(ctx, tokens, resp.User); err != nil {
		return err
	}

	s.mu.Lock()
	s.tokens = tokens
	s.principal = resp.User
	s.mu.Unlock()

	s.publish(resp.User)
	return nil
}

// clearSession wipes storage and memory and publishes an absent principal.
func (s *Service) clearSession(ctx context.Context) error {
	err := s.store.Clear(ctx)

	s.mu.Lock()
	s.tokens = Tokens{}
	s.principal = nil
	s.mu.Unlock()

	s.publish(nil)
	return err
}

// publish delivers the principal to subscribers on the calling goroutine.
func (s *Service) publish(principal *Principal) {
	s.subMu.Lock()
	subs := make([]func(*Principal), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(principal)
	}
}
