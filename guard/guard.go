// Package guard gates navigation into protected destinations based on the
// current session.
package guard

import (
	"context"

	"github.com/sistematransporte/transporte-go/auth"
	"github.com/sistematransporte/transporte-go/log"
)

// Default redirect targets.
const (
	LoginPath        = "/auth/login"
	UnauthorizedPath = "/unauthorized"
)

// Session is the slice of the session service the guard consults.
type Session interface {
	IsAuthenticated() bool
	CurrentPrincipal() *auth.Principal
	Logout(ctx context.Context) error
}

// Route describes a navigation destination and its access requirements.
// Permissions are any-of: holding one of them is enough. Roles are matched
// against the principal's role name.
type Route struct {
	Path        string
	Permissions []string
	Roles       []string
}

// Decision is the outcome of a guard evaluation. When entry is denied,
// Redirect names where to send the user instead; ReturnTo preserves the
// originally requested destination for post-login return.
type Decision struct {
	Allowed  bool
	Redirect string
	ReturnTo string
}

// Guard evaluates route access. Checks run in a fixed order: authentication
// before authorization, so an anonymous visitor is sent to login rather than
// the unauthorized page.
type Guard struct {
	session          Session
	logger           *log.Logger
	loginPath        string
	unauthorizedPath string
}

// Option configures a Guard.
type Option func(*Guard)

// WithLoginPath overrides the login redirect target.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		g.loginPath = path
	}
}

// WithUnauthorizedPath overrides the unauthorized redirect target.
func WithUnauthorizedPath(path string) Option {
	return func(g *Guard) {
		g.unauthorizedPath = path
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *log.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// New creates a route guard backed by the given session.
func New(session Session, opts ...Option) *Guard {
	g := &Guard{
		session:          session,
		logger:           log.G,
		loginPath:        LoginPath,
		unauthorizedPath: UnauthorizedPath,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// CanActivate decides whether route may be entered.
func (g *Guard) CanActivate(ctx context.Context, route Route) Decision {
	if !g.session.IsAuthenticated() {
		g.logger.Debug().Str("path", route.Path).Msg("guard: unauthenticated, redirecting to login")
		return g.deny(g.loginPath, route.Path)
	}

	principal := g.session.CurrentPrincipal()
	if principal == nil {
		// A live token without a resolvable principal means storage and
		// memory disagree. Tear the session down and start over.
		if err := g.session.Logout(ctx); err != nil {
			g.logger.Error().Err(err).Msg("guard: forced logout failed")
		}
		g.logger.Warn().Str("path", route.Path).Msg("guard: principal unresolvable, session cleared")
		return g.deny(g.loginPath, route.Path)
	}

	if len(route.Permissions) > 0 && !hasAnyPermission(principal, route.Permissions) {
		g.logger.Debug().
			Str("path", route.Path).
			Str("user", principal.Email).
			Msg("guard: missing permission")
		return g.deny(g.unauthorizedPath, "")
	}

	if len(route.Roles) > 0 && !principal.HasRole(route.Roles...) {
		g.logger.Debug().
			Str("path", route.Path).
			Str("user", principal.Email).
			Msg("guard: role not allowed")
		return g.deny(g.unauthorizedPath, "")
	}

	return Decision{Allowed: true}
}

func (g *Guard) deny(redirect, returnTo string) Decision {
	return Decision{Redirect: redirect, ReturnTo: returnTo}
}

func hasAnyPermission(p *auth.Principal, permissions []string) bool {
	for _, perm := range permissions {
		if p.HasPermission(perm) {
			return true
		}
	}
	return false
}
