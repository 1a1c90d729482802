package guard

import (
	"context"
	"testing"

	"github.com/sistematransporte/transporte-go/auth"
)

type fakeSession struct {
	authenticated bool
	principal     *auth.Principal
	logouts       int
}

func (f *fakeSession) IsAuthenticated() bool             { return f.authenticated }
func (f *fakeSession) CurrentPrincipal() *auth.Principal { return f.principal }
func (f *fakeSession) Logout(ctx context.Context) error  { f.logouts++; return nil }

func operador() *auth.Principal {
	return &auth.Principal{
		ID:    "u-1",
		Email: "operador@transporte.com",
		Rol: &auth.Rol{
			Nombre:   auth.RoleOperador,
			Permisos: []string{auth.PermUsuariosLeer, auth.PermTarjetasLeer},
		},
	}
}

func TestCanActivateUnauthenticatedRedirectsToLogin(t *testing.T) {
	g := New(&fakeSession{authenticated: false})

	d := g.CanActivate(context.Background(), Route{
		Path:        "/usuarios",
		Permissions: []string{auth.PermUsuariosLeer},
	})

	if d.Allowed {
		t.Fatal("expected denial")
	}
	// Authentication is checked before authorization, so the anonymous
	// visitor lands on login, never on the unauthorized page.
	if d.Redirect != LoginPath {
		t.Errorf("Redirect = %q, want %q", d.Redirect, LoginPath)
	}
	if d.ReturnTo != "/usuarios" {
		t.Errorf("ReturnTo = %q, want %q", d.ReturnTo, "/usuarios")
	}
}

func TestCanActivateMissingPrincipalForcesLogout(t *testing.T) {
	sess := &fakeSession{authenticated: true, principal: nil}
	g := New(sess)

	d := g.CanActivate(context.Background(), Route{Path: "/dashboard"})

	if d.Allowed {
		t.Fatal("expected denial")
	}
	if d.Redirect != LoginPath {
		t.Errorf("Redirect = %q, want %q", d.Redirect, LoginPath)
	}
	if sess.logouts != 1 {
		t.Errorf("logouts = %d, want 1", sess.logouts)
	}
}

func TestCanActivateMissingPermissionRedirectsToUnauthorized(t *testing.T) {
	g := New(&fakeSession{authenticated: true, principal: operador()})

	d := g.CanActivate(context.Background(), Route{
		Path:        "/admin/roles",
		Permissions: []string{auth.PermAdminRoles},
	})

	if d.Allowed {
		t.Fatal("expected denial")
	}
	if d.Redirect != UnauthorizedPath {
		t.Errorf("Redirect = %q, want %q", d.Redirect, UnauthorizedPath)
	}
}

func TestCanActivateAnyPermissionSuffices(t *testing.T) {
	g := New(&fakeSession{authenticated: true, principal: operador()})

	d := g.CanActivate(context.Background(), Route{
		Path:        "/tarjetas",
		Permissions: []string{auth.PermAdminRoles, auth.PermTarjetasLeer},
	})

	if !d.Allowed {
		t.Errorf("expected entry, got redirect to %q", d.Redirect)
	}
}

func TestCanActivateRoleCheck(t *testing.T) {
	g := New(&fakeSession{authenticated: true, principal: operador()})

	d := g.CanActivate(context.Background(), Route{
		Path:  "/admin",
		Roles: []string{auth.RoleSuperAdmin, auth.RoleAdmin},
	})
	if d.Allowed {
		t.Fatal("expected denial")
	}
	if d.Redirect != UnauthorizedPath {
		t.Errorf("Redirect = %q, want %q", d.Redirect, UnauthorizedPath)
	}

	d = g.CanActivate(context.Background(), Route{
		Path:  "/operaciones",
		Roles: []string{auth.RoleOperador},
	})
	if !d.Allowed {
		t.Errorf("expected entry, got redirect to %q", d.Redirect)
	}
}

func TestCanActivateUnrestrictedRoute(t *testing.T) {
	g := New(&fakeSession{authenticated: true, principal: operador()})

	if d := g.CanActivate(context.Background(), Route{Path: "/dashboard"}); !d.Allowed {
		t.Errorf("expected entry, got redirect to %q", d.Redirect)
	}
}

func TestCanActivateCustomPaths(t *testing.T) {
	g := New(&fakeSession{},
		WithLoginPath("/ingresar"),
		WithUnauthorizedPath("/sin-acceso"),
	)

	if d := g.CanActivate(context.Background(), Route{Path: "/usuarios"}); d.Redirect != "/ingresar" {
		t.Errorf("Redirect = %q, want %q", d.Redirect, "/ingresar")
	}
}
