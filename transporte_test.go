package transporte

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sistematransporte/transporte-go/api"
	"github.com/sistematransporte/transporte-go/auth"
	authstore "github.com/sistematransporte/transporte-go/auth/store"
	"github.com/sistematransporte/transporte-go/guard"
)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return signed
}

func sessionBody(token string) map[string]any {
	return map[string]any{
		"accessToken":  token,
		"refreshToken": "r-1",
		"expiresIn":    3600,
		"user": map[string]any{
			"id_usuario": "u-1",
			"email":      "admin@transporte.com",
			"nombre":     "Admin",
			"rol": map[string]any{
				"id":       1,
				"nombre":   auth.RoleAdmin,
				"permisos": []string{auth.PermUsuariosLeer},
			},
		},
	}
}

func TestClientLoginAndList(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}
		json.NewEncoder(w).Encode(sessionBody(token))
	})
	mux.HandleFunc("/api/usuarios", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `[{"id_usuario": "u-1", "email": "admin@transporte.com"}]`)
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()

	cfg := DefaultConfig(backend.URL)
	c, err := New(cfg, WithStore(authstore.NewMemoryStore()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	if c.Auth.IsAuthenticated() {
		t.Fatal("fresh client must start logged out")
	}

	principal, err := c.Auth.Login(context.Background(), auth.Credentials{
		Email:    "admin@transporte.com",
		Password: "secreta",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !principal.HasPermission(auth.PermUsuariosLeer) {
		t.Error("principal permissions not adopted from login response")
	}
	if !c.Auth.IsAuthenticated() {
		t.Fatal("expected authenticated session after login")
	}

	usuarios, err := c.API.Usuarios.List(context.Background(), api.UsuarioFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(usuarios) != 1 || usuarios[0].Email != "admin@transporte.com" {
		t.Errorf("usuarios = %+v", usuarios)
	}
}

func TestClientRefreshOn401(t *testing.T) {
	stale := mintToken(t, time.Now().Add(time.Hour))
	fresh := mintToken(t, time.Now().Add(2*time.Hour))

	var refreshes int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sessionBody(stale))
	})
	mux.HandleFunc("/api/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshes, 1)
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)
		if in["refreshToken"] != "r-1" {
			t.Errorf("refreshToken = %q", in["refreshToken"])
		}
		json.NewEncoder(w).Encode(sessionBody(fresh))
	})
	mux.HandleFunc("/api/usuarios", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fresh {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `[]`)
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()

	c, err := New(DefaultConfig(backend.URL), WithStore(authstore.NewMemoryStore()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	if _, err := c.Auth.Login(context.Background(), auth.Credentials{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// The stale token triggers a 401, a transparent refresh and a replay.
	if _, err := c.API.Usuarios.List(context.Background(), api.UsuarioFilter{}); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if n := atomic.LoadInt32(&refreshes); n != 1 {
		t.Errorf("refreshes = %d, want 1", n)
	}
	if got := c.Auth.AccessToken(); got != fresh {
		t.Errorf("access token not rotated after refresh")
	}
}

func TestClientGuardIntegration(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sessionBody(token))
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()

	c, err := New(DefaultConfig(backend.URL), WithStore(authstore.NewMemoryStore()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	d := c.Guard.CanActivate(context.Background(), guard.Route{Path: "/usuarios"})
	if d.Allowed {
		t.Fatal("logged-out navigation must be denied")
	}
	if d.Redirect != guard.LoginPath {
		t.Errorf("Redirect = %q, want %q", d.Redirect, guard.LoginPath)
	}

	if _, err := c.Auth.Login(context.Background(), auth.Credentials{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	d = c.Guard.CanActivate(context.Background(), guard.Route{
		Path:        "/usuarios",
		Permissions: []string{auth.PermUsuariosLeer},
	})
	if !d.Allowed {
		t.Errorf("expected entry after login, got redirect to %q", d.Redirect)
	}

	d = c.Guard.CanActivate(context.Background(), guard.Route{
		Path:        "/admin/roles",
		Permissions: []string{auth.PermAdminRoles},
	})
	if d.Allowed || d.Redirect != guard.UnauthorizedPath {
		t.Errorf("decision = %+v, want unauthorized redirect", d)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected validation error for empty config")
	}
	if _, err := New(Config{BaseURL: "not a url"}); err == nil {
		t.Fatal("expected validation error for malformed base url")
	}
}
