package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sistematransporte/transporte-go/auth"
)

func testPrincipal() *auth.Principal {
	return &auth.Principal{
		ID:     "4f7b2c10-0001-4d2a-9a63-000000000001",
		Nombre: "Ana",
		Email:  "ana@transporte.gov",
		Rol: &auth.Rol{
			ID:       1,
			Nombre:   auth.RoleAdmin,
			Permisos: []string{auth.PermUsuariosLeer, auth.PermUsuariosCrear},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	// Empty store loads as logged out.
	tokens, principal, err := fs.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tokens != (auth.Tokens{}) || principal != nil {
		t.Error("expected empty load from fresh store")
	}

	want := auth.Tokens{AccessToken: "T1", RefreshToken: "R1"}
	if err := fs.Save(ctx, want, testPrincipal()); err != nil {
		t.Fatal(err)
	}

	// Save is visible to a second store over the same file.
	fs2, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	tokens, principal, err = fs2.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tokens != want {
		t.Errorf("tokens mismatch: got %+v", tokens)
	}
	if principal == nil || principal.Email != "ana@transporte.gov" {
		t.Errorf("principal mismatch: %+v", principal)
	}
	if !principal.HasPermission(auth.PermUsuariosLeer) {
		t.Error("permissions not restored")
	}
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatal(err)
	}

	if err := fs.Save(ctx, auth.Tokens{AccessToken: "T1"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := fs.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	// Clearing an already-empty store is not an error.
	if err := fs.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	tokens, principal, err := fs.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tokens != (auth.Tokens{}) || principal != nil {
		t.Error("expected empty store after clear")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	if err := ms.Save(ctx, auth.Tokens{AccessToken: "T1", RefreshToken: "R1"}, testPrincipal()); err != nil {
		t.Fatal(err)
	}

	tokens, principal, err := ms.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tokens.AccessToken != "T1" || principal == nil {
		t.Errorf("unexpected load result: %+v %+v", tokens, principal)
	}

	if err := ms.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	tokens, principal, _ = ms.Load(ctx)
	if tokens != (auth.Tokens{}) || principal != nil {
		t.Error("expected empty store after clear")
	}
}
