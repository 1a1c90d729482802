package http

import "testing"

func TestPathMatcher(t *testing.T) {
	pm := NewPathMatcher([]string{
		"/health",
		"/api/public/**",
		"/api/*/docs",
		"**/auth/login",
	})

	tests := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/health/live", false},
		{"/api/public", true},
		{"/api/public/anything/nested", true},
		{"/api/publicize", false},
		{"/api/v1/docs", true},
		{"/api/v1/v2/docs", false},
		{"/api/auth/login", true},
		{"/backend/v2/api/auth/login", true},
		{"/api/auth/logout", false},
	}

	for _, tt := range tests {
		if got := pm.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPathMatcherNil(t *testing.T) {
	var pm *PathMatcher
	if pm.Match("/anything") {
		t.Error("nil matcher should match nothing")
	}
}

func TestDefaultPublicPaths(t *testing.T) {
	pm := NewPathMatcher(DefaultPublicPaths())

	public := []string{
		"/api/auth/login",
		"/api/auth/refresh-token",
		"/api/auth/forgot-password",
		"/api/auth/reset-password",
		"/health",
		// Rules are substring matches, so a mounted base path changes nothing.
		"/backend/api/auth/login",
		"/transporte/v1/api/auth/refresh-token",
	}
	for _, p := range public {
		if !pm.Match(p) {
			t.Errorf("expected %q to be public", p)
		}
	}

	private := []string{
		"/api/auth/logout",
		"/api/auth/change-password",
		"/api/usuarios",
		"/api/tarjetas/123",
	}
	for _, p := range private {
		if pm.Match(p) {
			t.Errorf("expected %q to be private", p)
		}
	}
}
