package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mint(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return signed
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := mint(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := TokenExpiry(token)
	if err != nil {
		t.Fatalf("TokenExpiry() error = %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}
}

func TestTokenExpiryMissingClaim(t *testing.T) {
	token := mint(t, jwt.RegisteredClaims{Subject: "u-1"})
	if _, err := TokenExpiry(token); err == nil {
		t.Fatal("expected error for token without exp")
	}
}

func TestTokenExpiryMalformed(t *testing.T) {
	if _, err := TokenExpiry("not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestTokenValid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "future expiry",
			token: mint(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}),
			want:  true,
		},
		{
			name:  "past expiry",
			token: mint(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Second))}),
			want:  false,
		},
		{
			name:  "no exp claim",
			token: mint(t, jwt.RegisteredClaims{Subject: "u-1"}),
			want:  false,
		},
		{
			name:  "garbage",
			token: "garbage",
			want:  false,
		},
		{
			name:  "empty",
			token: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenValid(tt.token, now); got != tt.want {
				t.Errorf("tokenValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
