package auth

import "context"

// Storage keys shared by all Store implementations.
const (
	KeyAccessToken  = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyPrincipal    = "current_user"
)

// Tokens is the credential pair persisted between processes.
type Tokens struct {
	AccessToken  string `json:"auth_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store is durable keyed storage for the session. It holds no expiry logic;
// writes must be visible to subsequent reads within the same process.
// Absence of stored data is not an error: Load returns zero values.
type Store interface {
	// Save persists the token pair and the serialized principal.
	Save(ctx context.Context, tokens Tokens, principal *Principal) error

	// Load returns the stored tokens and principal, zero-valued when empty.
	Load(ctx context.Context) (Tokens, *Principal, error)

	// Clear removes all stored session data.
	Clear(ctx context.Context) error
}
