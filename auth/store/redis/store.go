// Package redis provides a Redis-backed auth.Store for deployments where
// session state must survive host changes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sistematransporte/transporte-go/auth"
	sdkredis "github.com/sistematransporte/transporte-go/store/redis"
)

// Store persists session data under a configurable key prefix.
type Store struct {
	client    *sdkredis.Client
	keyPrefix string
}

// Option configures a Store.
type Option func(*Store)

// WithKeyPrefix overrides the storage key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.keyPrefix = prefix
	}
}

// New creates a Redis-backed session store.
func New(client *sdkredis.Client, opts ...Option) *Store {
	s := &Store{
		client:    client,
		keyPrefix: "session:",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Save(ctx context.Context, tokens auth.Tokens, principal *auth.Principal) error {
	var userData []byte
	if principal != nil {
		data, err := json.Marshal(principal)
		if err != nil {
			return fmt.Errorf("marshal principal: %w", err)
		}
		userData = data
	}

	pipe := s.client.UniversalClient().Pipeline()
	pipe.Set(ctx, s.key(auth.KeyAccessToken), tokens.AccessToken, 0)
	pipe.Set(ctx, s.key(auth.KeyRefreshToken), tokens.RefreshToken, 0)
	pipe.Set(ctx, s.key(auth.KeyPrincipal), userData, 0)

	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Load(ctx context.Context) (auth.Tokens, *auth.Principal, error) {
	cli := s.client.UniversalClient()

	var tokens auth.Tokens
	for _, item := range []struct {
		key  string
		dest *string
	}{
		{auth.KeyAccessToken, &tokens.AccessToken},
		{auth.KeyRefreshToken, &tokens.RefreshToken},
	} {
		value, err := cli.Get(ctx, s.key(item.key)).Result()
		if err == sdkredis.ErrNil {
			continue
		}
		if err != nil {
			return auth.Tokens{}, nil, fmt.Errorf("get %s: %w", item.key, err)
		}
		*item.dest = value
	}

	var principal *auth.Principal
	userData, err := cli.Get(ctx, s.key(auth.KeyPrincipal)).Bytes()
	if err != nil && err != sdkredis.ErrNil {
		return auth.Tokens{}, nil, fmt.Errorf("get %s: %w", auth.KeyPrincipal, err)
	}
	if len(userData) > 0 {
		principal = &auth.Principal{}
		if err := json.Unmarshal(userData, principal); err != nil {
			principal = nil
		}
	}

	return tokens, principal, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.client.UniversalClient().Del(ctx,
		s.key(auth.KeyAccessToken),
		s.key(auth.KeyRefreshToken),
		s.key(auth.KeyPrincipal),
	).Err()
}

func (s *Store) key(name string) string {
	return s.keyPrefix + name
}
