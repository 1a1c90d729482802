// Package store provides durable implementations of auth.Store.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sistematransporte/transporte-go/auth"
)

// FileStore persists the session as a JSON file, the process analogue of
// browser local storage. Writes are atomic (temp file + rename) and
// immediately visible to subsequent reads.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// fileRecord is the on-disk layout, keyed like the original storage.
type fileRecord struct {
	AccessToken  string          `json:"auth_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	Principal    json.RawMessage `json:"current_user,omitempty"`
}

// NewFileStore creates a file store at path, creating parent directories.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Save(ctx context.Context, tokens auth.Tokens, principal *auth.Principal) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	record := fileRecord{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	if principal != nil {
		data, err := json.Marshal(principal)
		if err != nil {
			return err
		}
		record.Principal = data
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Load(ctx context.Context) (auth.Tokens, *auth.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return auth.Tokens{}, nil, nil
		}
		return auth.Tokens{}, nil, err
	}

	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// A corrupt session file reads as logged out rather than an error.
		return auth.Tokens{}, nil, nil
	}

	tokens := auth.Tokens{
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
	}

	var principal *auth.Principal
	if len(record.Principal) > 0 {
		principal = &auth.Principal{}
		if err := json.Unmarshal(record.Principal, principal); err != nil {
			principal = nil
		}
	}

	return tokens, principal, nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
