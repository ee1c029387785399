package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile persists the session token between CLI invocations. The
// file is written with mode 0600 since the token is a live credential.
type TokenFile struct {
	path string
}

// NewTokenFile resolves the token file location. An empty path falls
// back to ~/.blog_token.
func NewTokenFile(path string) (*TokenFile, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".blog_token")
	}
	return &TokenFile{path: path}, nil
}

// Path returns the resolved token file location.
func (t *TokenFile) Path() string { return t.path }

// Save writes the token, restricting access to the owner.
func (t *TokenFile) Save(token string) error {
	return os.WriteFile(t.path, []byte(token), 0o600)
}

// Load reads the saved token. A missing file or an empty file yields
// "" with no error.
func (t *TokenFile) Load() (string, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the token file, treating a missing file as success.
func (t *TokenFile) Clear() error {
	if err := os.Remove(t.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
