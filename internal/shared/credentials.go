package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials is the IGDB access token persisted between runs.
type Credentials struct {
	ClientID    string `json:"clientId"`
	AccessToken string `json:"accessToken"`
}

// Valid reports whether both the client id and the token are present.
func (c *Credentials) Valid() bool {
	return c != nil && c.ClientID != "" && c.AccessToken != ""
}

// LoadCredentials reads the credential file at path.
//
// A missing file yields [ErrNotAuthenticated].
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: no credentials at %s", ErrNotAuthenticated, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read credentials: %v", ErrIO, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: malformed credentials file %s: %v", ErrInvalidConfig, path, err)
	}
	if !creds.Valid() {
		return nil, fmt.Errorf("%w: incomplete credentials in %s", ErrNotAuthenticated, path)
	}
	return &creds, nil
}

// SaveCredentials writes creds to path with owner-only permissions, creating parent directories.
func SaveCredentials(path string, creds *Credentials) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create %s: %v", ErrIO, dir, err)
		}
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write credentials: %v", ErrIO, err)
	}
	return nil
}

// DeleteCredentials removes the credential file. Removing a missing file is not an error.
func DeleteCredentials(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: failed to delete credentials: %v", ErrIO, err)
	}
	return nil
}
