// Package auth stores the Notion integration token securely.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for keyring storage
	KeyringService = "radar-cli"
	// tokenKey is the keyring account name the token lives under
	tokenKey = "notion-token"
	// FallbackDir holds the token file when no keyring is available (Codespaces, CI)
	FallbackDir = ".radar"
)

// useFileBasedStorage reports whether the token should live in a file
// instead of the OS keyring. Cached after the first probe.
var fileBasedStorageCache *bool

func useFileBasedStorage() bool {
	if fileBasedStorageCache != nil {
		return *fileBasedStorageCache
	}

	if os.Getenv("CODESPACES") != "" || os.Getenv("CI") != "" {
		result := true
		fileBasedStorageCache = &result
		return true
	}

	testKey := "_test_keyring_access_"
	err := keyring.Set(KeyringService, testKey, "test")
	result := (err != nil)
	fileBasedStorageCache = &result

	if !result {
		keyring.Delete(KeyringService, testKey)
	}
	return result
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, FallbackDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "token"), nil
}

// SaveToken stores the Notion token in the keyring or fallback file
func SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if useFileBasedStorage() {
		path, err := tokenPath()
		if err != nil {
			return fmt.Errorf("failed to resolve token path: %w", err)
		}
		if err := os.WriteFile(path, []byte(token), 0600); err != nil {
			return fmt.Errorf("failed to save token file: %w", err)
		}
		return nil
	}

	if err := keyring.Set(KeyringService, tokenKey, token); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return nil
}

// LoadToken retrieves the stored Notion token. The NOTION_TOKEN
// environment variable wins over stored credentials.
func LoadToken() (string, error) {
	if env := strings.TrimSpace(os.Getenv("NOTION_TOKEN")); env != "" {
		return env, nil
	}

	if useFileBasedStorage() {
		path, err := tokenPath()
		if err != nil {
			return "", fmt.Errorf("failed to resolve token path: %w", err)
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no token stored, run 'radar token set' first")
		}
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	token, err := keyring.Get(KeyringService, tokenKey)
	if err == keyring.ErrNotFound {
		return "", fmt.Errorf("no token stored, run 'radar token set' first")
	}
	if err != nil {
		return "", fmt.Errorf("failed to read from keyring: %w", err)
	}
	return token, nil
}

// DeleteToken removes the stored token from both backends
func DeleteToken() error {
	var fileErr error
	if path, err := tokenPath(); err == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fileErr = err
		}
	}

	if !useFileBasedStorage() {
		if err := keyring.Delete(KeyringService, tokenKey); err != nil && err != keyring.ErrNotFound {
			return fmt.Errorf("failed to delete from keyring: %w", err)
		}
	}
	return fileErr
}

// MaskToken renders a token safe for display
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
