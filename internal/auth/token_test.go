package auth

import (
	"os"
	"testing"
)

func useTempFileStorage(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "true")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NOTION_TOKEN", "")

	fileBasedStorageCache = nil
	t.Cleanup(func() { fileBasedStorageCache = nil })
}

func TestSaveAndLoadToken_FileFallback(t *testing.T) {
	useTempFileStorage(t)

	if err := SaveToken("ntn_secret_value"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	token, err := LoadToken()
	if err != nil {
		t.Fatalf("LoadToken failed: %v", err)
	}
	if token != "ntn_secret_value" {
		t.Errorf("expected stored token, got %q", token)
	}

	path, _ := tokenPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected token file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestSaveToken_RejectsEmpty(t *testing.T) {
	useTempFileStorage(t)

	if err := SaveToken("   "); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestLoadToken_EnvWins(t *testing.T) {
	useTempFileStorage(t)
	SaveToken("stored-token")
	t.Setenv("NOTION_TOKEN", "env-token")

	token, err := LoadToken()
	if err != nil {
		t.Fatalf("LoadToken failed: %v", err)
	}
	if token != "env-token" {
		t.Errorf("expected env token to win, got %q", token)
	}
}

func TestLoadToken_MissingToken(t *testing.T) {
	useTempFileStorage(t)

	if _, err := LoadToken(); err == nil {
		t.Error("expected error when no token stored")
	}
}

func TestDeleteToken(t *testing.T) {
	useTempFileStorage(t)
	SaveToken("to-be-deleted")

	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
	if _, err := LoadToken(); err == nil {
		t.Error("expected token gone after delete")
	}
}

func TestMaskToken(t *testing.T) {
	if got := MaskToken("ntn_1234567890abcdef"); got != "ntn_...cdef" {
		t.Errorf("unexpected mask %q", got)
	}
	if got := MaskToken("short"); got != "****" {
		t.Errorf("short tokens should be fully masked, got %q", got)
	}
}
