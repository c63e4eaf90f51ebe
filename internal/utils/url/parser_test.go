package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///", "not a url at all\x7f://"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://careers.example.com/jobs?page=2", "https://careers.example.com"},
		{"http://example.com:8080/api/", "http://example.com:8080"},
		{"https://example.com", "https://example.com"},
	}
	for _, tt := range tests {
		got, err := Origin(tt.in)
		if err != nil {
			t.Fatalf("Origin(%s): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Origin(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := Origin("ftp://example.com"); err == nil {
		t.Error("expected error for non-http scheme")
	}
}

func TestResolveURL(t *testing.T) {
	if got := ResolveURL("https://example.com/jobs/", "/api/jobs"); got != "https://example.com/api/jobs" {
		t.Errorf("unexpected resolution: %s", got)
	}
	if got := ResolveURL("https://example.com", "https://other.com/x"); got != "https://other.com/x" {
		t.Errorf("absolute URL should pass through, got %s", got)
	}
}
