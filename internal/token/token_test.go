package token

import (
	"strings"
	"testing"
)

func TestNewLength(t *testing.T) {
	tok, err := New()
	if err != nil {
		t.Fatal("Failed to generate token:", err)
	}
	// 24 random bytes encode to 32 characters without padding
	if len(tok) != 32 {
		t.Errorf("Expected 32 characters, got %d", len(tok))
	}
}

func TestNewURLSafe(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	for i := 0; i < 20; i++ {
		tok, err := New()
		if err != nil {
			t.Fatal("Failed to generate token:", err)
		}
		if strings.ContainsRune(tok, '=') {
			t.Errorf("Expected no padding, got %s", tok)
		}
		for _, r := range tok {
			if !strings.ContainsRune(alphabet, r) {
				t.Errorf("Unexpected character %q in token %s", r, tok)
			}
		}
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := New()
		if err != nil {
			t.Fatal("Failed to generate token:", err)
		}
		if seen[tok] {
			t.Fatalf("Duplicate token generated: %s", tok)
		}
		seen[tok] = true
	}
}
