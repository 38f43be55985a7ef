package env

import "testing"

func TestGetPrefersPrefixedKey(t *testing.T) {
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("QUICKKART_LOG_FORMAT", "json")

	if got := Get("LOG_FORMAT", "json"); got != "json" {
		t.Fatalf("expected prefixed value, got %q", got)
	}
}

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("QUICKKART_LOG_FORMAT", "   ")

	if got := Get("LOG_FORMAT", "json"); got != "json" {
		t.Fatalf("blank value should fall through, got %q", got)
	}
}

func TestGetUnprefixedKey(t *testing.T) {
	t.Setenv("LOG_FORMAT", "console")

	if got := Get("LOG_FORMAT", "json"); got != "console" {
		t.Fatalf("expected unprefixed value, got %q", got)
	}
}
