package utils

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("LUNAR_TEST_VALUE", "regolith")
	if got := GetEnv("LUNAR_TEST_VALUE", "dust"); got != "regolith" {
		t.Errorf("expected regolith, got %s", got)
	}
	if got := GetEnv("LUNAR_TEST_MISSING", "dust"); got != "dust" {
		t.Errorf("expected default, got %s", got)
	}

	t.Setenv("LUNAR_TEST_EMPTY", "")
	if got := GetEnv("LUNAR_TEST_EMPTY", "dust"); got != "dust" {
		t.Errorf("empty value should fall back to default, got %s", got)
	}
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("LUNAR_TEST_INT", "42")
	t.Setenv("LUNAR_TEST_BAD_INT", "forty-two")
	t.Setenv("LUNAR_TEST_BOOL", "true")

	if got := GetEnvInt("LUNAR_TEST_INT", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := GetEnvInt("LUNAR_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("expected default 7, got %d", got)
	}
	if !GetEnvBool("LUNAR_TEST_BOOL", false) {
		t.Error("expected true")
	}
	if got := GetEnvSeconds("LUNAR_TEST_INT", 1); got != 42*time.Second {
		t.Errorf("expected 42s, got %v", got)
	}
}
