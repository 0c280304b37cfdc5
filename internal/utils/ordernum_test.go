package utils

import (
	"strings"
	"testing"
)

func TestGenerateOrderNumber_Format(t *testing.T) {
	number := GenerateOrderNumber()

	if !strings.HasPrefix(number, "ORD-") {
		t.Fatalf("expected ORD- prefix, got %q", number)
	}
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		t.Fatalf("expected ORD-<timestamp>-<random>, got %q", number)
	}
	if len(parts[2]) != 6 {
		t.Fatalf("expected 6-digit random suffix, got %q", parts[2])
	}
}

func TestGenerateOrderNumber_Unique(t *testing.T) {
	const n = 100000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		number := GenerateOrderNumber()
		if _, dup := seen[number]; dup {
			t.Fatalf("duplicate order number after %d generations: %q", i, number)
		}
		seen[number] = struct{}{}
	}
}
