package utils

import (
	"strings"
	"testing"
)

func TestGenerateOrderCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateOrderCode()
		if len(code) != OrderCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), OrderCodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(orderCodeChars, c) {
				t.Fatalf("code %q contains character %q outside the allowed set", code, c)
			}
		}
		seen[code] = true
	}
	// Collisions are tolerated by design, but 200 draws from a 36^5 space
	// should not all land on one value.
	if len(seen) < 2 {
		t.Error("generator produced a single code across 200 draws")
	}
}
