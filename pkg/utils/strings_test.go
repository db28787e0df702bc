package utils

import (
	"strings"
	"testing"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Men's T-Shirt!", "mens-t-shirt"},
		{"Sony WH-1000XM5 Koptelefoon", "sony-wh-1000xm5-koptelefoon"},
		{"  Beste   airfryers 2025  ", "beste-airfryers-2025"},
		{"---", ""},
		{"Café & Thee", "caf-thee"},
	}
	for _, tt := range tests {
		if got := GenerateSlug(tt.input); got != tt.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGenerateSlugLengthCap(t *testing.T) {
	got := GenerateSlug(strings.Repeat("product ", 30))
	if len(got) > 100 {
		t.Errorf("slug length = %d, want <= 100", len(got))
	}
	if strings.HasSuffix(got, "-") || strings.HasPrefix(got, "-") {
		t.Errorf("slug has dangling hyphen: %q", got)
	}
}

func TestParseInt(t *testing.T) {
	if got := ParseInt("42", 7); got != 42 {
		t.Errorf("ParseInt(42) = %d", got)
	}
	if got := ParseInt("", 7); got != 7 {
		t.Errorf("ParseInt empty = %d, want default", got)
	}
	if got := ParseInt("abc", 7); got != 7 {
		t.Errorf("ParseInt invalid = %d, want default", got)
	}
}
