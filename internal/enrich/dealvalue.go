package enrich

import (
	"regexp"
	"strings"

	"dealwire/internal/core"
)

// dealValueRe matches a currency marker immediately followed by a numeric
// literal and an optional magnitude suffix, e.g. "USD 600 million",
// "$140 million", "EUR 2.5 billion", "C$3.4 billion".
var dealValueRe = regexp.MustCompile(`(?i)((?:USD|US\$|\$|EUR|€|GBP|£|C\$|CAD|INR|Rs\.?)\s*[0-9][0-9,]*(?:\.[0-9]+)?\s*(?:million|billion|bn|mn|m|b)?)`)

// ExtractDealValue extracts a deal value only if it actually appears in the
// text. This is a first-match policy: the leftmost amount wins, not the
// largest or most prominent one. No match returns the NA sentinel; the
// function never returns a bare number or an invented currency.
func ExtractDealValue(content string) string {
	if content == "" {
		return core.NA
	}

	text := collapseWhitespace(content)
	match := dealValueRe.FindStringSubmatch(text)
	if match == nil {
		return core.NA
	}

	value := strings.TrimSpace(match[1])
	value = strings.ReplaceAll(value, "US$", "USD ")
	value = strings.ReplaceAll(value, "$", "USD ")
	return collapseWhitespace(value)
}
