package enrich

import (
	"strings"
)

// wireMarker is the wire-service attribution marker that separates dateline
// boilerplate from the release body. Matched without surrounding punctuation
// so both "/PRNewswire/" and "(PRNewswire)" datelines are caught.
const wireMarker = "PRNewswire"

// DefaultSummaryMaxChars caps the deterministic summary length.
const DefaultSummaryMaxChars = 400

// StripWireBoilerplate removes the wire-service dateline from the start of a
// release. Everything up to and including the first "--" after the marker is
// dropped; if no "--" follows, only the marker itself is dropped. Text
// without the marker is returned whitespace-collapsed but otherwise intact.
func StripWireBoilerplate(content string) string {
	text := collapseWhitespace(content)
	idx := strings.Index(text, wireMarker)
	if idx == -1 {
		return text
	}
	dashIdx := strings.Index(text[idx:], "--")
	if dashIdx != -1 {
		return strings.TrimSpace(text[idx+dashIdx+2:])
	}
	return strings.TrimSpace(text[idx+len(wireMarker):])
}

// SimpleSummary builds a deterministic summary straight from the release
// text: the first two sentences of the body, truncated at a whitespace
// boundary when longer than maxChars. Returns "" for empty input and never
// calls external services.
func SimpleSummary(content string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultSummaryMaxChars
	}
	core := StripWireBoilerplate(content)
	if core == "" {
		return ""
	}

	sentences := splitSentences(core)
	if len(sentences) > 2 {
		sentences = sentences[:2]
	}
	summary := strings.TrimSpace(strings.Join(sentences, " "))

	runes := []rune(summary)
	if len(runes) > maxChars {
		short := runes[:maxChars]
		if last := lastSpaceIndex(short); last > 0 {
			short = short[:last]
		}
		summary = string(short) + "..."
	}
	return summary
}

// splitSentences splits text on '.', '!' or '?' followed by whitespace,
// keeping the terminal punctuation with each sentence.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '.', '!', '?':
			if isSpace(runes[i+1]) {
				sentences = append(sentences, strings.TrimSpace(string(runes[start:i+1])))
				// Skip the run of whitespace after the terminator.
				j := i + 1
				for j < len(runes) && isSpace(runes[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}
	if start < len(runes) {
		if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
			sentences = append(sentences, tail)
		}
	}
	return sentences
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func lastSpaceIndex(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// SummaryMatchesTitle reports whether a generated summary mentions at least
// one significant token from the deal title. Tokens shorter than 4 chars are
// ignored after stripping surrounding punctuation. This is the sole guard
// against topic drift from the generative step; a single token match
// suffices, an accepted false-positive risk.
func SummaryMatchesTitle(summary, title string) bool {
	if summary == "" || title == "" {
		return false
	}

	summaryLower := strings.ToLower(summary)
	for _, raw := range strings.Fields(title) {
		token := strings.Trim(raw, " ,.&()/-")
		if len(token) < 4 {
			continue
		}
		if strings.Contains(summaryLower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}
