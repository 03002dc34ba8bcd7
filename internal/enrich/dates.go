package enrich

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"dealwire/internal/core"
)

// monthAbbrev canonicalizes English month names and common abbreviations to
// a fixed 3-letter form.
var monthAbbrev = map[string]string{
	"Jan.": "Jan", "January": "Jan",
	"Feb.": "Feb", "February": "Feb",
	"Mar.": "Mar", "March": "Mar",
	"Apr.": "Apr", "April": "Apr",
	"May": "May",
	"Jun.": "Jun", "June": "Jun",
	"Jul.": "Jul", "July": "Jul",
	"Aug.": "Aug", "August": "Aug",
	"Sep.": "Sep", "Sept.": "Sep", "September": "Sep",
	"Oct.": "Oct", "October": "Oct",
	"Nov.": "Nov", "November": "Nov",
	"Dec.": "Dec", "December": "Dec",
}

// dateRe matches dates like "Nov. 26, 2025" or "November 3, 2025".
var dateRe = regexp.MustCompile(`([A-Z][a-z]{2,9}\.?) +(\d{1,2}), *(\d{4})`)

func normalizeMonth(month string) string {
	if abbrev, ok := monthAbbrev[month]; ok {
		return abbrev
	}
	return month
}

func formatDateMatch(match []string) string {
	day, err := strconv.Atoi(match[2])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s %d, %s", normalizeMonth(match[1]), day, match[3])
}

// DateFromTimestamps extracts a normalized date from the first timestamp
// entry. Returns "" when the list is empty or the entry has no date.
func DateFromTimestamps(timestamps []string) string {
	if len(timestamps) == 0 {
		return ""
	}
	match := dateRe.FindStringSubmatch(timestamps[0])
	if match == nil {
		return ""
	}
	return formatDateMatch(match)
}

// DateFromContent extracts a normalized date from free text, after
// collapsing all whitespace. Returns "" when no date is found.
func DateFromContent(content string) string {
	match := dateRe.FindStringSubmatch(collapseWhitespace(content))
	if match == nil {
		return ""
	}
	return formatDateMatch(match)
}

// PrettyDate returns the announcement date for an article in "Mon D, YYYY"
// form, preferring the timestamp hints over the body text. Returns "" when
// neither source yields a date.
func PrettyDate(article core.Article) string {
	if date := DateFromTimestamps(article.Timestamps); date != "" {
		return date
	}
	return DateFromContent(article.Content)
}

// collapseWhitespace joins all whitespace-separated fields with single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
