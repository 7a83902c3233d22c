// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package releasedate turns the catalog's free-text release dates into
// comparable dates. The upstream field is inconsistently formatted
// ("2012年09月07日", "2020年3月上旬", "2019年頃", "20120907"), so parsing is
// lenient: an unrelated number may occasionally be read as a date, and
// that is accepted in exchange for a high match rate.
package releasedate

import (
	"strings"
	"time"

	"golang.org/x/text/width"
)

// annotations are qualifiers that carry no date component: approximately,
// early, mid, late, after, upcoming, end-of. Longer tokens come first.
var annotations = []string{"上旬", "中旬", "下旬", "以降", "予定", "頃", "末"}

// calendarLayouts are tried in order against the cleaned text.
var calendarLayouts = []string{
	"2006年1月2日",
	"2006年1月",
	"2006年",
}

// digitLayouts interpret the longest digit run of the text when no
// calendar layout matched. Each tier needs at least len(layout) digits.
var digitLayouts = []string{
	"20060102",
	"200601",
	"2006",
}

// Parse returns the release date encoded in raw and true, or the zero time
// and false when nothing date-like can be recovered. It never fails.
// Year-month values resolve to the first of the month and year-only values
// to January 1. Results are midnight UTC.
func Parse(raw string) (time.Time, bool) {
	text := clean(raw)
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}

	digits := DigitRun(text)
	for _, layout := range digitLayouts {
		if len(digits) < len(layout) {
			continue
		}
		if t, err := time.Parse(layout, digits[:len(layout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// clean folds full-width characters to their ASCII forms, removes
// annotation tokens and trims the result.
func clean(raw string) string {
	text := width.Fold.String(raw)
	for _, tok := range annotations {
		text = strings.ReplaceAll(text, tok, "")
	}
	return strings.TrimSpace(text)
}

// DigitRun returns the longest run of consecutive ASCII digits in s. On a
// tie the first run wins.
func DigitRun(s string) string {
	best, start := "", -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if i-start > len(best) {
				best = s[start:i]
			}
			start = -1
		}
	}
	return best
}
