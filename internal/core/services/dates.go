package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// monthNames maps Danish and English month names and abbreviations.
var monthNames = map[string]time.Month{
	"jan": time.January, "januar": time.January, "january": time.January,
	"feb": time.February, "februar": time.February, "february": time.February,
	"mar": time.March, "marts": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"maj": time.May, "may": time.May,
	"jun": time.June, "juni": time.June, "june": time.June,
	"jul": time.July, "juli": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"okt": time.October, "oct": time.October, "oktober": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var (
	numericDate = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})[./-](\d{4}|\d{2})\b`)
	namedDate   = regexp.MustCompile(`(?i)\b(\d{1,2})\.?\s+(` + monthPattern() + `)\.?\s+(\d{4})\b`)
)

func monthPattern() string {
	names := make([]string, 0, len(monthNames))
	for name := range monthNames {
		names = append(names, name)
	}
	// Longest first so "januar" wins over "jan".
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return strings.Join(names, "|")
}

type dateMatch struct {
	pos  int
	text string
}

// ScanDates finds day-first dates in text and returns them as
// YYYY-MM-DD in order of appearance, without duplicates. Matches that do
// not form a valid calendar date are returned verbatim.
func ScanDates(text string) []string {
	var matches []dateMatch

	for _, m := range numericDate.FindAllStringSubmatchIndex(text, -1) {
		day, month, year := text[m[2]:m[3]], text[m[4]:m[5]], text[m[6]:m[7]]
		matches = append(matches, dateMatch{m[0], formatDate(text[m[0]:m[1]], day, month, year)})
	}
	for _, m := range namedDate.FindAllStringSubmatchIndex(text, -1) {
		month := monthNames[strings.ToLower(text[m[4]:m[5]])]
		matches = append(matches, dateMatch{m[0], formatDate(text[m[0]:m[1]], text[m[2]:m[3]], strconv.Itoa(int(month)), text[m[6]:m[7]])})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m.text] {
			continue
		}
		seen[m.text] = true
		out = append(out, m.text)
	}
	return out
}

// formatDate validates the parts and renders YYYY-MM-DD, or raw when
// the parts do not form a real date. Two-digit years follow the time
// package convention: 69-99 are 19xx, 00-68 are 20xx.
func formatDate(raw, day, month, year string) string {
	d, errD := strconv.Atoi(day)
	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errD != nil || errM != nil || errY != nil {
		return raw
	}
	if len(year) == 2 {
		if y >= 69 {
			y += 1900
		} else {
			y += 2000
		}
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return raw
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
