package action

import (
	"fmt"
	"strings"
	"time"
)

const isoDateFormat = "ISO8601"

// isoSecondsEnd is the length of "2006-01-02T15:04:05", after which ISO 8601
// input must carry a zone, not a fraction.
const isoSecondsEnd = len("2006-01-02T15:04:05")

// parseDate parses s as ISO 8601 when format is "ISO8601", otherwise as a
// Unicode date pattern such as "yyyy-MM-dd HH:mm". Patterns are parsed in
// the local time zone. ISO 8601 input takes whole seconds only.
func parseDate(s, format string) (time.Time, error) {
	if format == isoDateFormat {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
		if len(s) > isoSecondsEnd && (s[isoSecondsEnd] == '.' || s[isoSecondsEnd] == ',') {
			return time.Time{}, fmt.Errorf("parsing time %q: fractional seconds are not accepted", s)
		}
		return t, nil
	}
	layout, err := layoutFromPattern(format)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(layout, s, time.Local)
}

// patternFields maps a pattern letter and its repeat count to a Go layout
// element. A count missing from the inner map falls back to the largest
// count listed below it.
var patternFields = map[rune]map[int]string{
	'y': {1: "2006", 2: "06", 3: "2006"},
	'M': {1: "1", 2: "01", 3: "Jan", 4: "January"},
	'L': {1: "1", 2: "01", 3: "Jan", 4: "January"},
	'd': {1: "2", 2: "02"},
	'E': {1: "Mon", 4: "Monday"},
	'H': {1: "15"},
	'h': {1: "3", 2: "03"},
	'm': {1: "4", 2: "04"},
	's': {1: "5", 2: "05"},
	'a': {1: "PM"},
	'Z': {1: "-0700", 5: "Z07:00"},
	'X': {1: "Z07", 2: "Z0700", 3: "Z07:00"},
	'x': {1: "-07", 2: "-0700", 3: "-07:00"},
	'z': {1: "MST"},
}

// layoutFromPattern converts a Unicode date pattern into a time layout.
func layoutFromPattern(pattern string) (string, error) {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\'':
			i = quoted(&b, runes, i)
		case r == 'S':
			n := repeat(runes, i)
			if !strings.HasSuffix(b.String(), ".") && !strings.HasSuffix(b.String(), ",") {
				return "", fmt.Errorf("fractional seconds must follow a separator in %q", pattern)
			}
			b.WriteString(strings.Repeat("0", n))
			i += n
		case isPatternLetter(r):
			n := repeat(runes, i)
			field, err := patternField(r, n)
			if err != nil {
				return "", fmt.Errorf("date pattern %q: %w", pattern, err)
			}
			b.WriteString(field)
			i += n
		default:
			b.WriteRune(r)
			i++
		}
	}
	return b.String(), nil
}

func patternField(r rune, n int) (string, error) {
	counts, ok := patternFields[r]
	if !ok {
		return "", fmt.Errorf("unsupported field %q", strings.Repeat(string(r), n))
	}
	for c := n; c > 0; c-- {
		if f, ok := counts[c]; ok {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported field %q", strings.Repeat(string(r), n))
}

// quoted writes the literal starting at the quote at i and returns the index
// after it. A doubled quote stands for a single quote, inside or outside a
// literal.
func quoted(b *strings.Builder, runes []rune, i int) int {
	if i+1 < len(runes) && runes[i+1] == '\'' {
		b.WriteRune('\'')
		return i + 2
	}
	j := i + 1
	for j < len(runes) {
		if runes[j] == '\'' {
			if j+1 < len(runes) && runes[j+1] == '\'' {
				b.WriteRune('\'')
				j += 2
				continue
			}
			break
		}
		b.WriteRune(runes[j])
		j++
	}
	return j + 1
}

func repeat(runes []rune, i int) int {
	n := 1
	for i+n < len(runes) && runes[i+n] == runes[i] {
		n++
	}
	return n
}

func isPatternLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
