// Package normalize turns the loosely typed values found in scraped recipe
// data into typed values: integers, floats, minutes and clean text lines.
package normalize

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reDigits   = regexp.MustCompile(`\d+`)
	reNumber   = regexp.MustCompile(`[-+]?\d*\.?\d+`)
	reDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?)?$`)
)

// ParseFirstInteger returns the first run of digits in text. Runs too long
// for an int saturate at math.MaxInt.
func ParseFirstInteger(text string) (int, bool) {
	m := reDigits.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseNumber accepts a number (returned as-is unless NaN), a bool (1 or 0)
// or a string from which thousands separators are stripped before the first
// numeric token is read. Everything else yields false.
func ParseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		f := float64(n)
		return f, !math.IsNaN(f)
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		return ParseNumber(n.String())
	case string:
		m := reNumber.FindString(strings.ReplaceAll(n, ",", ""))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CleanLines collapses whitespace in every line, drops blank lines and
// removes exact duplicates while keeping first-occurrence order.
func CleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		s := CollapseSpace(line)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// CollapseSpace replaces every whitespace run with one space and trims.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseISODurationMinutes reads the P[nD][T[nH][nM]] subset of ISO-8601
// durations. Seconds, weeks, months and years are not accepted. A bare "P"
// is a valid zero duration.
func ParseISODurationMinutes(text string) (int, bool) {
	s := strings.ToUpper(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}
	m := reDuration.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	days, hours, mins := atoiOrZero(m[1]), atoiOrZero(m[2]), atoiOrZero(m[3])
	return days*24*60 + hours*60 + mins, true
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
