package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	nonNumericRegex = regexp.MustCompile(`[^0-9.\-]`)
)

// CleanValue collapses whitespace runs (including newlines) to single spaces
// and trims. Returns nil when nothing remains.
func CleanValue(value string) *string {
	cleaned := strings.TrimSpace(whitespaceRegex.ReplaceAllString(value, " "))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// ParseMoney strips everything except digits, dot and minus and parses the
// remainder. Returns nil, never zero, when no usable number is present.
func ParseMoney(value string) *float64 {
	normalized := nonNumericRegex.ReplaceAllString(value, "")
	if normalized == "" {
		return nil
	}
	n, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil
	}
	return &n
}

// ParseFloat behaves exactly like ParseMoney; it exists so quantity call
// sites read as quantities rather than amounts.
func ParseFloat(value string) *float64 {
	return ParseMoney(value)
}

// round2 rounds to 2 decimal places, the precision of every cost column.
func round2(n float64) float64 {
	return math.Round(n*100) / 100
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(n float64) *float64 {
	return &n
}
