package parser

import (
	"regexp"
	"strings"
)

var (
	// Stop only on true footer labels, not description fragments like
	// "PURPOSE, 200 GRAMS" that can appear inside item rows.
	tableStopRegex = regexp.MustCompile(`(?i)^(?:total(?:\s+cost)?|purpose\s*:|requested\s+by\s*:|signature\s*:|printed\s*name\s*:|designation\s*:|see\s+back\b|effectivity\b)`)

	headerLikeRegex = regexp.MustCompile(`(?i)(stock/|property|item\s*description|quantity|unit\s*cost|total\s*cost|\bno\.)`)

	rowStartRegex = regexp.MustCompile(`^(\d{7,10})(?:\s+(.*))?$`)

	alphaRegex        = regexp.MustCompile(`[A-Za-z]`)
	digitRegex        = regexp.MustCompile(`\d`)
	numericTokenRegex = regexp.MustCompile(`^\d{1,10}$`)
	shortAlphaRegex   = regexp.MustCompile(`^[a-z]{1,4}$`)
	shortCodeRegex    = regexp.MustCompile(`^[a-z0-9\-/]{1,8}$`)
)

// commonUnits is the closed vocabulary of unit-of-measure tokens seen on
// purchase request forms.
var commonUnits = map[string]bool{
	"pc": true, "pcs": true, "piece": true, "pieces": true, "set": true,
	"lot": true, "box": true, "roll": true, "ream": true, "bottle": true,
	"btl": true, "pack": true, "pkg": true, "unit": true, "kg": true,
	"g": true, "l": true, "ltr": true, "meter": true, "m": true,
	"cm": true, "dozen": true,
}

// IsTableStopLine reports whether the line marks the end of the item table:
// the total row, the purpose block or the signature footer.
func IsTableStopLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	return tableStopRegex.MatchString(line)
}

// IsHeaderLikeTableLine reports whether the line carries item-table column
// captions.
func IsHeaderLikeTableLine(line string) bool {
	return headerLikeRegex.MatchString(line)
}

// IsItemRowStartLine reports whether the line opens a new item row: a 7-10
// digit stock/property code, alone or followed by wordy content. A code
// followed only by numbers is more likely a stray table total.
func IsItemRowStartLine(line string) bool {
	m := rowStartRegex.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return false
	}

	rest := strings.TrimSpace(m[2])
	if rest == "" {
		return true
	}
	return alphaRegex.MatchString(rest)
}

// IsLikelyUnitToken reports whether the token plausibly sits in the Unit
// column: a known unit word, a short numeric or alphabetic token, or a
// short alphanumeric code containing at least one digit.
func IsLikelyUnitToken(token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return false
	}

	if commonUnits[token] {
		return true
	}

	if numericTokenRegex.MatchString(token) {
		return true
	}

	if shortAlphaRegex.MatchString(token) {
		return true
	}

	return shortCodeRegex.MatchString(token) && digitRegex.MatchString(token)
}
