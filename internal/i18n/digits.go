package i18n

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	devanagariZero = '०'
	devanagariNine = '९'
)

// ToASCIIDigits rewrites Devanagari digits (०-९) as ASCII digits.
func ToASCIIDigits(s string) string {
	if !strings.ContainsFunc(s, isDevanagariDigit) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isDevanagariDigit(r) {
			return '0' + (r - devanagariZero)
		}
		return r
	}, s)
}

// ToDevanagariDigits rewrites ASCII digits as Devanagari digits.
func ToDevanagariDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return devanagariZero + (r - '0')
		}
		return r
	}, s)
}

// Clean trims s and composes it to NFC so that Nepali text typed with
// different input methods compares equal.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// CleanNumber is Clean followed by ToASCIIDigits.
func CleanNumber(s string) string {
	return ToASCIIDigits(Clean(s))
}

func isDevanagariDigit(r rune) bool {
	return r >= devanagariZero && r <= devanagariNine
}
