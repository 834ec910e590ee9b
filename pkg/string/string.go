// Package string holds the small text normalizers applied to requests
// before validation.
package string

import (
	"strings"
	"unicode"
)

// TrimStrings trims surrounding whitespace in place.
func TrimStrings(ss ...*string) {
	for _, s := range ss {
		*s = strings.TrimSpace(*s)
	}
}

// NormalizeEmail trims and lower-cases addresses in place; the backend
// compares emails case-insensitively.
func NormalizeEmail(emails ...*string) {
	for _, e := range emails {
		*e = strings.ToLower(strings.TrimSpace(*e))
	}
}

// StripSeparators removes spaces and dashes people type into business and
// phone numbers, e.g. "123-45-67891" -> "1234567891".
func StripSeparators(v string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, v)
}

// ToSnakeCase converts a Go field name into the snake_case used in
// validation messages: "PhoneNumber" -> "phone_number".
func ToSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 &&
			(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
