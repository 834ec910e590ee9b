// Package privacy masks personally identifiable information before it reaches logs.
package privacy

import "strings"

// MaskEmail keeps the first and last character of the local part and the domain
// (e.g., "someone@example.com" -> "s*****e@example.com").
// Returns "unknown" for empty input and "invalid" when there is no '@'.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "unknown"
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "invalid"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}

// MaskPhone keeps only the last four digits.
func MaskPhone(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) == 0 {
		return "unknown"
	}
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + string(digits[len(digits)-4:])
}

// MaskToken keeps a short prefix so two log lines can be correlated without exposing the token.
func MaskToken(token string) string {
	if len(token) <= 6 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + "..."
}
