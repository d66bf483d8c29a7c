// Package phone canonicalizes sender identifiers. The transport hands us
// addresses like "whatsapp:+972501234567"; primary and delegate senders
// must collapse to the same profile key regardless of how the number was
// typed.
package phone

import "strings"

// Normalize reduces a raw transport address to a canonical digit string.
// Local mobile numbers ("05...") are converted to international form.
// Returns "" for input with no digits.
func Normalize(raw string) string {
	raw = strings.TrimPrefix(raw, "whatsapp:")
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	switch {
	case strings.HasPrefix(clean, "05"):
		clean = "972" + clean[1:]
	case strings.HasPrefix(clean, "9720"):
		clean = "972" + clean[4:]
	}
	return clean
}
