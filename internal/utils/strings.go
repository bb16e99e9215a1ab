package utils

import (
	"strings"
)

// SplitList splits comma/semicolon separated values (possibly repeated
// across several query parameters) into cleaned, de-duplicated entries.
func SplitList(raw ...string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, r := range raw {
		parts := strings.FieldsFunc(r, func(c rune) bool {
			return c == ',' || c == ';' || c == '\n'
		})
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			key := strings.ToLower(p)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// MaskEmail keeps the first character of the local part for log lines.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
