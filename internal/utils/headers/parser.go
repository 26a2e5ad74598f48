// Package headers turns "Name: Value" strings from repeated -H flags into
// request header maps.
package headers

import "strings"

// ParseHeaders parses each entry at its first colon. Entries without a
// colon or with an empty name are dropped; names and values are trimmed.
// A later entry for the same name wins.
func ParseHeaders(entries []string) map[string]string {
	m := make(map[string]string)
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m[name] = strings.TrimSpace(value)
	}
	return m
}
