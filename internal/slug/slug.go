// Package slug derives flat note file names from titles.
package slug

import (
	"strings"

	"github.com/google/uuid"
)

// Fallback is used when a title has no usable characters.
const Fallback = "note"

// Make lowercases title and collapses every run of characters outside
// [a-z0-9] into a single hyphen.
func Make(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}

// Unique returns base if it is not taken, otherwise base with a short random
// suffix that is not taken.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for {
		candidate := base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		if !taken(candidate) {
			return candidate
		}
	}
}
