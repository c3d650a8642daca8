package redact

import (
	"strings"
)

// String masks the middle half of a secret, keeping the first and last
// quarters visible so log readers can tell secrets apart.
func String(s string) string {
	l := len(s)
	if l < 4 {
		return strings.Repeat("*", l)
	}

	head := l / 4
	tail := l - head

	return s[:head] + strings.Repeat("*", tail-head) + s[tail:]
}
