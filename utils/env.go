package utils

import (
	"strings"
)

// SplitList turns a comma separated value such as ALLOWED_ORIGINS into its
// trimmed, non-empty parts
func SplitList(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
