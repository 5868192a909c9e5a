package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// Identifiers are short opaque tokens such as "p12", "r-3" or "r-<uuid>".
var idRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

func IsValidID(id string) bool {
	return idRe.MatchString(id)
}

// ParseLimit reads a positive page size from a query value. Empty or
// malformed values yield def; values above max are clamped.
func ParseLimit(raw string, def, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
