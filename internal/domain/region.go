package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	RegionPrefix = "KR-"
	// RegionUnknown is used when an address has no tokens at all.
	RegionUnknown = "ETC"
)

// RegionCode returns "KR-" plus the first whitespace-delimited token of the
// address. Addresses are NFC-normalised first so decomposed Hangul from some
// clients groups with the precomposed form.
func RegionCode(address string) string {
	fields := strings.Fields(norm.NFC.String(address))
	if len(fields) == 0 {
		return RegionPrefix + RegionUnknown
	}
	return RegionPrefix + fields[0]
}
