package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidID(t *testing.T) {
	for _, id := range []string{"p1", "r-12", "de-8a4f2c1e-aaaa-4bbb-8ccc-000000000000", "u_cohort"} {
		assert.True(t, IsValidID(id), id)
	}
	for _, id := range []string{"", "-p1", "p 1", "p/1", "../etc", strings.Repeat("a", 65)} {
		assert.False(t, IsValidID(id), id)
	}
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 50, ParseLimit("", 50, 200))
	assert.Equal(t, 50, ParseLimit("abc", 50, 200))
	assert.Equal(t, 50, ParseLimit("-3", 50, 200))
	assert.Equal(t, 7, ParseLimit(" 7 ", 50, 200))
	assert.Equal(t, 200, ParseLimit("9999", 50, 200))
}
