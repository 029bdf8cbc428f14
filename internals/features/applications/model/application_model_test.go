package model

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^MNG-[0-9A-F]{8}$`)

func TestNewReferenceNumber_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := NewReferenceNumber()
		require.Regexp(t, referencePattern, ref)
	}
}

func TestNewReferenceNumber_NoImmediateCollisions(t *testing.T) {
	// Not a uniqueness proof (the DB index is), just a sanity check
	// that the generator is not degenerate.
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		ref := NewReferenceNumber()
		assert.False(t, seen[ref], "collision on %s after %d draws", ref, i)
		seen[ref] = true
	}
}
