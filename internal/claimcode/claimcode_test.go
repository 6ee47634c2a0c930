package claimcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortCode(t *testing.T) {
	assert.Equal(t, "CB", ShortCode("casablanca"))
	assert.Equal(t, "BIF", ShortCode("valparaiso_bif"))
	assert.Equal(t, "BIC", ShortCode("valparaiso_bic"))
	assert.Equal(t, "XXX", ShortCode("santiago"))
}

func TestBuild(t *testing.T) {
	start := time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "I-0512CB01", Build("indefinido", start, "casablanca", 1))
	assert.Equal(t, "F-0512BIC12", Build("plazo_fijo", start, "valparaiso_bic", 12))
	assert.Equal(t, "F-0512XXX03", Build("", start, "otra", 3))
}

func TestParseRoundTrip(t *testing.T) {
	start := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
	for seq := 1; seq <= 99; seq += 7 {
		for _, contract := range []string{"indefinido", "plazo_fijo"} {
			code := Build(contract, start, "valparaiso_bif", seq)
			require.True(t, IsValid(code), code)

			parsed, err := Parse(code)
			require.NoError(t, err)
			assert.Equal(t, Prefix(contract), parsed.Prefix)
			assert.Equal(t, 9, parsed.Day)
			assert.Equal(t, 3, parsed.Month)
			assert.Equal(t, "BIF", parsed.Short)
			assert.Equal(t, seq, parsed.Sequence)
			assert.Equal(t, code, parsed.String())
		}
	}
}

func TestParseRoundTripPastNinetyNine(t *testing.T) {
	start := time.Date(2024, time.October, 19, 0, 0, 0, 0, time.UTC)
	for _, seq := range []int{99, 100, 101, 1234} {
		code := Build("indefinido", start, "casablanca", seq)
		require.True(t, IsValid(code), code)

		parsed, err := Parse(code)
		require.NoError(t, err)
		assert.Equal(t, seq, parsed.Sequence)
		assert.Equal(t, "1910CB", parsed.Bucket())
		assert.Equal(t, code, parsed.String())
	}
	assert.Equal(t, "I-1910CB100", Build("indefinido", start, "casablanca", 100))
}

func TestParseRejects(t *testing.T) {
	for _, code := range []string{"", "X-0101CB01", "I-011CB01", "I-0101C01", "I-0101CB1", "I-0101CB1A", "i-0101cb01"} {
		_, err := Parse(code)
		assert.ErrorIs(t, err, ErrInvalidCode, code)
	}
}

func TestBucketMatcher(t *testing.T) {
	m := NewBucketMatcher("0512", "CB")
	codes := []string{"I-0512CB01", "F-0512CB07", "I-0512CB103", "I-0512BIC50", "I-0612CB90", ""}
	assert.Equal(t, 103, m.MaxSequence(codes))

	_, ok := m.Sequence("I-0512BIC50")
	assert.False(t, ok)
	assert.Equal(t, 0, NewBucketMatcher("0101", "XXX").MaxSequence(codes))
}
