package card

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name    string
		address string
		half    Half
		want    string
	}{
		{"short contract first half", "0x1234567890abcdef", FirstHalf, "4207691234567800"},
		{"short contract second half", "0x1234567890abcdef", SecondHalf, "42076990abcdef00"},
		{"empty", "", FirstHalf, "4207690000000000"},
		{"empty second", "", SecondHalf, "4207690000000000"},
		{"all invalid", "zzzz-!!", FirstHalf, "4207690000000000"},
		{"eth address first", "0x52908400098527886E0F7030069857D2E4169EE7", FirstHalf, "4207695290840009"},
		{"eth address second", "0x52908400098527886E0F7030069857D2E4169EE7", SecondHalf, "4207697030069857"},
		{"odd length remainder to second", "abcde", SecondHalf, "420769cde0000000"},
		{"odd length first", "abcde", FirstHalf, "420769ab00000000"},
		{"only leading prefix stripped", "0x0x12", SecondHalf, "4207691200000000"},
		{"upper case prefix", "0XABCDEF", FirstHalf, "420769abc0000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.address, tt.half))
		})
	}
}

func TestDeriveNormalizesPrefixAndCase(t *testing.T) {
	assert.Equal(t, Derive("abcdef", FirstHalf), Derive("0xABCDEF", FirstHalf))
	assert.Equal(t, Derive("abcdef", SecondHalf), Derive("0xABCDEF", SecondHalf))
}

func TestDeriveShapeAndDeterminism(t *testing.T) {
	inputs := []string{
		"0x1234567890abcdef",
		"0xdAC17F958D2ee523a2206206994597C13D831ec7",
		"bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
		"f",
		"0x",
		strings.Repeat("ab", 100),
	}
	for _, in := range inputs {
		for _, half := range []Half{FirstHalf, SecondHalf} {
			got := Derive(in, half)
			assert.Len(t, got, 16, in)
			assert.True(t, strings.HasPrefix(got, BIN), in)
			assert.Equal(t, got, Derive(in, half), "repeat call must match for %q", in)
		}
	}
}

func TestDeriveHalvesDiffer(t *testing.T) {
	assert.NotEqual(t,
		Derive("0x1234567890abcdef", FirstHalf),
		Derive("0x1234567890abcdef", SecondHalf))
}

func TestParseHalf(t *testing.T) {
	h, err := ParseHalf("First")
	require.NoError(t, err)
	assert.Equal(t, FirstHalf, h)

	h, err = ParseHalf("second")
	require.NoError(t, err)
	assert.Equal(t, SecondHalf, h)

	_, err = ParseHalf("middle")
	assert.Error(t, err)
	_, err = ParseHalf("")
	assert.Error(t, err)
}
