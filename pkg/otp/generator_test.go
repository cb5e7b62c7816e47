package otp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_Format(t *testing.T) {
	gen := CodeGenerator{}
	pattern := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 200; i++ {
		code, err := gen.Code()
		require.NoError(t, err)
		require.True(t, pattern.MatchString(code), "unexpected code %q", code)
	}
}

func TestCodeGenerator_CoversLeadingZeros(t *testing.T) {
	gen := CodeGenerator{}
	seen := false
	for i := 0; i < 5000 && !seen; i++ {
		code, err := gen.Code()
		require.NoError(t, err)
		if code[0] == '0' {
			seen = true
		}
	}
	require.True(t, seen, "no zero-padded code in 5000 draws")
}

func TestTokenGenerator_LengthAndUniqueness(t *testing.T) {
	gen := TokenGenerator{}
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		token, err := gen.Token()
		require.NoError(t, err)
		require.Len(t, token, TokenBytes*2)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token %s", token)
		seen[token] = struct{}{}
	}
}
