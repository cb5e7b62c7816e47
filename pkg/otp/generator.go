// Package otp supplies the crypto/rand backed code and token generators used
// by the login flow. Both generators are stateless and safe for concurrent
// use.
package otp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	// CodeDigits is the length of a one-time login code.
	CodeDigits = 6
	// TokenBytes is the entropy of a session token before hex encoding.
	TokenBytes = 32
)

var codeSpan = big.NewInt(1_000_000)

// CodeGenerator mints uniformly distributed six-digit codes, zero padded so
// "004210" is as likely as "994210".
type CodeGenerator struct{}

// Code implements types.CodeGenerator.
func (CodeGenerator) Code() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", fmt.Errorf("otp: code generation failed: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// TokenGenerator mints 256-bit session tokens rendered as 64 hex characters.
type TokenGenerator struct{}

// Token implements types.TokenGenerator.
func (TokenGenerator) Token() (string, error) {
	raw := make([]byte, TokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("otp: token generation failed: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
