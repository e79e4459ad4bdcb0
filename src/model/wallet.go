package model

import (
	"errors"
	"regexp"
	"strings"
)

// WalletAddress is a validated 0x-prefixed 40-hex-char EVM address.
// Case is preserved as received; the venue accepts either casing.
type WalletAddress string

var ErrInvalidAddress = errors.New("invalid wallet address")

var (
	addressCandidateRe = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)
	addressExactRe     = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// ExtractWalletAddress pulls a wallet address out of free-form user input.
// The input may be a bare address, a HyperDash URL containing the address,
// or anything else. The first 0x + 40 hex substring wins; otherwise the
// trimmed input itself is the candidate. The candidate must fully match the
// canonical pattern or ErrInvalidAddress is returned.
func ExtractWalletAddress(input string) (WalletAddress, error) {
	candidate := strings.TrimSpace(input)
	if m := addressCandidateRe.FindString(candidate); m != "" {
		candidate = m
	}
	if !addressExactRe.MatchString(candidate) {
		return "", ErrInvalidAddress
	}
	return WalletAddress(candidate), nil
}

func (w WalletAddress) String() string {
	return string(w)
}
