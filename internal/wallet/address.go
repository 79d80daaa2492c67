// Package wallet verifies wallet addresses and reads native balances over
// JSON-RPC.
package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"adam-dashboard/internal/domain"
)

// ErrInvalidAddress is returned for malformed or mis-checksummed addresses.
var ErrInvalidAddress = errors.New("invalid address")

// ErrUnsupportedChain is returned for chains without a configured client.
var ErrUnsupportedChain = errors.New("unsupported chain")

// ValidateAddress checks that addr is a well-formed wallet address on chain.
func ValidateAddress(chain domain.Chain, addr string) error {
	addr = strings.TrimSpace(addr)
	switch {
	case chain == domain.ChainSolana:
		return validateSolana(addr)
	case chain.IsEVM():
		return validateEVM(addr)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChain, string(chain))
	}
}

// validateSolana requires 32 base58 bytes that decode to an ed25519 point.
// Program-derived addresses are off-curve and cannot own a funded wallet.
func validateSolana(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: not base58", ErrInvalidAddress)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: decoded to %d bytes, want 32", ErrInvalidAddress, len(raw))
	}
	if !isOnCurve(raw) {
		return fmt.Errorf("%w: not an ed25519 public key", ErrInvalidAddress)
	}
	return nil
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

func validateEVM(addr string) error {
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") {
		return fmt.Errorf("%w: want 0x followed by 40 hex digits", ErrInvalidAddress)
	}
	body := addr[2:]
	if _, err := hex.DecodeString(body); err != nil {
		return fmt.Errorf("%w: not hex", ErrInvalidAddress)
	}
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}
	if want := ChecksumAddress(addr); want != addr {
		return fmt.Errorf("%w: checksum mismatch, want %s", ErrInvalidAddress, want)
	}
	return nil
}

// ChecksumAddress returns the EIP-55 mixed-case form of a 0x address.
func ChecksumAddress(addr string) string {
	body := strings.ToLower(strings.TrimPrefix(addr, "0x"))
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(body))
	sum := h.Sum(nil)

	out := []byte(body)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := sum[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - 32
		}
	}
	return "0x" + string(out)
}
