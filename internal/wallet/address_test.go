package wallet

import (
	"crypto/ed25519"
	"errors"
	"strings"
	"testing"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"adam-dashboard/internal/domain"
)

func solanaAddress(seed byte) string {
	s := make([]byte, ed25519.SeedSize)
	s[0] = seed
	pub := ed25519.NewKeyFromSeed(s).Public().(ed25519.PublicKey)
	return base58.Encode(pub)
}

func offCurveAddress(t *testing.T) string {
	t.Helper()
	b := make([]byte, 32)
	for i := 0; i < 256; i++ {
		b[0] = byte(i)
		if _, err := new(edwards25519.Point).SetBytes(b); err != nil {
			return base58.Encode(b)
		}
	}
	t.Fatal("no off-curve encoding found")
	return ""
}

func TestValidateAddress_Solana(t *testing.T) {
	if err := ValidateAddress(domain.ChainSolana, solanaAddress(7)); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}

	bad := map[string]string{
		"empty":     "",
		"not b58":   "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl",
		"too short": base58.Encode([]byte{1, 2, 3}),
		"off curve": offCurveAddress(t),
	}
	for name, addr := range bad {
		t.Run(name, func(t *testing.T) {
			err := ValidateAddress(domain.ChainSolana, addr)
			if !errors.Is(err, ErrInvalidAddress) {
				t.Errorf("ValidateAddress(%q) = %v, want ErrInvalidAddress", addr, err)
			}
		})
	}
}

func TestValidateAddress_EVM(t *testing.T) {
	valid := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
		"0x52908400098527886e0f7030069857d2e4169ee7", // all lower
		"0x8617E340B3D01FA5F11F306F4090FD50E238070D", // all upper
	}
	for _, addr := range valid {
		for _, chain := range []domain.Chain{domain.ChainEthereum, domain.ChainBase} {
			if err := ValidateAddress(chain, addr); err != nil {
				t.Errorf("ValidateAddress(%s, %s) = %v", chain, addr, err)
			}
		}
	}

	invalid := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD", // checksum flipped
		"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed00",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeA",
		"0xZZAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	}
	for _, addr := range invalid {
		if err := ValidateAddress(domain.ChainEthereum, addr); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("ValidateAddress(%s) = %v, want ErrInvalidAddress", addr, err)
		}
	}
}

func TestValidateAddress_UnknownChain(t *testing.T) {
	err := ValidateAddress(domain.Chain("DOGE"), "abc")
	if !errors.Is(err, ErrUnsupportedChain) {
		t.Errorf("expected ErrUnsupportedChain, got %v", err)
	}
}

func TestChecksumAddress(t *testing.T) {
	want := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	if got := ChecksumAddress(strings.ToLower(want)); got != want {
		t.Errorf("ChecksumAddress = %s, want %s", got, want)
	}
}
