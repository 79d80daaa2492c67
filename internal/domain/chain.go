package domain

import "strings"

// Chain identifies the blockchain an agent wallet lives on.
type Chain string

const (
	ChainSolana   Chain = "SOLANA"
	ChainEthereum Chain = "ETHEREUM"
	ChainBase     Chain = "BASE"
)

// ParseChain normalizes user input. Unknown values are returned as-is and
// fail IsValid.
func ParseChain(s string) Chain {
	return Chain(strings.ToUpper(strings.TrimSpace(s)))
}

// String returns the string representation of Chain.
func (c Chain) String() string {
	return string(c)
}

// IsValid checks if the chain is supported.
func (c Chain) IsValid() bool {
	return c == ChainSolana || c == ChainEthereum || c == ChainBase
}

// IsEVM reports whether the chain uses 0x-prefixed hex addresses.
func (c Chain) IsEVM() bool {
	return c == ChainEthereum || c == ChainBase
}

// NativeSymbol returns the gas token symbol.
func (c Chain) NativeSymbol() string {
	switch c {
	case ChainSolana:
		return "SOL"
	default:
		return "ETH"
	}
}
