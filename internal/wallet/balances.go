package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"adam-dashboard/internal/domain"
)

const (
	lamportsExp = -9
	weiExp      = -18
)

// BalanceSource reads native balances in whole units.
type BalanceSource interface {
	Balance(ctx context.Context, chain domain.Chain, address string) (decimal.Decimal, error)
}

// Balances routes balance reads to a per-chain RPC client.
type Balances struct {
	clients map[domain.Chain]*Client
}

// NewBalances creates an empty router. Register clients with Set.
func NewBalances() *Balances {
	return &Balances{clients: make(map[domain.Chain]*Client)}
}

// Set registers the client used for chain.
func (b *Balances) Set(chain domain.Chain, c *Client) *Balances {
	b.clients[chain] = c
	return b
}

// Balance returns the native balance of address, in SOL or ETH.
func (b *Balances) Balance(ctx context.Context, chain domain.Chain, address string) (decimal.Decimal, error) {
	c, ok := b.clients[chain]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	if chain == domain.ChainSolana {
		lamports, err := c.GetBalance(ctx, address)
		if err != nil {
			return decimal.Zero, fmt.Errorf("getBalance %s: %w", address, err)
		}
		return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), lamportsExp), nil
	}
	wei, err := c.EthGetBalance(ctx, address)
	if err != nil {
		return decimal.Zero, fmt.Errorf("eth_getBalance %s: %w", address, err)
	}
	return decimal.NewFromBigInt(wei, weiExp), nil
}

// Chains lists the chains with a registered client, sorted.
func (b *Balances) Chains() []domain.Chain {
	out := make([]domain.Chain, 0, len(b.clients))
	for chain := range b.clients {
		out = append(out, chain)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Health asks every registered node for its head (getSlot on Solana,
// eth_blockNumber on EVM chains). A nil entry means the node answered.
func (b *Balances) Health(ctx context.Context) map[domain.Chain]error {
	out := make(map[domain.Chain]error, len(b.clients))
	for chain, c := range b.clients {
		var err error
		if chain == domain.ChainSolana {
			_, err = c.GetSlot(ctx)
		} else {
			_, err = c.EthBlockNumber(ctx)
		}
		out[chain] = err
	}
	return out
}
