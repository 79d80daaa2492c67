// Package idhash derives stable identifiers from record contents.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"adam-dashboard/internal/domain"
)

// ComputeTradeID hashes agent|symbol|side|executed_at_ms|quantity|price
// with SHA-256 and returns 64 hex characters. Floats are written in their
// shortest round-trip form, so re-recording the same fill yields the same ID.
func ComputeTradeID(agentID, symbol string, side domain.TradeSide, executedAtMs int64, quantity, price float64) string {
	data := strings.Join([]string{
		agentID,
		strings.ToUpper(symbol),
		string(side),
		strconv.FormatInt(executedAtMs, 10),
		strconv.FormatFloat(quantity, 'f', -1, 64),
		strconv.FormatFloat(price, 'f', -1, 64),
	}, "|")

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ForTrade computes the ID for t from its fields.
func ForTrade(t *domain.Trade) string {
	return ComputeTradeID(t.AgentID, t.Symbol, t.Side, t.ExecutedAtMs, t.Quantity, t.Price)
}
