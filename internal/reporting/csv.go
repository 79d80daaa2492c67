package reporting

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"adam-dashboard/internal/domain"
)

// WriteSeriesCSV writes time,iso_time,value rows.
func WriteSeriesCSV(w io.Writer, s domain.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "iso_time", "value"}); err != nil {
		return err
	}
	for _, p := range s {
		if err := cw.Write([]string{
			strconv.FormatInt(p.Time, 10),
			time.Unix(p.Time, 0).UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.Value, 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTradesCSV writes one row per trade.
func WriteTradesCSV(w io.Writer, trades []*domain.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"trade_id", "agent_id", "symbol", "side", "quantity", "price", "fee_usd", "executed_at_ms"}); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write([]string{
			t.TradeID,
			t.AgentID,
			t.Symbol,
			string(t.Side),
			strconv.FormatFloat(t.Quantity, 'f', -1, 64),
			strconv.FormatFloat(t.Price, 'f', -1, 64),
			strconv.FormatFloat(t.FeeUSD, 'f', 2, 64),
			strconv.FormatInt(t.ExecutedAtMs, 10),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
