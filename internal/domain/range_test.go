package domain

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want Range
	}{
		{"1h", Range1H},
		{"24H", Range24H},
		{" 7d ", Range7D},
		{"30D", Range30D},
		{"all", RangeAll},
		{"", Range24H},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if err != nil {
			t.Fatalf("ParseRange(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseRange(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseRange_Unknown(t *testing.T) {
	_, err := ParseRange("2W")
	if !errors.Is(err, ErrUnknownRange) {
		t.Fatalf("expected ErrUnknownRange, got %v", err)
	}
}

func TestRangeGranularity(t *testing.T) {
	want := map[Range]Granularity{
		Range1H:  GranularityHourMinute,
		Range24H: GranularityHourMinute,
		Range7D:  GranularityMonthDay,
		Range30D: GranularityMonthDay,
		RangeAll: GranularityMonthYear,
	}
	for r, g := range want {
		if r.Granularity() != g {
			t.Errorf("%s: granularity = %d, want %d", r, r.Granularity(), g)
		}
	}
}

func TestChain(t *testing.T) {
	if c := ParseChain(" solana "); c != ChainSolana {
		t.Errorf("ParseChain = %s, want SOLANA", c)
	}
	if ParseChain("dogecoin").IsValid() {
		t.Error("dogecoin should not be valid")
	}
	if !ChainBase.IsEVM() || ChainSolana.IsEVM() {
		t.Error("IsEVM mismatch")
	}
}
