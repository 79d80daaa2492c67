package lookup

import (
	"errors"
	"testing"

	"adam-dashboard/internal/domain"
)

func samplePrices() []*domain.PricePoint {
	return []*domain.PricePoint{
		{Symbol: "SOL", TimestampMs: 1000, Price: 1.0},
		{Symbol: "SOL", TimestampMs: 2000, Price: 2.0},
		{Symbol: "SOL", TimestampMs: 3000, Price: 3.0},
	}
}

func TestPriceAt_Empty(t *testing.T) {
	if _, err := PriceAt(1000, nil); !errors.Is(err, ErrNoPriceData) {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}
}

func TestPriceAt(t *testing.T) {
	tests := []struct {
		name   string
		target int64
		want   float64
	}{
		{"exact match", 2000, 2.0},
		{"between points", 2500, 2.0},
		{"before first", 500, 1.0},
		{"after last", 5000, 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PriceAt(tt.target, samplePrices())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PriceAt(%d) = %f, want %f", tt.target, got, tt.want)
			}
		})
	}
}
