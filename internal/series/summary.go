package series

import (
	"adam-dashboard/internal/domain"
)

// BuildSummary reduces s to its first/last change. s must be non-empty;
// an empty series yields the zero Summary.
func BuildSummary(s domain.Series) domain.Summary {
	if len(s) == 0 {
		return domain.Summary{}
	}
	sorted := Sorted(s)
	first, last := sorted[0], sorted[len(sorted)-1]
	change := last.Value - first.Value

	var pct float64
	if first.Value != 0 {
		pct = change / first.Value * 100
	}
	return domain.Summary{
		StartTime:  first.Time,
		EndTime:    last.Time,
		StartValue: first.Value,
		EndValue:   last.Value,
		Change:     change,
		ChangePct:  pct,
	}
}
