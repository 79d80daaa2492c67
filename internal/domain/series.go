package domain

// SeriesPoint is a single (time, value) sample.
type SeriesPoint struct {
	Time  int64   `json:"time"`  // Unix timestamp in seconds
	Value float64 `json:"value"` // portfolio or asset value
}

// Series is an ordered sequence of samples. Producers should emit ascending
// time order but consumers re-sort before relying on it.
type Series []SeriesPoint

// Summary is derived from the first and last point of a sorted Series.
type Summary struct {
	StartTime  int64   `json:"startTime"`
	EndTime    int64   `json:"endTime"`
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`
	Change     float64 `json:"change"`
	ChangePct  float64 `json:"changePct"`
}
