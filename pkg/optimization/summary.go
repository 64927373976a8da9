// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single equal-cost search.
type Summary struct {
	Comparison string  `json:"comparison"`
	Field      string  `json:"field"`
	Original   float64 `json:"original"`
	Value      float64 `json:"value"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	// Gap is SummaryA minus SummaryB with Field set to Value.
	Gap        float64  `json:"gap"`
	Iterations int      `json:"iterations"`
	Converged  bool     `json:"converged"`
	Notes      []string `json:"notes,omitempty"`
}
