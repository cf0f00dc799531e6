package perf

import "context"

// CostModel evaluates the cost of the half-open interval [start, end) over
// a fixed domain [0, Len()]. Implementations are immutable after
// construction.
type CostModel interface {
	Eval(start, end int) (float64, error)
	Len() int
}

// ChangeDetector types calculate change points.
type ChangeDetector interface {
	DetectChanges(context.Context, []float64) ([]ChangePoint, error)
}

type ChangePoint struct {
	Index int
	Gain  float64
	Info  AlgorithmInfo
}

type AlgorithmInfo struct {
	Name    string
	Version int
	Options []AlgorithmOption
}

type AlgorithmOption struct {
	Name  string
	Value interface{}
}
