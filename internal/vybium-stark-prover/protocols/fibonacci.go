package protocols

import (
	"fmt"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/air"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/utils"
)

// FibonacciAir proves a Fibonacci computation. The trace has two columns
// holding consecutive sequence values, so each row steps the sequence
// twice:
//
//	next[0] = curr[1]
//	next[1] = curr[0] + curr[1]
//
// Both constraints are linear, so the composition polynomial has degree
// traceLength-1 and no extra constraint-evaluation blowup is needed.
type FibonacciAir struct {
	info    TraceInfo
	options ProofOptions
}

// NewFibonacciAir creates the AIR for a Fibonacci trace of the given
// length, which must be a power of two of at least 2.
func NewFibonacciAir(traceLength int, options ProofOptions) (*FibonacciAir, error) {
	if traceLength < 2 || !utils.IsPowerOfTwo(traceLength) {
		return nil, fmt.Errorf("trace length must be a power of two >= 2, got %d", traceLength)
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &FibonacciAir{
		info: TraceInfo{
			TraceLength:    traceLength,
			NumBaseColumns: 2,
		},
		options: options,
	}, nil
}

func (f *FibonacciAir) TraceInfo() TraceInfo   { return f.info }
func (f *FibonacciAir) Options() ProofOptions  { return f.options }
func (f *FibonacciAir) NumChallenges() int     { return 0 }
func (f *FibonacciAir) CeBlowupFactor() int    { return 1 }
func (f *FibonacciAir) CompositionDegree() int { return f.info.TraceLength - 1 }

func (f *FibonacciAir) TransitionConstraints(_ []core.Felt) []*air.Constraint[core.Felt] {
	c0 := air.ColumnIndex(0)
	c1 := air.ColumnIndex(1)
	return []*air.Constraint[core.Felt]{
		air.AreEq(air.Next[core.Felt](c0), air.Curr[core.Felt](c1)),
		air.AreEq(air.Next[core.Felt](c1), air.Curr[core.Felt](c0).Add(air.Curr[core.Felt](c1))),
	}
}

// FibonacciTrace is the execution trace matching FibonacciAir.
type FibonacciTrace struct {
	info TraceInfo
	base *Matrix
}

// NewFibonacciTrace computes a Fibonacci trace of the given length
// starting from the given pair of sequence values.
func NewFibonacciTrace(traceLength int, first, second core.Felt) (*FibonacciTrace, error) {
	if traceLength < 2 || !utils.IsPowerOfTwo(traceLength) {
		return nil, fmt.Errorf("trace length must be a power of two >= 2, got %d", traceLength)
	}

	left := make([]core.Felt, traceLength)
	right := make([]core.Felt, traceLength)
	a, b := first, second
	for i := 0; i < traceLength; i++ {
		left[i] = a
		right[i] = b
		a, b = b, a.Add(b)
	}

	base, err := NewMatrix([][]core.Felt{left, right})
	if err != nil {
		return nil, err
	}
	return &FibonacciTrace{
		info: TraceInfo{TraceLength: traceLength, NumBaseColumns: 2},
		base: base,
	}, nil
}

func (t *FibonacciTrace) Info() TraceInfo      { return t.info }
func (t *FibonacciTrace) BaseColumns() *Matrix { return t.base }

func (t *FibonacciTrace) BuildExtensionColumns(_ []core.Felt) (*Matrix, bool) {
	return nil, false
}
