package protocols

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/air"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
)

// constraintEvaluator combines an AIR's transition constraints into the
// composed column over the low-degree extension, weighting each
// constraint by its transcript coefficient.
type constraintEvaluator struct {
	constraints  []*air.Constraint[core.Felt]
	coefficients []core.Felt
}

func newConstraintEvaluator(constraints []*air.Constraint[core.Felt], coefficients []core.Felt) (*constraintEvaluator, error) {
	if len(coefficients) != len(constraints) {
		return nil, fmt.Errorf("have %d composition coefficients for %d constraints", len(coefficients), len(constraints))
	}
	return &constraintEvaluator{constraints: constraints, coefficients: coefficients}, nil
}

// evaluateOverLDE computes the composed column: at every extension point
// x it sums coeff_i * C_i(row(x), row(x * rowStep)). Current-row values
// come from the committed extension; next-row values are evaluated from
// the trace polynomials at the row-shifted point. Rows are processed in
// parallel.
func (e *constraintEvaluator) evaluateOverLDE(traceLDE, tracePolys *Matrix, domains *ProverDomains) ([]core.Felt, error) {
	size := domains.LDE.Size()
	if traceLDE.NumRows() != size {
		return nil, fmt.Errorf("extension has %d rows, domain has %d points", traceLDE.NumRows(), size)
	}
	numCols := traceLDE.NumColumns()
	composed := make([]core.Felt, size)

	var group errgroup.Group
	workers := runtime.NumCPU()
	group.SetLimit(workers)
	chunk := (size + workers - 1) / workers
	for start := 0; start < size; start += chunk {
		start := start
		end := min(start+chunk, size)
		group.Go(func() error {
			next := make([]core.Felt, numCols)
			for r := start; r < end; r++ {
				curr := traceLDE.Row(r)
				shifted := domains.LDE.Point(r).Mul(domains.RowStep)
				for c := 0; c < numCols; c++ {
					next[c] = evalPoly(tracePolys.Column(c), shifted)
				}

				var acc core.Felt
				for i, constraint := range e.constraints {
					acc = acc.Add(e.coefficients[i].Mul(constraint.Evaluate(curr, next)))
				}
				composed[r] = acc
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return composed, nil
}

// checkOverTrace asserts every transition constraint vanishes on each
// consecutive row pair of the evaluated trace. It returns the index of
// the first failing row and constraint, or ok.
func checkOverTrace(constraints []*air.Constraint[core.Felt], values *Matrix) (row, constraint int, ok bool) {
	for r := 0; r < values.NumRows()-1; r++ {
		curr := values.Row(r)
		next := values.Row(r + 1)
		for i, c := range constraints {
			if !c.Evaluate(curr, next).IsZero() {
				return r, i, false
			}
		}
	}
	return 0, 0, true
}
