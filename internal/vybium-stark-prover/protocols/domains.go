package protocols

import (
	"fmt"
	"sync"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/utils"
)

// domainGenerator seeds every evaluation domain. The field has a near-prime
// multiplicative group order, so successive powers of a small non-identity
// element never repeat within any domain size we can hold in memory.
var domainGenerator = core.NewFeltFromUint64(3)

// EvaluationDomain is an ordered set of field points over which trace and
// composition columns are evaluated and interpolated.
type EvaluationDomain struct {
	points []core.Felt
	step   core.Felt

	bary struct {
		once    sync.Once
		err     error
		master  []core.Felt // product poly (x - p_0)...(x - p_{n-1}), len n+1
		weights []core.Felt // barycentric weights 1 / prod_{k!=j} (p_j - p_k)
	}
}

func newEvaluationDomain(size int, start, step core.Felt) *EvaluationDomain {
	points := make([]core.Felt, size)
	p := start
	for i := range points {
		points[i] = p
		p = p.Mul(step)
	}
	return &EvaluationDomain{points: points, step: step}
}

// Size returns the number of points in the domain.
func (d *EvaluationDomain) Size() int { return len(d.points) }

// Point returns the i-th domain point.
func (d *EvaluationDomain) Point(i int) core.Felt { return d.points[i] }

// Points returns the domain points in order.
func (d *EvaluationDomain) Points() []core.Felt { return d.points }

// Step returns the ratio between consecutive points.
func (d *EvaluationDomain) Step() core.Felt { return d.step }

// barycentric lazily computes the master polynomial and the inverted
// barycentric weights shared by every interpolation over this domain.
func (d *EvaluationDomain) barycentric() ([]core.Felt, []core.Felt, error) {
	d.bary.once.Do(func() {
		n := len(d.points)

		// Master polynomial via incremental multiplication by (x - p_j).
		master := make([]core.Felt, n+1)
		master[0] = core.FeltOne()
		degree := 0
		for _, p := range d.points {
			master[degree+1] = master[degree]
			for i := degree; i >= 1; i-- {
				master[i] = master[i-1].Sub(p.Mul(master[i]))
			}
			master[0] = master[0].Mul(p.Neg())
			degree++
		}

		denoms := make([]core.Felt, n)
		for j, pj := range d.points {
			acc := core.FeltOne()
			for k, pk := range d.points {
				if k != j {
					acc = acc.Mul(pj.Sub(pk))
				}
			}
			denoms[j] = acc
		}
		weights, err := core.BatchInverse(denoms)
		if err != nil {
			d.bary.err = fmt.Errorf("computing barycentric weights: %w", err)
			return
		}

		d.bary.master = master
		d.bary.weights = weights
	})
	return d.bary.master, d.bary.weights, d.bary.err
}

// Interpolate returns the coefficients of the unique polynomial of degree
// below the domain size taking the given values over the domain points.
func (d *EvaluationDomain) Interpolate(values []core.Felt) ([]core.Felt, error) {
	n := len(d.points)
	if len(values) != n {
		return nil, fmt.Errorf("interpolation needs %d values, got %d", n, len(values))
	}
	master, weights, err := d.barycentric()
	if err != nil {
		return nil, err
	}

	coeffs := make([]core.Felt, n)
	quotient := make([]core.Felt, n)
	for j := 0; j < n; j++ {
		if values[j].IsZero() {
			continue
		}
		// Synthetic division of the master polynomial by (x - p_j).
		pj := d.points[j]
		quotient[n-1] = master[n]
		for i := n - 1; i >= 1; i-- {
			quotient[i-1] = master[i].Add(pj.Mul(quotient[i]))
		}
		scale := values[j].Mul(weights[j])
		for i := 0; i < n; i++ {
			coeffs[i] = coeffs[i].Add(scale.Mul(quotient[i]))
		}
	}
	return coeffs, nil
}

// Evaluate returns the polynomial's value at every domain point.
func (d *EvaluationDomain) Evaluate(coeffs []core.Felt) []core.Felt {
	out := make([]core.Felt, len(d.points))
	for i, p := range d.points {
		out[i] = evalPoly(coeffs, p)
	}
	return out
}

// evalPoly evaluates a coefficient slice (lowest degree first) by Horner's
// rule.
func evalPoly(coeffs []core.Felt, x core.Felt) core.Felt {
	var acc core.Felt
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(coeffs[i])
	}
	return acc
}

// polyDegree returns the index of the highest nonzero coefficient, or zero
// for the zero polynomial.
func polyDegree(coeffs []core.Felt) int {
	for i := len(coeffs) - 1; i > 0; i-- {
		if !coeffs[i].IsZero() {
			return i
		}
	}
	return 0
}

// ProverDomains pairs the trace domain with its low-degree extension.
//
// Both are runs of powers of the same generator g: the LDE holds g^j for
// j below traceLength*blowup, the trace domain holds every blowup-th of
// those. Advancing one trace row from any LDE point is therefore a single
// multiplication by RowStep = g^blowup.
type ProverDomains struct {
	Trace *EvaluationDomain
	LDE   *EvaluationDomain

	// RowStep shifts an evaluation point forward by one trace row.
	RowStep core.Felt
}

// DeriveProverDomains builds the evaluation domains for a trace of the
// given length extended by the given blowup factor.
func DeriveProverDomains(traceLength, blowupFactor int) (*ProverDomains, error) {
	if !utils.IsPowerOfTwo(traceLength) {
		return nil, fmt.Errorf("trace length must be a power of two, got %d", traceLength)
	}
	if blowupFactor < 1 {
		return nil, fmt.Errorf("blowup factor must be at least 1, got %d", blowupFactor)
	}

	g := domainGenerator
	rowStep := g.Pow(core.U256FromUint64(uint64(blowupFactor)))

	lde := newEvaluationDomain(traceLength*blowupFactor, core.FeltOne(), g)
	trace := newEvaluationDomain(traceLength, core.FeltOne(), rowStep)

	return &ProverDomains{Trace: trace, LDE: lde, RowStep: rowStep}, nil
}
