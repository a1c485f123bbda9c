package air

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
)

func felt(v uint64) core.Felt {
	return core.NewFeltFromUint64(v)
}

func evalAt(c *Constraint[core.Felt], curr, next []core.Felt) core.Felt {
	return c.Evaluate(curr, next)
}

func TestConstraintLeaves(t *testing.T) {
	curr := []core.Felt{felt(3), felt(5)}
	next := []core.Felt{felt(8), felt(13)}

	a := Curr[core.Felt](ColumnIndex(0))
	b := Curr[core.Felt](ColumnIndex(1))
	c := Next[core.Felt](ColumnIndex(0))

	assert.True(t, evalAt(a, curr, next).Equal(felt(3)))
	assert.True(t, evalAt(b, curr, next).Equal(felt(5)))
	assert.True(t, evalAt(c, curr, next).Equal(felt(8)))
	assert.True(t, evalAt(Scalar(felt(42)), curr, next).Equal(felt(42)))
	assert.True(t, evalAt(Zero[core.Felt](), curr, next).IsZero())
}

func TestConstraintArithmetic(t *testing.T) {
	curr := []core.Felt{felt(3), felt(5)}
	next := []core.Felt{felt(8), felt(13)}

	a := Curr[core.Felt](ColumnIndex(0))
	b := Curr[core.Felt](ColumnIndex(1))

	assert.True(t, evalAt(a.Add(b), curr, next).Equal(felt(8)))
	assert.True(t, evalAt(a.Mul(b), curr, next).Equal(felt(15)))
	assert.True(t, evalAt(b.Sub(a), curr, next).Equal(felt(2)))
	assert.True(t, evalAt(a.Neg(), curr, next).Equal(felt(3).Neg()))
	assert.True(t, evalAt(a.MulScalar(felt(4)), curr, next).Equal(felt(12)))
	assert.True(t, evalAt(a.AddScalar(felt(4)), curr, next).Equal(felt(7)))
	assert.True(t, evalAt(a.SubScalar(felt(4)), curr, next).Equal(felt(3).Sub(felt(4))))

	// (a + b)^2 = a^2 + 2ab + b^2
	lhs := a.Add(b).Mul(a.Add(b))
	rhs := a.Mul(a).Add(a.Mul(b).MulScalar(felt(2))).Add(b.Mul(b))
	assert.True(t, evalAt(lhs, curr, next).Equal(evalAt(rhs, curr, next)))
	assert.Equal(t, lhs.NumTerms(), rhs.NumTerms())
}

func TestConstraintCancellation(t *testing.T) {
	a := Curr[core.Felt](ColumnIndex(0))

	diff := a.Sub(a)
	assert.True(t, diff.IsZero())
	assert.Equal(t, 0, diff.NumTerms())

	// Adding and subtracting the same scalar leaves the term set unchanged.
	roundTrip := a.AddScalar(felt(7)).SubScalar(felt(7))
	assert.Equal(t, 1, roundTrip.NumTerms())
}

func TestConstraintDegree(t *testing.T) {
	a := Curr[core.Felt](ColumnIndex(0))
	b := Next[core.Felt](ColumnIndex(1))

	assert.Equal(t, 0, Zero[core.Felt]().Degree())
	assert.Equal(t, 0, Scalar(felt(9)).Degree())
	assert.Equal(t, 1, a.Degree())
	assert.Equal(t, 2, a.Mul(a).Degree())
	assert.Equal(t, 3, a.Mul(a).Mul(b).Degree())

	// Degree of a sum is the maximum term degree.
	assert.Equal(t, 2, a.Mul(a).Add(b).Degree())
}

func TestConstraintMulCombinesExponents(t *testing.T) {
	curr := []core.Felt{felt(3)}

	a := Curr[core.Felt](ColumnIndex(0))
	cube := a.Mul(a).Mul(a)

	assert.Equal(t, 1, cube.NumTerms())
	assert.Equal(t, 3, cube.Degree())
	assert.True(t, evalAt(cube, curr, nil).Equal(felt(27)))
}

func TestConstraintSameColumnBothRows(t *testing.T) {
	// curr and next references of one column are distinct variables.
	curr := []core.Felt{felt(3)}
	next := []core.Felt{felt(5)}

	a := Curr[core.Felt](ColumnIndex(0))
	b := Next[core.Felt](ColumnIndex(0))
	prod := a.Mul(b)

	assert.Equal(t, 2, prod.Degree())
	assert.True(t, evalAt(prod, curr, next).Equal(felt(15)))
	assert.False(t, a.Sub(b).IsZero())
}

func TestPredicates(t *testing.T) {
	curr := []core.Felt{felt(7), felt(7), felt(1), felt(0)}

	a := Curr[core.Felt](ColumnIndex(0))
	b := Curr[core.Felt](ColumnIndex(1))
	one := Curr[core.Felt](ColumnIndex(2))
	zero := Curr[core.Felt](ColumnIndex(3))

	assert.True(t, evalAt(AreEq(a, b), curr, nil).IsZero())
	assert.False(t, evalAt(AreEq(a, one), curr, nil).IsZero())
	assert.True(t, evalAt(IsZero(zero), curr, nil).IsZero())
	assert.True(t, evalAt(IsOne(one), curr, nil).IsZero())

	// IsBinary vanishes on 0 and 1, and nowhere else.
	assert.True(t, evalAt(IsBinary(zero), curr, nil).IsZero())
	assert.True(t, evalAt(IsBinary(one), curr, nil).IsZero())
	assert.False(t, evalAt(IsBinary(a), curr, nil).IsZero())
}

func TestConstraintCanonicalOrder(t *testing.T) {
	a := Curr[core.Felt](ColumnIndex(0))
	b := Curr[core.Felt](ColumnIndex(1))

	// Construction order does not affect the term set.
	left := a.Mul(b).Add(a).AddScalar(felt(5))
	right := Scalar[core.Felt](felt(5)).Add(a).Add(b.Mul(a))

	assert.Equal(t, left.NumTerms(), right.NumTerms())

	curr := []core.Felt{felt(2), felt(9)}
	assert.True(t, evalAt(left.Sub(right), curr, nil).IsZero())
	assert.True(t, left.Sub(right).IsZero())
}

func TestConstraintEvaluateMissingNext(t *testing.T) {
	// Constraints without next-row references accept a nil next slice.
	a := Curr[core.Felt](ColumnIndex(0))
	got := a.MulScalar(felt(2)).Evaluate([]core.Felt{felt(21)}, nil)
	assert.True(t, got.Equal(felt(42)))
}
