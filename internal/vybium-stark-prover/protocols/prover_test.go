package protocols

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/air"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/logger"
)

func init() {
	logger.Disable()
}

func testOptions() ProofOptions {
	return NewProofOptions(32, 4)
}

func TestProveFibonacci(t *testing.T) {
	options := testOptions()
	prover, err := NewProver(options)
	require.NoError(t, err)

	a, err := NewFibonacciAir(16, options)
	require.NoError(t, err)
	trace, err := NewFibonacciTrace(16, core.FeltOne(), core.FeltOne())
	require.NoError(t, err)

	proof, err := prover.Prove(a, trace)
	require.NoError(t, err)
	require.NoError(t, proof.Validate())

	// No extension columns: base trace and composition commitments only.
	assert.Len(t, proof.Commitments, 2)
	assert.Equal(t, options, proof.Options)
	assert.Equal(t, a.TraceInfo(), proof.TraceInfo)
}

func TestProveIsDeterministic(t *testing.T) {
	options := testOptions()
	a, err := NewFibonacciAir(16, options)
	require.NoError(t, err)

	run := func() *Proof {
		prover, err := NewProver(options)
		require.NoError(t, err)
		trace, err := NewFibonacciTrace(16, core.FeltOne(), core.FeltOne())
		require.NoError(t, err)
		proof, err := prover.Prove(a, trace)
		require.NoError(t, err)
		return proof
	}

	first := run()
	second := run()
	require.Len(t, second.Commitments, len(first.Commitments))
	for i := range first.Commitments {
		assert.True(t, bytes.Equal(first.Commitments[i], second.Commitments[i]), "commitment %d", i)
	}
}

func TestProofSerializesAfterProving(t *testing.T) {
	options := testOptions()
	prover, err := NewProver(options)
	require.NoError(t, err)
	a, err := NewFibonacciAir(8, options)
	require.NoError(t, err)
	trace, err := NewFibonacciTrace(8, core.FeltOne(), core.FeltOne())
	require.NoError(t, err)

	proof, err := prover.Prove(a, trace)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, proof.Serialize(&buf))
	restored, err := DeserializeProof(&buf)
	require.NoError(t, err)
	assert.Equal(t, proof.Commitments, restored.Commitments)
}

func TestNewProverRejectsBadOptions(t *testing.T) {
	_, err := NewProver(NewProofOptions(0, 4))
	assert.True(t, errors.Is(err, &ProvingError{Code: ErrCodeInvalidOptions}))
}

// greedyAir inflates the constraint-evaluation blowup beyond the extension
// blowup.
type greedyAir struct {
	*FibonacciAir
}

func (a *greedyAir) CeBlowupFactor() int { return 64 }

func TestProveRejectsBlowupMisconfiguration(t *testing.T) {
	options := testOptions()
	prover, err := NewProver(options)
	require.NoError(t, err)
	fib, err := NewFibonacciAir(16, options)
	require.NoError(t, err)
	trace, err := NewFibonacciTrace(16, core.FeltOne(), core.FeltOne())
	require.NoError(t, err)

	_, err = prover.Prove(&greedyAir{fib}, trace)
	assert.True(t, errors.Is(err, &ProvingError{Code: ErrCodeBlowupFactor}))
}

// wrongDegreeAir misdeclares the composition degree.
type wrongDegreeAir struct {
	*FibonacciAir
}

func (a *wrongDegreeAir) CompositionDegree() int { return 3 }

func TestProveRejectsCompositionDegreeMismatch(t *testing.T) {
	options := testOptions()
	prover, err := NewProver(options)
	require.NoError(t, err)
	fib, err := NewFibonacciAir(16, options)
	require.NoError(t, err)
	trace, err := NewFibonacciTrace(16, core.FeltOne(), core.FeltOne())
	require.NoError(t, err)

	_, err = prover.Prove(&wrongDegreeAir{fib}, trace)
	assert.True(t, errors.Is(err, &ProvingError{Code: ErrCodeCompositionDegree}))
}

// rawTrace is a Trace over explicit columns.
type rawTrace struct {
	info TraceInfo
	base *Matrix
}

func (t *rawTrace) Info() TraceInfo      { return t.info }
func (t *rawTrace) BaseColumns() *Matrix { return t.base }
func (t *rawTrace) BuildExtensionColumns(_ []core.Felt) (*Matrix, bool) {
	return nil, false
}

func TestProveRejectsUnsatisfiedConstraint(t *testing.T) {
	options := testOptions()
	prover, err := NewProver(options)
	require.NoError(t, err)
	fib, err := NewFibonacciAir(16, options)
	require.NoError(t, err)

	// Fibonacci columns with one corrupted cell.
	left := make([]core.Felt, 16)
	right := make([]core.Felt, 16)
	a, b := core.FeltOne(), core.FeltOne()
	for i := 0; i < 16; i++ {
		left[i] = a
		right[i] = b
		a, b = b, a.Add(b)
	}
	right[7] = right[7].Add(core.FeltOne())
	base, err := NewMatrix([][]core.Felt{left, right})
	require.NoError(t, err)

	trace := &rawTrace{info: fib.TraceInfo(), base: base}
	_, err = prover.Prove(fib, trace)
	assert.True(t, errors.Is(err, &ProvingError{Code: ErrCodeUnsatisfiedConstraint}))
}

func TestProveRejectsShapeMismatch(t *testing.T) {
	options := testOptions()
	prover, err := NewProver(options)
	require.NoError(t, err)
	fib, err := NewFibonacciAir(16, options)
	require.NoError(t, err)

	// Trace declared for a different length than the AIR.
	trace, err := NewFibonacciTrace(8, core.FeltOne(), core.FeltOne())
	require.NoError(t, err)

	_, err = prover.Prove(fib, trace)
	assert.True(t, errors.Is(err, &ProvingError{Code: ErrCodeTrace}))
}

// scaledAir extends the Fibonacci AIR with one challenge-derived column
// holding ch * left, plus the matching constraint.
type scaledAir struct {
	info    TraceInfo
	options ProofOptions
}

func (a *scaledAir) TraceInfo() TraceInfo   { return a.info }
func (a *scaledAir) Options() ProofOptions  { return a.options }
func (a *scaledAir) NumChallenges() int     { return 1 }
func (a *scaledAir) CeBlowupFactor() int    { return 1 }
func (a *scaledAir) CompositionDegree() int { return a.info.TraceLength - 1 }

func (a *scaledAir) TransitionConstraints(challenges []core.Felt) []*air.Constraint[core.Felt] {
	c0 := air.ColumnIndex(0)
	c1 := air.ColumnIndex(1)
	c2 := air.ColumnIndex(2)
	return []*air.Constraint[core.Felt]{
		air.AreEq(air.Next[core.Felt](c0), air.Curr[core.Felt](c1)),
		air.AreEq(air.Next[core.Felt](c1), air.Curr[core.Felt](c0).Add(air.Curr[core.Felt](c1))),
		air.AreEq(air.Curr[core.Felt](c2), air.Curr[core.Felt](c0).MulScalar(challenges[0])),
	}
}

// scaledTrace builds the extension column once the challenge is known.
type scaledTrace struct {
	info TraceInfo
	base *Matrix
}

func (t *scaledTrace) Info() TraceInfo      { return t.info }
func (t *scaledTrace) BaseColumns() *Matrix { return t.base }

func (t *scaledTrace) BuildExtensionColumns(challenges []core.Felt) (*Matrix, bool) {
	left := t.base.Column(0)
	ext := make([]core.Felt, len(left))
	for i, v := range left {
		ext[i] = v.Mul(challenges[0])
	}
	m, err := NewMatrix([][]core.Felt{ext})
	if err != nil {
		return nil, false
	}
	return m, true
}

func TestProveWithExtensionColumns(t *testing.T) {
	options := testOptions()
	prover, err := NewProver(options)
	require.NoError(t, err)

	info := TraceInfo{TraceLength: 16, NumBaseColumns: 2, NumExtensionColumns: 1}
	fibTrace, err := NewFibonacciTrace(16, core.FeltOne(), core.FeltOne())
	require.NoError(t, err)

	a := &scaledAir{info: info, options: options}
	trace := &scaledTrace{info: info, base: fibTrace.BaseColumns()}

	proof, err := prover.Prove(a, trace)
	require.NoError(t, err)
	require.NoError(t, proof.Validate())

	// Base, extension, and composition commitments.
	assert.Len(t, proof.Commitments, 3)
}

func TestProveRejectsExtensionMismatch(t *testing.T) {
	options := testOptions()
	prover, err := NewProver(options)
	require.NoError(t, err)

	// AIR declares an extension column the trace never builds.
	info := TraceInfo{TraceLength: 16, NumBaseColumns: 2, NumExtensionColumns: 1}
	fibTrace, err := NewFibonacciTrace(16, core.FeltOne(), core.FeltOne())
	require.NoError(t, err)

	a := &scaledAir{info: info, options: options}
	trace := &rawTrace{info: info, base: fibTrace.BaseColumns()}

	_, err = prover.Prove(a, trace)
	assert.True(t, errors.Is(err, &ProvingError{Code: ErrCodeTrace}))
}
