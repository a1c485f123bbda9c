package vybiumstarkprover

import (
	"io"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/air"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/protocols"
)

// U256 is a 256-bit unsigned integer
type U256 = core.U256

// Uint128 is a 128-bit unsigned integer limb
type Uint128 = core.Uint128

// Felt is a field element of the prime field over N = 2^256 - 2^32 - 977
type Felt = core.Felt

// MerkleTree is a binary hash tree over serialized rows
type MerkleTree = core.MerkleTree

// ProofNode is a single authentication-path entry of a Merkle proof
type ProofNode = core.ProofNode

// Constraint is a symbolic multivariate transition constraint over field
// elements
type Constraint = air.Constraint[core.Felt]

// Column identifies a trace column in a constraint
type Column = air.Column

// ColumnIndex is the plain integer Column implementation
type ColumnIndex = air.ColumnIndex

// Air is the algebraic intermediate representation of a computation
type Air = protocols.Air

// Trace is an execution trace consumed by the prover
type Trace = protocols.Trace

// TraceInfo describes the shape of an execution trace
type TraceInfo = protocols.TraceInfo

// Matrix is a column-major table of field elements
type Matrix = protocols.Matrix

// Prover runs the commit/challenge pipeline
type Prover = protocols.Prover

// Proof is the artifact of a proving session
type Proof = protocols.Proof

// ProofOptions configures the soundness parameters of a proving session
type ProofOptions = protocols.ProofOptions

// FibonacciAir is the bundled example AIR
type FibonacciAir = protocols.FibonacciAir

// FibonacciTrace is the bundled example trace
type FibonacciTrace = protocols.FibonacciTrace

// Zero returns the field's additive identity
func Zero() Felt { return core.FeltZero() }

// One returns the field's multiplicative identity
func One() Felt { return core.FeltOne() }

// NewFelt reduces a 256-bit integer into the field
func NewFelt(v U256) Felt { return core.NewFelt(v) }

// NewFeltFromUint64 lifts a small integer into the field
func NewFeltFromUint64(v uint64) Felt { return core.NewFeltFromUint64(v) }

// Curr references a column on the current trace row
func Curr(col Column) *Constraint { return air.Curr[core.Felt](col) }

// Next references a column on the next trace row
func Next(col Column) *Constraint { return air.Next[core.Felt](col) }

// Scalar lifts a field element into a constant constraint
func Scalar(e Felt) *Constraint { return air.Scalar(e) }

// AreEq constrains two expressions to be equal
func AreEq(a, b *Constraint) *Constraint { return air.AreEq(a, b) }

// IsBinary constrains an expression to 0 or 1
func IsBinary(a *Constraint) *Constraint { return air.IsBinary(a) }

// NewProofOptions creates proof options
func NewProofOptions(numQueries, blowupFactor uint8) ProofOptions {
	return protocols.NewProofOptions(numQueries, blowupFactor)
}

// NewProver creates a prover with the given options
func NewProver(options ProofOptions) (*Prover, error) {
	return protocols.NewProver(options)
}

// NewFibonacciAir creates the bundled example AIR
func NewFibonacciAir(traceLength int, options ProofOptions) (*FibonacciAir, error) {
	return protocols.NewFibonacciAir(traceLength, options)
}

// NewFibonacciTrace computes the bundled example trace
func NewFibonacciTrace(traceLength int, first, second Felt) (*FibonacciTrace, error) {
	return protocols.NewFibonacciTrace(traceLength, first, second)
}

// NewMatrix wraps column slices as a matrix
func NewMatrix(columns [][]Felt) (*Matrix, error) {
	return protocols.NewMatrix(columns)
}

// DeserializeProof reads a proof written by Proof.Serialize
func DeserializeProof(r io.Reader) (*Proof, error) {
	return protocols.DeserializeProof(r)
}
