package protocols

import (
	"fmt"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/air"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
)

// TraceInfo describes the shape of an execution trace.
type TraceInfo struct {
	// TraceLength is the number of rows, a power of two.
	TraceLength int `cbor:"1,keyasint"`

	// NumBaseColumns is the number of columns committed before any
	// challenges are drawn.
	NumBaseColumns int `cbor:"2,keyasint"`

	// NumExtensionColumns is the number of columns derived from the
	// challenges; zero when the AIR declares none.
	NumExtensionColumns int `cbor:"3,keyasint"`
}

// NumColumns returns the total column count.
func (t TraceInfo) NumColumns() int {
	return t.NumBaseColumns + t.NumExtensionColumns
}

// Validate checks the trace shape.
func (t TraceInfo) Validate() error {
	if t.TraceLength < 2 {
		return fmt.Errorf("trace length must be at least 2, got %d", t.TraceLength)
	}
	if t.NumBaseColumns <= 0 {
		return fmt.Errorf("trace must have at least one base column")
	}
	if t.NumExtensionColumns < 0 {
		return fmt.Errorf("extension column count cannot be negative")
	}
	return nil
}

// Air is the algebraic intermediate representation of a computation: the
// polynomial constraints its execution trace must satisfy, plus the
// composition parameters the pipeline needs.
type Air interface {
	// TraceInfo returns the trace shape this AIR constrains.
	TraceInfo() TraceInfo

	// Options returns the proof options the AIR was instantiated with.
	Options() ProofOptions

	// NumChallenges is the number of transcript challenges the AIR consumes
	// (for extension columns and challenge-dependent constraints).
	NumChallenges() int

	// CeBlowupFactor is the constraint-evaluation blowup factor. It must
	// not exceed the low-degree-extension blowup factor.
	CeBlowupFactor() int

	// CompositionDegree is the declared degree of the composition
	// polynomial. The pipeline fails if the computed degree differs.
	CompositionDegree() int

	// TransitionConstraints returns the AIR's constraints. Challenges are
	// available for AIRs whose constraints depend on them; AIRs without
	// challenges ignore the argument.
	TransitionConstraints(challenges []core.Felt) []*air.Constraint[core.Felt]
}

// Trace is the execution-trace collaborator consumed by the pipeline.
type Trace interface {
	// Info returns the trace shape.
	Info() TraceInfo

	// BaseColumns returns the base trace as a column-major matrix.
	BaseColumns() *Matrix

	// BuildExtensionColumns derives the extension columns from the
	// transcript challenges; ok is false when the trace has none.
	BuildExtensionColumns(challenges []core.Felt) (ext *Matrix, ok bool)
}
