package vybiumstarkprover

import (
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/protocols"
)

// ProvingError is a typed proving-pipeline failure
type ProvingError = protocols.ProvingError

// ErrorCode identifies a proving-pipeline failure kind
type ErrorCode = protocols.ErrorCode

const (
	// ErrCodeUnknown represents an unclassified error
	ErrCodeUnknown = protocols.ErrCodeUnknown

	// ErrCodeInvalidOptions represents unusable proof options
	ErrCodeInvalidOptions = protocols.ErrCodeInvalidOptions

	// ErrCodeTrace represents a malformed or inconsistent execution trace
	ErrCodeTrace = protocols.ErrCodeTrace

	// ErrCodeBlowupFactor represents a constraint-evaluation blowup factor
	// exceeding the low-degree-extension blowup factor
	ErrCodeBlowupFactor = protocols.ErrCodeBlowupFactor

	// ErrCodeCompositionDegree represents a composition polynomial whose
	// degree differs from the AIR declaration
	ErrCodeCompositionDegree = protocols.ErrCodeCompositionDegree

	// ErrCodeUnsatisfiedConstraint represents a transition constraint that
	// does not vanish on the trace
	ErrCodeUnsatisfiedConstraint = protocols.ErrCodeUnsatisfiedConstraint

	// ErrCodeCommitment represents a failure to build a commitment
	ErrCodeCommitment = protocols.ErrCodeCommitment
)

// ErrNoInverse is returned when inverting the zero field element
var ErrNoInverse = core.ErrNoInverse
