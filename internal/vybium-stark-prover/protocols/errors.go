package protocols

import "fmt"

// ErrorCode identifies a proving-pipeline failure kind. The taxonomy is
// closed: every failure the pipeline can return carries one of these codes.
type ErrorCode int

const (
	// ErrCodeUnknown represents an unclassified error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeInvalidOptions represents unusable proof options.
	ErrCodeInvalidOptions

	// ErrCodeTrace represents a malformed or inconsistent execution trace.
	ErrCodeTrace

	// ErrCodeBlowupFactor represents a constraint-evaluation blowup factor
	// exceeding the low-degree-extension blowup factor.
	ErrCodeBlowupFactor

	// ErrCodeCompositionDegree represents a mismatch between the computed
	// and the AIR-declared composition polynomial degree.
	ErrCodeCompositionDegree

	// ErrCodeUnsatisfiedConstraint represents a transition constraint that
	// failed to vanish on the trace domain during the diagnostic check.
	ErrCodeUnsatisfiedConstraint

	// ErrCodeCommitment represents a failure to build a commitment.
	ErrCodeCommitment
)

// ProvingError is a typed proving-pipeline failure.
type ProvingError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message.
func (e *ProvingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("proving error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("proving error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error.
func (e *ProvingError) Unwrap() error {
	return e.Cause
}

// Is matches proving errors by code.
func (e *ProvingError) Is(target error) bool {
	t, ok := target.(*ProvingError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
