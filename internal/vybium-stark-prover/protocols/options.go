// Package protocols implements the proof-generation pipeline: trace
// commitment, Fiat-Shamir challenge derivation, constraint composition, and
// commitment of the composed result. The low-degree proximity protocol and
// query-proof encoding are external collaborators.
package protocols

import "github.com/fxamacker/cbor/v2"

// ProofOptions configures the soundness parameters of a proving session.
type ProofOptions struct {
	// NumQueries is the number of verifier queries the downstream proximity
	// protocol will issue.
	NumQueries uint8 `cbor:"1,keyasint"`

	// BlowupFactor is the ratio between the low-degree-extension domain and
	// the trace domain.
	BlowupFactor uint8 `cbor:"2,keyasint"`
}

// NewProofOptions creates proof options with the given parameters.
func NewProofOptions(numQueries, blowupFactor uint8) ProofOptions {
	return ProofOptions{
		NumQueries:   numQueries,
		BlowupFactor: blowupFactor,
	}
}

// Validate checks that both parameters are usable.
func (o ProofOptions) Validate() error {
	if o.NumQueries == 0 {
		return &ProvingError{
			Code:    ErrCodeInvalidOptions,
			Message: "number of queries must be positive",
		}
	}
	if o.BlowupFactor == 0 {
		return &ProvingError{
			Code:    ErrCodeInvalidOptions,
			Message: "blowup factor must be positive",
		}
	}
	return nil
}

// WithNumQueries returns a copy with the query count replaced.
func (o ProofOptions) WithNumQueries(n uint8) ProofOptions {
	o.NumQueries = n
	return o
}

// WithBlowupFactor returns a copy with the blowup factor replaced.
func (o ProofOptions) WithBlowupFactor(b uint8) ProofOptions {
	o.BlowupFactor = b
	return o
}

// plainOptions carries the fields and tags of ProofOptions without its
// method set. The CBOR codec dispatches to MarshalBinary/UnmarshalBinary
// whenever it sees those methods, so encoding ProofOptions directly from
// inside them would recurse; the alias keeps both directions reflective.
type plainOptions ProofOptions

// MarshalBinary encodes the options with canonical CBOR.
func (o ProofOptions) MarshalBinary() ([]byte, error) {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return mode.Marshal(plainOptions(o))
}

// UnmarshalBinary decodes options produced by MarshalBinary.
func (o *ProofOptions) UnmarshalBinary(data []byte) error {
	return cbor.Unmarshal(data, (*plainOptions)(o))
}
