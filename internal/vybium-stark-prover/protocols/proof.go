package protocols

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Proof is the artifact of one proving session: the options it ran under,
// the trace shape, and the ordered list of commitment root digests (base
// trace, optional extension trace, composition). It is built exactly once
// per session and append-only until returned; the downstream proximity
// protocol extends it out of scope of this module.
type Proof struct {
	Options     ProofOptions `cbor:"1,keyasint"`
	TraceInfo   TraceInfo    `cbor:"2,keyasint"`
	Commitments [][]byte     `cbor:"3,keyasint"`
}

// NewProof creates an empty proof for the given session parameters.
func NewProof(options ProofOptions, info TraceInfo) *Proof {
	return &Proof{
		Options:   options,
		TraceInfo: info,
	}
}

// AddCommitment appends a root digest. Order is significant: it mirrors the
// transcript absorption order.
func (p *Proof) AddCommitment(root []byte) {
	p.Commitments = append(p.Commitments, append([]byte(nil), root...))
}

// Validate checks structural well-formedness of a finished proof.
func (p *Proof) Validate() error {
	if err := p.Options.Validate(); err != nil {
		return err
	}
	want := 2
	if p.TraceInfo.NumExtensionColumns > 0 {
		want = 3
	}
	if len(p.Commitments) != want {
		return fmt.Errorf("proof holds %d commitments, expected %d", len(p.Commitments), want)
	}
	for i, root := range p.Commitments {
		if len(root) == 0 {
			return fmt.Errorf("commitment %d is empty", i)
		}
	}
	return nil
}

// Serialize writes the proof as canonical CBOR.
func (p *Proof) Serialize(w io.Writer) error {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return err
	}
	return mode.NewEncoder(w).Encode(p)
}

// DeserializeProof reads a proof written by Serialize.
func DeserializeProof(r io.Reader) (*Proof, error) {
	var p Proof
	if err := cbor.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode proof: %w", err)
	}
	return &p, nil
}
