package protocols

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/logger"
	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/utils"
)

// Prover runs the commit/challenge pipeline over an execution trace.
//
// Stage order is fixed: public parameters are absorbed first, then the
// base trace commitment, then the challenges are squeezed, then the
// optional extension commitment, then the composition coefficients, and
// finally the composition commitment. Reordering any of these would let
// a prover grind challenges it has already seen.
type Prover struct {
	options ProofOptions
	log     zerolog.Logger
}

// NewProver creates a prover with the given options.
func NewProver(options ProofOptions) (*Prover, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &Prover{
		options: options,
		log:     logger.Logger().With().Str("component", "prover").Logger(),
	}, nil
}

// Options returns the prover's proof options.
func (p *Prover) Options() ProofOptions {
	return p.options
}

// Prove generates a proof that the trace satisfies the AIR's transition
// constraints. The returned proof carries the base trace commitment, the
// extension commitment when the AIR declares extension columns, and the
// composition commitment, in absorption order.
func (p *Prover) Prove(a Air, trace Trace) (*Proof, error) {
	start := time.Now()

	info := trace.Info()
	if err := info.Validate(); err != nil {
		return nil, &ProvingError{Code: ErrCodeTrace, Message: "invalid trace shape", Cause: err}
	}
	if info != a.TraceInfo() {
		return nil, &ProvingError{
			Code:    ErrCodeTrace,
			Message: fmt.Sprintf("trace shape %+v does not match AIR declaration %+v", info, a.TraceInfo()),
		}
	}
	base := trace.BaseColumns()
	if base.NumColumns() != info.NumBaseColumns || base.NumRows() != info.TraceLength {
		return nil, &ProvingError{
			Code:    ErrCodeTrace,
			Message: fmt.Sprintf("base trace is %dx%d, declared %dx%d", base.NumRows(), base.NumColumns(), info.TraceLength, info.NumBaseColumns),
		}
	}

	if ce := a.CeBlowupFactor(); ce > int(p.options.BlowupFactor) {
		return nil, &ProvingError{
			Code:    ErrCodeBlowupFactor,
			Message: fmt.Sprintf("constraint evaluation blowup %d exceeds extension blowup %d", ce, p.options.BlowupFactor),
		}
	}

	channel := utils.NewChannel()
	if err := absorbPublicParams(channel, p.options, info); err != nil {
		return nil, &ProvingError{Code: ErrCodeUnknown, Message: "encoding public parameters", Cause: err}
	}

	domains, err := DeriveProverDomains(info.TraceLength, int(p.options.BlowupFactor))
	if err != nil {
		return nil, &ProvingError{Code: ErrCodeTrace, Message: "deriving evaluation domains", Cause: err}
	}
	p.log.Debug().
		Int("trace_length", info.TraceLength).
		Int("lde_size", domains.LDE.Size()).
		Int("log2_lde", utils.Log2(domains.LDE.Size())).
		Msg("derived evaluation domains")

	proof := NewProof(p.options, info)

	tracePolys, traceLDE, baseTree, err := p.commitColumns(base, domains)
	if err != nil {
		return nil, err
	}
	channel.Absorb(baseTree.Root())
	proof.AddCommitment(baseTree.Root())
	p.log.Debug().Dur("elapsed", time.Since(start)).Msg("committed base trace")

	challenges := channel.SqueezeFelts(a.NumChallenges())

	ext, hasExt := trace.BuildExtensionColumns(challenges)
	if hasExt != (info.NumExtensionColumns > 0) {
		return nil, &ProvingError{
			Code:    ErrCodeTrace,
			Message: fmt.Sprintf("trace built extension columns: %v, declared extension columns: %d", hasExt, info.NumExtensionColumns),
		}
	}
	if hasExt {
		if ext.NumColumns() != info.NumExtensionColumns || ext.NumRows() != info.TraceLength {
			return nil, &ProvingError{
				Code:    ErrCodeTrace,
				Message: fmt.Sprintf("extension trace is %dx%d, declared %dx%d", ext.NumRows(), ext.NumColumns(), info.TraceLength, info.NumExtensionColumns),
			}
		}
		extPolys, extLDE, extTree, err := p.commitColumns(ext, domains)
		if err != nil {
			return nil, err
		}
		channel.Absorb(extTree.Root())
		proof.AddCommitment(extTree.Root())
		if err := tracePolys.Append(extPolys); err != nil {
			return nil, &ProvingError{Code: ErrCodeTrace, Message: "joining extension polynomials", Cause: err}
		}
		if err := traceLDE.Append(extLDE); err != nil {
			return nil, &ProvingError{Code: ErrCodeTrace, Message: "joining extension evaluations", Cause: err}
		}
		p.log.Debug().Dur("elapsed", time.Since(start)).Msg("committed extension trace")
	}

	constraints := a.TransitionConstraints(challenges)

	// Diagnostic pass: the committed polynomials must reproduce a trace
	// on which every constraint vanishes, otherwise the session is
	// aborted before any composition work.
	traceValues, err := tracePolys.EvaluateColumns(domains.Trace)
	if err != nil {
		return nil, &ProvingError{Code: ErrCodeTrace, Message: "re-evaluating trace polynomials", Cause: err}
	}
	if row, constraint, ok := checkOverTrace(constraints, traceValues); !ok {
		return nil, &ProvingError{
			Code:    ErrCodeUnsatisfiedConstraint,
			Message: fmt.Sprintf("constraint %d does not vanish on trace row %d", constraint, row),
		}
	}

	coefficients := channel.SqueezeFelts(len(constraints))
	evaluator, err := newConstraintEvaluator(constraints, coefficients)
	if err != nil {
		return nil, &ProvingError{Code: ErrCodeUnknown, Message: "building constraint evaluator", Cause: err}
	}
	composed, err := evaluator.evaluateOverLDE(traceLDE, tracePolys, domains)
	if err != nil {
		return nil, &ProvingError{Code: ErrCodeUnknown, Message: "composing constraints", Cause: err}
	}
	compositionPoly, err := domains.LDE.Interpolate(composed)
	if err != nil {
		return nil, &ProvingError{Code: ErrCodeUnknown, Message: "interpolating composition polynomial", Cause: err}
	}

	declared := a.CompositionDegree()
	if actual := polyDegree(compositionPoly); actual != declared {
		return nil, &ProvingError{
			Code:    ErrCodeCompositionDegree,
			Message: fmt.Sprintf("composition polynomial has degree %d, AIR declares %d", actual, declared),
		}
	}
	compositionPoly = compositionPoly[:declared+1]
	p.log.Debug().Int("degree", declared).Dur("elapsed", time.Since(start)).Msg("composed constraints")

	// Decompose into segment polynomials of degree below the trace
	// length, evaluate them over the extension, and commit.
	numSegments := (declared + info.TraceLength) / info.TraceLength
	padded := make([]core.Felt, numSegments*info.TraceLength)
	copy(padded, compositionPoly)
	segments, err := foldColumn(padded, numSegments)
	if err != nil {
		return nil, &ProvingError{Code: ErrCodeUnknown, Message: "folding composition polynomial", Cause: err}
	}
	segmentLDE, err := segments.EvaluateColumns(domains.LDE)
	if err != nil {
		return nil, &ProvingError{Code: ErrCodeUnknown, Message: "evaluating composition segments", Cause: err}
	}
	compositionTree, err := segmentLDE.CommitToRows()
	if err != nil {
		return nil, &ProvingError{Code: ErrCodeCommitment, Message: "committing composition segments", Cause: err}
	}
	channel.Absorb(compositionTree.Root())
	proof.AddCommitment(compositionTree.Root())

	p.log.Info().
		Int("trace_length", info.TraceLength).
		Int("num_columns", info.NumColumns()).
		Int("num_constraints", len(constraints)).
		Int("num_commitments", len(proof.Commitments)).
		Dur("elapsed", time.Since(start)).
		Msg("proof generated")
	return proof, nil
}

// commitColumns interpolates the columns over the trace domain, evaluates
// them over the extension, and Merkle-commits to the extension rows.
func (p *Prover) commitColumns(m *Matrix, domains *ProverDomains) (polys, lde *Matrix, tree *core.MerkleTree, err error) {
	polys, err = m.InterpolateColumns(domains.Trace)
	if err != nil {
		return nil, nil, nil, &ProvingError{Code: ErrCodeTrace, Message: "interpolating trace columns", Cause: err}
	}
	lde, err = polys.EvaluateColumns(domains.LDE)
	if err != nil {
		return nil, nil, nil, &ProvingError{Code: ErrCodeTrace, Message: "extending trace columns", Cause: err}
	}
	tree, err = lde.CommitToRows()
	if err != nil {
		return nil, nil, nil, &ProvingError{Code: ErrCodeCommitment, Message: "committing trace rows", Cause: err}
	}
	return polys, lde, tree, nil
}

// absorbPublicParams binds the transcript to the session's public
// parameters before any commitment is absorbed.
func absorbPublicParams(channel *utils.Channel, options ProofOptions, info TraceInfo) error {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return err
	}
	header, err := mode.Marshal(struct {
		Options ProofOptions `cbor:"1,keyasint"`
		Info    TraceInfo    `cbor:"2,keyasint"`
	}{options, info})
	if err != nil {
		return err
	}
	channel.Absorb(header)
	return nil
}
