package core

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// Field constants for the secp256k1 prime field, fixed at definition time.
//
// The auxiliary Montgomery modulus is R = 2^256, which exceeds U256Max and is
// therefore never represented directly. rSquared is R^2 mod N and nPrime is
// the integer in [0, R-1] with N*nPrime = -1 mod R.
var (
	// fieldModulus is N = 2^256 - 2^32 - 977, a 256-bit prime.
	fieldModulus = U256{
		Hi: Uint128{Hi: 0xFFFFFFFFFFFFFFFF, Lo: 0xFFFFFFFFFFFFFFFF},
		Lo: Uint128{Hi: 0xFFFFFFFFFFFFFFFF, Lo: 0xFFFFFFFEFFFFFC2F},
	}

	// rSquared = R^2 mod N = 18446752466076602529.
	rSquared = U256{
		Lo: Uint128{Hi: 0x1, Lo: 0x000007A2000E90A1},
	}

	// nPrime satisfies N * nPrime = -1 mod R.
	nPrime = U256{
		Hi: Uint128{Hi: 0xC9BD190515538399, Lo: 0x9C46C2C295F2B761},
		Lo: Uint128{Hi: 0xBCB223FEDC24A059, Lo: 0xD838091DD2253531},
	}

	// negModulus = 2^256 - N = R mod N.
	negModulus = U256Zero.Sub(fieldModulus)

	// halfModulus = N / 2, used to bound intermediates when doubling.
	halfModulus = fieldModulus.shrBits(1)

	// oneMont is 1 in Montgomery form.
	oneMont = montMul(U256One, rSquared)
)

// ErrNoInverse is returned when an element has no multiplicative inverse,
// i.e. the element was zero (or the modulus itself). Callers must treat
// this as a normal outcome, not a fatal error.
var ErrNoInverse = errors.New("core: element has no inverse")

// Modulus returns the field modulus N.
func Modulus() U256 {
	return fieldModulus
}

// Felt is an element of the secp256k1 prime field. The wrapped integer is
// held in Montgomery form and always lies in [0, N). Felt is a value type:
// operations never mutate, they return fresh values.
type Felt struct {
	value U256
}

// NewFelt lifts a plain integer into Montgomery form. Inputs of N or above
// are reduced first so the stored-value invariant holds unconditionally.
func NewFelt(v U256) Felt {
	if v.Cmp(fieldModulus) >= 0 {
		_, v = v.DivRem(fieldModulus)
	}
	return Felt{value: montMul(v, rSquared)}
}

// NewFeltFromUint64 lifts a small integer into the field.
func NewFeltFromUint64(v uint64) Felt {
	return Felt{value: montMul(U256FromUint64(v), rSquared)}
}

// FeltZero returns the additive identity.
func FeltZero() Felt {
	return Felt{}
}

// FeltOne returns the multiplicative identity.
func FeltOne() Felt {
	return Felt{value: oneMont}
}

// RandomFelt generates a uniformly random field element.
func RandomFelt() (Felt, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Felt{}, fmt.Errorf("failed to generate random element: %w", err)
	}
	return NewFelt(U256FromBytes(buf[:])), nil
}

// AsInteger projects the element back to a plain integer in [0, N) by
// Montgomery-multiplying the stored value by one.
func (f Felt) AsInteger() U256 {
	return montMul(f.value, U256One)
}

// Add returns f + g mod N.
func (f Felt) Add(g Felt) Felt {
	return Felt{value: modAdd(f.value, g.value)}
}

// Sub returns f - g mod N.
func (f Felt) Sub(g Felt) Felt {
	return Felt{value: modSub(f.value, g.value)}
}

// Mul returns f * g mod N.
func (f Felt) Mul(g Felt) Felt {
	return Felt{value: montMul(f.value, g.value)}
}

// Neg returns the additive inverse.
func (f Felt) Neg() Felt {
	return Felt{value: modSub(U256Zero, f.value)}
}

// Square returns f * f.
func (f Felt) Square() Felt {
	return Felt{value: montMul(f.value, f.value)}
}

// Double returns 2*f. When the stored value exceeds half the modulus the
// doubling is computed as f - (N - f) instead, bounding the intermediate
// magnitude; both branches yield the same canonical result.
func (f Felt) Double() Felt {
	if f.value.Cmp(halfModulus) <= 0 {
		return Felt{value: f.value.Add(f.value)}
	}
	return Felt{value: f.value.Sub(fieldModulus.Sub(f.value))}
}

// Inverse returns the multiplicative inverse, or ErrNoInverse when the
// element is zero.
func (f Felt) Inverse() (Felt, error) {
	inv, err := montInverse(f.value)
	if err != nil {
		return Felt{}, err
	}
	return Felt{value: inv}, nil
}

// Div returns f / g, or ErrNoInverse when g is zero.
func (f Felt) Div(g Felt) (Felt, error) {
	inv, err := g.Inverse()
	if err != nil {
		return Felt{}, err
	}
	return f.Mul(inv), nil
}

// Pow raises f to the given power by square-and-multiply over the exponent's
// bits, consumed low-bit-first. f^0 is one (including 0^0); 0^p is zero for
// nonzero p.
func (f Felt) Pow(power U256) Felt {
	if power.IsZero() {
		return FeltOne()
	}
	if f.IsZero() {
		return FeltZero()
	}
	result := FeltOne()
	accumulator := f
	for !power.IsZero() {
		if power.Bit(0) == 1 {
			result = result.Mul(accumulator)
		}
		power = power.shrBits(1)
		accumulator = accumulator.Square()
	}
	return result
}

// Equal reports whether f and g are the same field element.
func (f Felt) Equal(g Felt) bool {
	return f.value.Equal(g.value)
}

// IsZero reports whether f is the additive identity.
func (f Felt) IsZero() bool {
	return f.value.IsZero()
}

// IsOne reports whether f is the multiplicative identity.
func (f Felt) IsOne() bool {
	return f.value.Equal(oneMont)
}

// Zero returns the additive identity. Instance-producing so Felt satisfies
// the constraint-algebra capability set.
func (f Felt) Zero() Felt {
	return FeltZero()
}

// One returns the multiplicative identity.
func (f Felt) One() Felt {
	return FeltOne()
}

// Bytes returns the big-endian encoding of the plain (non-Montgomery) value.
func (f Felt) Bytes() [32]byte {
	return f.AsInteger().Bytes()
}

// String renders the plain value in decimal.
func (f Felt) String() string {
	return f.AsInteger().String()
}

// mul512 computes the full 512-bit product of a and b as two 256-bit halves.
//
// Each operand is decomposed into zero-extended 128-bit halves so every
// inner U256 multiplication stays below 2^256 and the truncating Mul is
// exact. The partial products are then recombined with an explicit carry.
func mul512(a, b U256) (hi, lo U256) {
	aLo := U256{Lo: a.Lo}
	aHi := U256{Lo: a.Hi}
	bLo := U256{Lo: b.Lo}
	bHi := U256{Lo: b.Hi}

	partialHH := aHi.Mul(bHi)
	partialHL := aHi.Mul(bLo)
	partialLH := bHi.Mul(aLo)
	partialLL := aLo.Mul(bLo)

	mid := U256{Lo: partialHL.Lo}.
		Add(U256{Lo: partialLH.Lo}).
		Add(U256{Lo: partialLL.Hi})
	carry := U256{Lo: mid.Hi}

	lo = U256{Hi: mid.Lo, Lo: partialLL.Lo}
	hi = partialHH.
		Add(U256{Lo: partialHL.Hi}).
		Add(U256{Lo: partialLH.Hi}).
		Add(carry)
	return hi, lo
}

// montMul computes lhs * rhs mod N for operands in Montgomery form (REDC).
//
// T = lhs*rhs is taken at full precision, m = (T mod R)*N' mod R, and
// t = (T + m*N) / R. Two independent corrections then bring t into [0, N):
// subtract N when t >= N, and add R mod N when the T + m*N addition
// overflowed the 256-bit container.
func montMul(lhs, rhs U256) U256 {
	tHi, tLo := mul512(lhs, rhs)

	m := tLo.Mul(nPrime)

	mnHi, mnLo := mul512(m, fieldModulus)

	// The low halves of T and m*N cancel mod R; only their carry survives.
	_, lowCarry := mnLo.OverflowingAdd(tLo)
	carryTerm := U256Zero
	if lowCarry {
		carryTerm = U256One
	}
	t, overflowsR := tHi.Add(carryTerm).OverflowingAdd(mnHi)

	exceedsModulus := t.Cmp(fieldModulus) >= 0
	if overflowsR {
		t = t.Add(negModulus)
	}
	if exceedsModulus {
		t = t.Sub(fieldModulus)
	}
	return t
}

// modAdd computes lhs + rhs mod N via raw limb addition followed by the same
// two independent corrections as montMul.
func modAdd(lhs, rhs U256) U256 {
	sum, overflow := lhs.OverflowingAdd(rhs)
	exceedsModulus := sum.Cmp(fieldModulus) >= 0
	if exceedsModulus {
		sum = sum.Sub(fieldModulus)
	}
	if overflow {
		sum = sum.Add(negModulus)
	}
	return sum
}

// modSub computes lhs - rhs mod N as addition of N - rhs.
func modSub(lhs, rhs U256) U256 {
	return modAdd(lhs, fieldModulus.Sub(rhs))
}

// montInverse returns the multiplicative inverse of b (in Montgomery form)
// using the binary extended GCD algorithm of Kaliski. ErrNoInverse is
// returned when gcd(b, N) != 1, i.e. when b is zero or the modulus itself.
func montInverse(b U256) (U256, error) {
	u := fieldModulus
	v := b
	r := U256Zero
	s := U256One
	k := 0

	for !v.IsZero() {
		switch {
		case u.Bit(0) == 0:
			u = u.shrBits(1)
			s = s.shlBits(1)
		case v.Bit(0) == 0:
			v = v.shrBits(1)
			r = r.shlBits(1)
		case u.Gt(v):
			u = u.Sub(v).shrBits(1)
			r = r.Add(s)
			s = s.shlBits(1)
		default:
			v = v.Sub(u).shrBits(1)
			s = s.Add(r)
			// Doubling r can overflow; modular addition absorbs it.
			r = modAdd(r, r)
		}
		k++
	}

	if !u.IsOne() {
		return U256Zero, ErrNoInverse
	}

	if r.Cmp(fieldModulus) >= 0 {
		r = r.Sub(fieldModulus)
	}

	// Undo the k-256 extra halvings accumulated in the first phase.
	for i := 0; i < k-256; i++ {
		if r.Bit(0) == 0 {
			r = r.shrBits(1)
		} else {
			// Non-overflowing (r + N) / 2.
			parity := U256One.And(fieldModulus).And(r)
			r = r.shrBits(1).Add(fieldModulus.shrBits(1)).Add(parity)
		}
	}

	// Scale by R^2 to restore Montgomery form.
	return montMul(fieldModulus.Sub(r), rSquared), nil
}
