package core

import (
	"encoding/binary"
	"math/bits"
	"strings"
)

// Uint128 is one limb of a U256: an unsigned 128-bit integer held as two
// 64-bit halves.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// IsZero reports whether the limb is zero.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// U256 is an unsigned 256-bit integer represented as a pair of 128-bit limbs.
// It is a value type: every operation returns a new value and the two limbs
// are the canonical representation with no hidden normalization.
type U256 struct {
	Hi Uint128
	Lo Uint128
}

// Common constants. These are plain values; treat them as read-only.
var (
	U256Zero = U256{}
	U256One  = U256{Lo: Uint128{Lo: 1}}
	U256Max  = U256{
		Hi: Uint128{Hi: ^uint64(0), Lo: ^uint64(0)},
		Lo: Uint128{Hi: ^uint64(0), Lo: ^uint64(0)},
	}
)

// U256FromUint64 returns the U256 with the given low word.
func U256FromUint64(v uint64) U256 {
	return U256{Lo: Uint128{Lo: v}}
}

// U256FromBytes interprets b as a big-endian unsigned integer. Inputs longer
// than 32 bytes keep only the trailing 32.
func U256FromBytes(b []byte) U256 {
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	var buf [32]byte
	copy(buf[32-len(b):], b)
	return U256{
		Hi: Uint128{
			Hi: binary.BigEndian.Uint64(buf[0:8]),
			Lo: binary.BigEndian.Uint64(buf[8:16]),
		},
		Lo: Uint128{
			Hi: binary.BigEndian.Uint64(buf[16:24]),
			Lo: binary.BigEndian.Uint64(buf[24:32]),
		},
	}
}

// Bytes returns the big-endian 32-byte encoding.
func (u U256) Bytes() [32]byte {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[0:8], u.Hi.Hi)
	binary.BigEndian.PutUint64(buf[8:16], u.Hi.Lo)
	binary.BigEndian.PutUint64(buf[16:24], u.Lo.Hi)
	binary.BigEndian.PutUint64(buf[24:32], u.Lo.Lo)
	return buf
}

// IsZero reports whether the value is zero.
func (u U256) IsZero() bool {
	return u.Hi.IsZero() && u.Lo.IsZero()
}

// IsOne reports whether the value is one.
func (u U256) IsOne() bool {
	return u.Hi.IsZero() && u.Lo.Hi == 0 && u.Lo.Lo == 1
}

// Equal reports whether both limbs match.
func (u U256) Equal(v U256) bool {
	return u.Hi == v.Hi && u.Lo == v.Lo
}

// Cmp compares u and v, returning -1, 0 or +1. The high limb decides,
// the low limb breaks ties.
func (u U256) Cmp(v U256) int {
	if c := cmp128(u.Hi, v.Hi); c != 0 {
		return c
	}
	return cmp128(u.Lo, v.Lo)
}

// Lt reports u < v.
func (u U256) Lt(v U256) bool { return u.Cmp(v) < 0 }

// Gt reports u > v.
func (u U256) Gt(v U256) bool { return u.Cmp(v) > 0 }

func cmp128(a, b Uint128) int {
	if a.Hi != b.Hi {
		if a.Hi < b.Hi {
			return -1
		}
		return 1
	}
	if a.Lo != b.Lo {
		if a.Lo < b.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// Add returns u + v mod 2^256.
func (u U256) Add(v U256) U256 {
	sum, _ := u.OverflowingAdd(v)
	return sum
}

// OverflowingAdd returns u + v mod 2^256 and whether the 256-bit container
// overflowed. The carry propagates word by word through both limbs.
func (u U256) OverflowingAdd(v U256) (U256, bool) {
	var r U256
	var c uint64
	r.Lo.Lo, c = bits.Add64(u.Lo.Lo, v.Lo.Lo, 0)
	r.Lo.Hi, c = bits.Add64(u.Lo.Hi, v.Lo.Hi, c)
	r.Hi.Lo, c = bits.Add64(u.Hi.Lo, v.Hi.Lo, c)
	r.Hi.Hi, c = bits.Add64(u.Hi.Hi, v.Hi.Hi, c)
	return r, c != 0
}

// Sub returns u - v mod 2^256.
func (u U256) Sub(v U256) U256 {
	diff, _ := u.OverflowingSub(v)
	return diff
}

// OverflowingSub returns u - v mod 2^256 and whether a borrow left the
// 256-bit container (i.e. u < v).
func (u U256) OverflowingSub(v U256) (U256, bool) {
	var r U256
	var b uint64
	r.Lo.Lo, b = bits.Sub64(u.Lo.Lo, v.Lo.Lo, 0)
	r.Lo.Hi, b = bits.Sub64(u.Lo.Hi, v.Lo.Hi, b)
	r.Hi.Lo, b = bits.Sub64(u.Hi.Lo, v.Hi.Lo, b)
	r.Hi.Hi, b = bits.Sub64(u.Hi.Hi, v.Hi.Hi, b)
	return r, b != 0
}

// And returns the limb-wise bitwise AND of u and v.
func (u U256) And(v U256) U256 {
	return U256{
		Hi: Uint128{Hi: u.Hi.Hi & v.Hi.Hi, Lo: u.Hi.Lo & v.Hi.Lo},
		Lo: Uint128{Hi: u.Lo.Hi & v.Lo.Hi, Lo: u.Lo.Lo & v.Lo.Lo},
	}
}

// Bit returns bit i (0 = least significant) as 0 or 1.
func (u U256) Bit(i int) uint64 {
	switch {
	case i < 64:
		return (u.Lo.Lo >> uint(i)) & 1
	case i < 128:
		return (u.Lo.Hi >> uint(i-64)) & 1
	case i < 192:
		return (u.Hi.Lo >> uint(i-128)) & 1
	default:
		return (u.Hi.Hi >> uint(i-192)) & 1
	}
}

// setBit returns u with bit i set.
func (u U256) setBit(i int) U256 {
	switch {
	case i < 64:
		u.Lo.Lo |= 1 << uint(i)
	case i < 128:
		u.Lo.Hi |= 1 << uint(i-64)
	case i < 192:
		u.Hi.Lo |= 1 << uint(i-128)
	default:
		u.Hi.Hi |= 1 << uint(i-192)
	}
	return u
}

// Shl returns u << amount. The amount is truncated to the low limb; shifting
// by zero is the identity and shifting by 256 or more yields zero.
func (u U256) Shl(amount U256) U256 {
	if amount.Lo.Hi != 0 || amount.Lo.Lo >= 256 {
		return U256Zero
	}
	return u.shlBits(uint(amount.Lo.Lo))
}

// Shr returns u >> amount with the same amount semantics as Shl.
func (u U256) Shr(amount U256) U256 {
	if amount.Lo.Hi != 0 || amount.Lo.Lo >= 256 {
		return U256Zero
	}
	return u.shrBits(uint(amount.Lo.Lo))
}

func (u U256) shlBits(n uint) U256 {
	switch {
	case n == 0:
		return u
	case n >= 256:
		return U256Zero
	case n >= 128:
		// The low limb moves entirely into the high limb.
		return U256{Hi: shl128(u.Lo, n-128)}
	default:
		return U256{
			Hi: or128(shl128(u.Hi, n), shr128(u.Lo, 128-n)),
			Lo: shl128(u.Lo, n),
		}
	}
}

func (u U256) shrBits(n uint) U256 {
	switch {
	case n == 0:
		return u
	case n >= 256:
		return U256Zero
	case n >= 128:
		return U256{Lo: shr128(u.Hi, n-128)}
	default:
		return U256{
			Hi: shr128(u.Hi, n),
			Lo: or128(shr128(u.Lo, n), shl128(u.Hi, 128-n)),
		}
	}
}

// shl128 shifts a limb left by n in [0, 128).
func shl128(a Uint128, n uint) Uint128 {
	if n == 0 {
		return a
	}
	if n >= 64 {
		return Uint128{Hi: a.Lo << (n - 64)}
	}
	return Uint128{Hi: a.Hi<<n | a.Lo>>(64-n), Lo: a.Lo << n}
}

// shr128 shifts a limb right by n in [0, 128).
func shr128(a Uint128, n uint) Uint128 {
	if n == 0 {
		return a
	}
	if n >= 64 {
		return Uint128{Lo: a.Hi >> (n - 64)}
	}
	return Uint128{Hi: a.Hi >> n, Lo: a.Lo>>n | a.Hi<<(64-n)}
}

func or128(a, b Uint128) Uint128 {
	return Uint128{Hi: a.Hi | b.Hi, Lo: a.Lo | b.Lo}
}

// words returns the value as four 64-bit halves, least significant first.
func (u U256) words() [4]uint64 {
	return [4]uint64{u.Lo.Lo, u.Lo.Hi, u.Hi.Lo, u.Hi.Hi}
}

// Mul returns the low 256 bits of u * v.
//
// Each 128-bit limb is split into two 64-bit halves, giving a 4x4 grid of
// 64x64 partial products that are summed with explicit carry propagation.
// The high 256 bits of the true 512-bit product are discarded; callers that
// need full precision (Montgomery reduction) stay within operands small
// enough for the truncation to be safe.
func (u U256) Mul(v U256) U256 {
	a := u.words()
	b := v.words()
	var w [4]uint64
	for i := 0; i < 4; i++ {
		var carry uint64
		for j := 0; i+j < 4; j++ {
			hi, lo := bits.Mul64(a[i], b[j])
			var c uint64
			lo, c = bits.Add64(lo, carry, 0)
			hi, _ = bits.Add64(hi, 0, c)
			lo, c = bits.Add64(lo, w[i+j], 0)
			hi, _ = bits.Add64(hi, 0, c)
			w[i+j] = lo
			carry = hi
		}
	}
	return U256{
		Hi: Uint128{Hi: w[3], Lo: w[2]},
		Lo: Uint128{Hi: w[1], Lo: w[0]},
	}
}

// DivRem returns the quotient and remainder of u / v such that
// v*quotient + remainder == u and 0 <= remainder < v.
//
// Division by zero panics. Divisors that fit a single 64-bit word take the
// short word-by-word path; everything else runs a full 256-step binary
// shift-and-subtract long division.
func (u U256) DivRem(v U256) (U256, U256) {
	if v.IsZero() {
		panic("core: U256 division by zero")
	}
	if v.IsOne() {
		return u, U256Zero
	}
	switch u.Cmp(v) {
	case -1:
		return U256Zero, u
	case 0:
		return U256One, U256Zero
	}

	if v.Hi.IsZero() && v.Lo.Hi == 0 {
		return u.divRemWord(v.Lo.Lo)
	}

	var quotient, remainder U256
	for i := 255; i >= 0; i-- {
		remainder = remainder.shlBits(1)
		remainder.Lo.Lo |= u.Bit(i)
		if remainder.Cmp(v) >= 0 {
			remainder = remainder.Sub(v)
			quotient = quotient.setBit(i)
		}
	}
	return quotient, remainder
}

// divRemWord divides by a single nonzero 64-bit word.
func (u U256) divRemWord(d uint64) (U256, U256) {
	a := u.words()
	var q [4]uint64
	var rem uint64
	for i := 3; i >= 0; i-- {
		q[i], rem = bits.Div64(rem, a[i], d)
	}
	quotient := U256{
		Hi: Uint128{Hi: q[3], Lo: q[2]},
		Lo: Uint128{Hi: q[1], Lo: q[0]},
	}
	return quotient, U256FromUint64(rem)
}

// String renders the value in decimal by repeated divide/mod ten, reversing
// the collected digits at the end.
func (u U256) String() string {
	if u.IsZero() {
		return "0"
	}
	ten := U256FromUint64(10)
	var digits []byte
	remainder := u
	for !remainder.IsZero() {
		var digit U256
		remainder, digit = remainder.DivRem(ten)
		digits = append(digits, '0'+byte(digit.Lo.Lo))
	}
	var sb strings.Builder
	for i := len(digits) - 1; i >= 0; i-- {
		sb.WriteByte(digits[i])
	}
	return sb.String()
}
