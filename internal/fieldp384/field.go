// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package fieldp384 implements GF(p) arithmetic for the NIST P-384
// base field, used exclusively to compute the SSWU hash-to-curve
// mapping on public (non-secret) inputs. It intentionally does not
// attempt to be constant-time: nothing in this package ever touches a
// secret scalar (see the p384 package's Point/Scalar types for the
// constant-time secret-key path).
package fieldp384

import "math/big"

// Size is the length in bytes of a canonical P-384 field element.
const Size = 48

var (
	// P is the NIST P-384 base field prime.
	P, _ = new(big.Int).SetString(
		"fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff", 16)

	// A is the curve coefficient `a = -3 mod p`.
	A = new(big.Int).Sub(P, big.NewInt(3))

	// B is the curve coefficient `b`.
	B, _ = new(big.Int).SetString(
		"b3312fa7e23ee7e4988e056be3f82d19181d9c6efe8141120314088f5013875ac656398d8a2ed19d2a85c8edd3ec2aef", 16)

	// Z is the non-square constant used by the simplified SWU mapping
	// for the `P384_XMD:SHA-384_SSWU_RO_` and
	// `P384_XMD:SHA-512_SSWU_RO_` suites (RFC 9380 §8.3): `Z = -12`.
	Z = new(big.Int).Mod(big.NewInt(-12), P)

	pMinus2     = new(big.Int).Sub(P, big.NewInt(2))
	pPlus1Over4 = new(big.Int).Rsh(new(big.Int).Add(P, big.NewInt(1)), 2)
)

// Element is an element of GF(p) for the P-384 base field.
type Element struct {
	v big.Int
}

// New returns a new zero-valued Element.
func New() *Element {
	return &Element{}
}

// SetUint64 sets `e = n` and returns `e`.
func (e *Element) SetUint64(n uint64) *Element {
	e.v.SetUint64(n)
	return e
}

// SetBig sets `e = v mod p` and returns `e`. `v` is not retained.
func (e *Element) SetBig(v *big.Int) *Element {
	e.v.Mod(v, P)
	return e
}

// Set sets `e = a` and returns `e`.
func (e *Element) Set(a *Element) *Element {
	e.v.Set(&a.v)
	return e
}

// Add sets `e = a + b` and returns `e`.
func (e *Element) Add(a, b *Element) *Element {
	e.v.Add(&a.v, &b.v)
	e.v.Mod(&e.v, P)
	return e
}

// Subtract sets `e = a - b` and returns `e`.
func (e *Element) Subtract(a, b *Element) *Element {
	e.v.Sub(&a.v, &b.v)
	e.v.Mod(&e.v, P)
	return e
}

// Multiply sets `e = a * b` and returns `e`.
func (e *Element) Multiply(a, b *Element) *Element {
	e.v.Mul(&a.v, &b.v)
	e.v.Mod(&e.v, P)
	return e
}

// Square sets `e = a * a` and returns `e`.
func (e *Element) Square(a *Element) *Element {
	return e.Multiply(a, a)
}

// Negate sets `e = -a` and returns `e`.
func (e *Element) Negate(a *Element) *Element {
	e.v.Sub(P, &a.v)
	e.v.Mod(&e.v, P)
	return e
}

// Invert sets `e = 1/a` (or `0` if `a == 0`) and returns `e`.
func (e *Element) Invert(a *Element) *Element {
	if a.v.Sign() == 0 {
		e.v.SetUint64(0)
		return e
	}
	e.v.Exp(&a.v, pMinus2, P)
	return e
}

// Sqrt sets `e = sqrt(a)` and returns `(e, true)` if `a` is a square,
// `(e, false)` (with `e` left as an unspecified square root of `-a`)
// otherwise. P-384's prime is `3 mod 4`, so the principal square root
// is computed via exponentiation by `(p+1)/4`.
func (e *Element) Sqrt(a *Element) (*Element, bool) {
	e.v.Exp(&a.v, pPlus1Over4, P)

	check := new(big.Int).Mul(&e.v, &e.v)
	check.Mod(check, P)
	return e, check.Cmp(&a.v) == 0
}

// IsZero returns true iff `e == 0`.
func (e *Element) IsZero() bool {
	return e.v.Sign() == 0
}

// Equal returns true iff `e == a`.
func (e *Element) Equal(a *Element) bool {
	return e.v.Cmp(&a.v) == 0
}

// IsOdd returns true iff the canonical representation of `e` is odd.
func (e *Element) IsOdd() bool {
	return e.v.Bit(0) == 1
}

// Bytes returns the canonical big-endian, Size-byte encoding of `e`.
func (e *Element) Bytes() []byte {
	dst := make([]byte, Size)
	b := e.v.Bytes()
	copy(dst[Size-len(b):], b)
	return dst
}

