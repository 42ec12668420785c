// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package p384 implements the group primitives the issuer core needs
// over the NIST P-384 curve: point and scalar encoding, and the
// hash-to-curve/hash-to-scalar primitives with configurable domain
// separation tags and hash functions. All arguments
// and receivers are allowed to alias. The zero value of Point is NOT
// valid, and may only be used as a receiver; the zero value of Scalar
// is the scalar 0.
package p384

import (
	"errors"
	"math/big"

	"filippo.io/nistec"

	"github.com/privacypass/pstcore/internal/disalloweq"
)

// UncompressedPointSize is the size, in bytes, of the X9.62
// uncompressed encoding of a Point (`0x04 || X(48) || Y(48)`).
const UncompressedPointSize = 97

// CoordSize is the size, in bytes, of a single affine coordinate.
const CoordSize = 48

var errInvalidPoint = errors.New("p384: malformed or invalid point encoding")

// Point represents a point on the P-384 curve. The group law itself
// (point addition, doubling, and scalar multiplication) is delegated
// to filippo.io/nistec, which is constant-time; this type adds a
// small, chainable API on top: NewXxxFrom constructors, Set* methods
// that return the receiver, and DisallowEqual to steer callers away
// from == comparison on a type whose internal representation isn't
// unique.
type Point struct {
	_ disalloweq.DisallowEqual

	inner   *nistec.P384Point
	isValid bool
}

// NewIdentityPoint returns a new Point set to the identity element.
func NewIdentityPoint() *Point {
	return &Point{inner: nistec.NewP384Point(), isValid: true}
}

// NewGeneratorPoint returns a new Point set to the canonical generator `G`.
func NewGeneratorPoint() *Point {
	p := nistec.NewP384Point().SetGenerator()
	return &Point{inner: p, isValid: true}
}

// NewPointFrom creates a new Point from another.
func NewPointFrom(p *Point) *Point {
	assertPointsValid(p)
	return &Point{inner: nistec.NewP384Point().Set(p.inner), isValid: true}
}

// Set sets `v = p`, and returns `v`.
func (v *Point) Set(p *Point) *Point {
	assertPointsValid(p)
	v.ensure()
	v.inner.Set(p.inner)
	v.isValid = true
	return v
}

// Add sets `v = p + q`, and returns `v`.
func (v *Point) Add(p, q *Point) *Point {
	assertPointsValid(p, q)
	v.ensure()
	v.inner.Add(p.inner, q.inner)
	v.isValid = true
	return v
}

// negOneBytes is the canonical encoding of `n - 1`. nistec exposes no
// point negation of its own, so Negate multiplies by -1 instead.
var negOneBytes = func() []byte {
	b := make([]byte, ScalarSize)
	new(big.Int).Sub(N, big.NewInt(1)).FillBytes(b)
	return b
}()

// Negate sets `v = -p`, and returns `v`.
func (v *Point) Negate(p *Point) *Point {
	assertPointsValid(p)
	v.ensure()
	if _, err := v.inner.ScalarMult(p.inner, negOneBytes); err != nil {
		panic("p384: Negate: " + err.Error())
	}
	v.isValid = true
	return v
}

// ScalarMult sets `v = s * p`, and returns `v`.
//
// Together with ScalarBaseMult, this is where the package multiplies
// a Point by a secret Scalar (the VOPRF evaluation, the public key,
// and the DLEQ proof's `k0`/`k1` terms); correctness and constant-time
// behavior here rests entirely on filippo.io/nistec.
func (v *Point) ScalarMult(s *Scalar, p *Point) *Point {
	assertPointsValid(p)
	v.ensure()
	if _, err := v.inner.ScalarMult(p.inner, s.Bytes()); err != nil {
		// nistec only rejects out-of-range scalars; Scalar's
		// invariant (always reduced mod n) makes this unreachable.
		panic("p384: ScalarMult: " + err.Error())
	}
	v.isValid = true
	return v
}

// ScalarBaseMult sets `v = s * G`, and returns `v`.
func (v *Point) ScalarBaseMult(s *Scalar) *Point {
	v.ensure()
	if _, err := v.inner.ScalarBaseMult(s.Bytes()); err != nil {
		panic("p384: ScalarBaseMult: " + err.Error())
	}
	v.isValid = true
	return v
}

// Equal returns true iff `v == p`, compared on the canonical
// (uncompressed) encoding in constant time.
func (v *Point) Equal(p *Point) bool {
	assertPointsValid(v, p)
	return constantTimeBytesEqual(v.inner.Bytes(), p.inner.Bytes())
}

// IsIdentity returns true iff `v` is the point at infinity.
func (v *Point) IsIdentity() bool {
	assertPointsValid(v)
	return len(v.inner.Bytes()) == 1
}

// Bytes returns the X9.62 uncompressed encoding of `v`
// (`0x04 || X(48) || Y(48)`). `v` MUST NOT be the identity; callers
// are expected to have already rejected that case, since no valid
// protocol message ever carries the identity.
func (v *Point) Bytes() []byte {
	assertPointsValid(v)
	b := v.inner.Bytes()
	if len(b) != UncompressedPointSize {
		panic("p384: Bytes: point is the identity, which has no valid wire form")
	}
	return b
}

// SetUncompressedBytes sets `v` to the point encoded by the
// UncompressedPointSize-byte X9.62 uncompressed encoding `src`,
// rejecting the identity encoding and any point not on the curve. If
// `src` is malformed, SetUncompressedBytes returns nil and
// errInvalidPoint, and the receiver is left unmodified.
func (v *Point) SetUncompressedBytes(src []byte) (*Point, error) {
	if len(src) != UncompressedPointSize || src[0] != 0x04 {
		return nil, errInvalidPoint
	}

	p, err := nistec.NewP384Point().SetBytes(src)
	if err != nil {
		return nil, errInvalidPoint
	}

	v.inner = p
	v.isValid = true
	return v, nil
}

// PointFromUncompressedBytes decodes src per SetUncompressedBytes into
// a freshly allocated Point.
func PointFromUncompressedBytes(src []byte) (*Point, error) {
	return NewIdentityPoint().SetUncompressedBytes(src)
}

func (v *Point) ensure() {
	if v.inner == nil {
		v.inner = nistec.NewP384Point()
	}
}

func assertPointsValid(points ...*Point) {
	for _, p := range points {
		if !p.isValid || p.inner == nil {
			panic("p384: use of uninitialized Point")
		}
	}
}

func constantTimeBytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
