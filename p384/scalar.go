// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package p384

import (
	"errors"
	"io"
	"math/big"

	"github.com/privacypass/pstcore/internal/disalloweq"
)

// ScalarSize is the size, in bytes, of a canonical Scalar encoding.
const ScalarSize = 48

// N is the order of the P-384 base point `G`.
var N, _ = new(big.Int).SetString(
	"ffffffffffffffffffffffffffffffffffffffffffffffffc7634d81f4372ddf581a0db248b0a77aecec196accc52973", 16)

var errScalarRange = errors.New("p384: scalar value out of range")

// Scalar is an integer modulo `n`, the order of the P-384 base point.
// filippo.io/nistec does not expose a scalar field type of its own (it
// leaves modular scalar arithmetic to the caller, the same way
// crypto/ecdsa does internally), so this wraps math/big reduced mod n.
// Unlike the Point/ScalarMult path, this is not constant-time; the
// secret-key path that must be constant-time is the point
// multiplication, and every Scalar arithmetic call site in this module
// operates on already-reduced values of fixed bit length.
type Scalar struct {
	_ disalloweq.DisallowEqual

	v big.Int
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// NewScalarFrom creates a new Scalar from another.
func NewScalarFrom(other *Scalar) *Scalar {
	return NewScalar().Set(other)
}

// Set sets `s = a` and returns `s`.
func (s *Scalar) Set(a *Scalar) *Scalar {
	s.v.Set(&a.v)
	return s
}

// Zero sets `s = 0` and returns `s`.
func (s *Scalar) Zero() *Scalar {
	s.v.SetUint64(0)
	return s
}

// Add sets `s = a + b mod n` and returns `s`.
func (s *Scalar) Add(a, b *Scalar) *Scalar {
	s.v.Add(&a.v, &b.v)
	s.v.Mod(&s.v, N)
	return s
}

// Subtract sets `s = a - b mod n` and returns `s`.
func (s *Scalar) Subtract(a, b *Scalar) *Scalar {
	s.v.Sub(&a.v, &b.v)
	s.v.Mod(&s.v, N)
	return s
}

// Multiply sets `s = a * b mod n` and returns `s`.
func (s *Scalar) Multiply(a, b *Scalar) *Scalar {
	s.v.Mul(&a.v, &b.v)
	s.v.Mod(&s.v, N)
	return s
}

// Negate sets `s = -a mod n` and returns `s`.
func (s *Scalar) Negate(a *Scalar) *Scalar {
	s.v.Sub(N, &a.v)
	s.v.Mod(&s.v, N)
	return s
}

// IsZero returns true iff `s == 0`.
func (s *Scalar) IsZero() bool {
	return s.v.Sign() == 0
}

// Equal returns true iff `s == a`.
func (s *Scalar) Equal(a *Scalar) bool {
	return s.v.Cmp(&a.v) == 0
}

// Bytes returns the canonical ScalarSize-byte big-endian encoding of `s`.
func (s *Scalar) Bytes() []byte {
	dst := make([]byte, ScalarSize)
	b := s.v.Bytes()
	copy(dst[ScalarSize-len(b):], b)
	return dst
}

// SetBytes sets `s` to the big-endian integer encoded by the
// ScalarSize-byte slice `src`, WITHOUT reducing modulo n: callers
// decoding trusted key material, which is already canonical, use this
// directly. It returns `s`.
func (s *Scalar) SetBytes(src []byte) (*Scalar, error) {
	if len(src) != ScalarSize {
		return nil, errScalarRange
	}
	s.v.SetBytes(src)
	return s, nil
}

// SetCanonicalBytes behaves as SetBytes, but additionally rejects any
// encoding of a value `>= n`.
func (s *Scalar) SetCanonicalBytes(src []byte) (*Scalar, error) {
	if _, err := s.SetBytes(src); err != nil {
		return nil, err
	}
	if s.v.Cmp(N) >= 0 {
		return nil, errScalarRange
	}
	return s, nil
}

// NewScalarFromCanonicalBytes creates a new Scalar from its canonical
// big-endian byte representation.
func NewScalarFromCanonicalBytes(src []byte) (*Scalar, error) {
	return NewScalar().SetCanonicalBytes(src)
}

// RandomScalar returns a uniformly random Scalar in `[1, n-1]`, reading
// entropy from `rand`.
func RandomScalar(rand io.Reader) (*Scalar, error) {
	for {
		var buf [ScalarSize]byte
		if _, err := io.ReadFull(rand, buf[:]); err != nil {
			return nil, err
		}

		s := NewScalar()
		s.v.SetBytes(buf[:])
		s.v.Mod(&s.v, N)

		if !s.IsZero() {
			return s, nil
		}
	}
}
