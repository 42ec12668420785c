// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/privacypass/pstcore/p384"
)

// SecretKey is an issuer's VOPRF secret key: an identifier, a
// non-zero scalar, and an expiry.
type SecretKey struct {
	id     uint32
	scalar *p384.Scalar
	expiry uint64
}

// ID returns the key identifier.
func (k *SecretKey) ID() uint32 { return k.id }

// Expiry returns the key's expiry, in whatever unit it was
// constructed with (callers working with key commitments use
// microseconds since the Unix epoch).
func (k *SecretKey) Expiry() uint64 { return k.expiry }

// Scalar returns a copy of the scalar underlying `k`.
func (k *SecretKey) Scalar() *p384.Scalar {
	return p384.NewScalarFrom(k.scalar)
}

// Bytes returns the canonical big-endian encoding of the secret scalar.
func (k *SecretKey) Bytes() []byte {
	return k.scalar.Bytes()
}

// NewSecretKey constructs a SecretKey from a canonical ScalarSize-byte
// encoding, an identifier, and an expiry. It rejects the zero scalar
// and any encoding `>= n`.
func NewSecretKey(id uint32, scalarBytes []byte, expiry uint64) (*SecretKey, error) {
	s, err := p384.NewScalarFromCanonicalBytes(scalarBytes)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	if s.IsZero() {
		return nil, ErrInvalidKey
	}
	return &SecretKey{id: id, scalar: s, expiry: expiry}, nil
}

// PublicKey is an issuer's VOPRF public key: an identifier, a curve
// point, and an expiry. The invariant `point == scalar * G` is
// required for correctness but not enforced at construction, since a
// KeyPair may be imported with an independently-supplied public
// point.
type PublicKey struct {
	id     uint32
	point  *p384.Point
	expiry uint64
}

// ID returns the key identifier.
func (k *PublicKey) ID() uint32 { return k.id }

// Expiry returns the key's expiry.
func (k *PublicKey) Expiry() uint64 { return k.expiry }

// Point returns a copy of the point underlying `k`.
func (k *PublicKey) Point() *p384.Point {
	return p384.NewPointFrom(k.point)
}

// Bytes returns the X9.62 uncompressed encoding of the public point.
func (k *PublicKey) Bytes() []byte {
	return k.point.Bytes()
}

// NewPublicKeyFromPoint constructs a PublicKey directly from a Point,
// an identifier, and an expiry.
func NewPublicKeyFromPoint(id uint32, point *p384.Point, expiry uint64) *PublicKey {
	return &PublicKey{id: id, point: p384.NewPointFrom(point), expiry: expiry}
}

// NewPublicKeyFromBytes decodes `src` (an UncompressedPointSize-byte
// X9.62 point) into a PublicKey.
func NewPublicKeyFromBytes(id uint32, src []byte, expiry uint64) (*PublicKey, error) {
	pt, err := p384.PointFromUncompressedBytes(src)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	return &PublicKey{id: id, point: pt, expiry: expiry}, nil
}

// KeyPair is the issuer's signing key pair. Mutating `id` or `expiry`
// on the KeyPair propagates the same value to both sub-keys.
type KeyPair struct {
	id     uint32
	public *PublicKey
	secret *SecretKey
	expiry uint64
}

// ID returns the key pair's identifier.
func (kp *KeyPair) ID() uint32 { return kp.id }

// Expiry returns the key pair's expiry.
func (kp *KeyPair) Expiry() uint64 { return kp.expiry }

// Public returns the key pair's public key.
func (kp *KeyPair) Public() *PublicKey { return kp.public }

// Secret returns the key pair's secret key.
func (kp *KeyPair) Secret() *SecretKey { return kp.secret }

// SetID rewrites the identifier on the pair and both sub-keys.
func (kp *KeyPair) SetID(id uint32) {
	kp.id = id
	kp.public.id = id
	kp.secret.id = id
}

// SetExpiry rewrites the expiry on the pair and both sub-keys.
func (kp *KeyPair) SetExpiry(expiry uint64) {
	kp.expiry = expiry
	kp.public.expiry = expiry
	kp.secret.expiry = expiry
}

// NewKeyPair constructs a KeyPair from an explicit secret and public
// key. The caller is responsible for the `public == secret * G`
// invariant; NewKeyPairFromSecret derives it instead, and should be
// preferred outside of import paths that carry an independently-
// supplied public key (e.g. JWK import, see jwk.go).
func NewKeyPair(id uint32, secret *SecretKey, public *PublicKey, expiry uint64) *KeyPair {
	return &KeyPair{id: id, public: public, secret: secret, expiry: expiry}
}

// NewKeyPairFromSecret derives the public key as `secret * G` and
// returns the resulting KeyPair.
func NewKeyPairFromSecret(id uint32, secret *SecretKey, expiry uint64) *KeyPair {
	pt := p384.NewIdentityPoint().ScalarBaseMult(secret.scalar)
	public := NewPublicKeyFromPoint(id, pt, expiry)
	return NewKeyPair(id, secret, public, expiry)
}

// GenerateKeyPair generates a new KeyPair from `rnd`, sampling a
// uniformly random non-zero scalar in `[1, n-1]`.
func GenerateKeyPair(rnd io.Reader, id uint32, expiry uint64) (*KeyPair, error) {
	if rnd == nil {
		rnd = rand.Reader
	}

	s, err := p384.RandomScalar(rnd)
	if err != nil {
		return nil, errors.Join(ErrRngFailure, err)
	}

	secret := &SecretKey{id: id, scalar: s, expiry: expiry}
	return NewKeyPairFromSecret(id, secret, expiry), nil
}
