// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/privacypass/pstcore/p384"
)

var (
	errUnsupportedKty = errors.New("issuer: jwk: unsupported kty")
	errUnsupportedCrv = errors.New("issuer: jwk: unsupported crv")
)

// JWK is a JWK-shaped key import record: `{kty, crv, kid, x, y, d,
// exp}`. x, y, and d are base64url ("RawURLEncoding", no padding, per
// RFC 7515) encodings of p384.CoordSize/p384.ScalarSize-byte
// big-endian values.
type JWK struct {
	Kty string `json:"kty,omitempty"`
	Crv string `json:"crv,omitempty"`
	Kid uint32 `json:"kid"`
	X   string `json:"x"`
	Y   string `json:"y"`
	D   string `json:"d"`
	Exp uint64 `json:"exp"`
}

// KeyPair decodes j into a KeyPair. The public point is constructed
// directly from `0x04 || x || y` rather than re-derived from the
// secret scalar, so an imported KeyPair's public point may be
// independent of its secret scalar. j.Exp is normalized to
// microseconds before being stored on both sub-keys.
func (j *JWK) KeyPair() (*KeyPair, error) {
	if j.Kty != "" && j.Kty != "EC" {
		return nil, fmt.Errorf("issuer: jwk: %w: %q", errUnsupportedKty, j.Kty)
	}
	if j.Crv != "" && j.Crv != "P-384" {
		return nil, fmt.Errorf("issuer: jwk: %w: %q", errUnsupportedCrv, j.Crv)
	}

	xBytes, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, fmt.Errorf("issuer: jwk: decode x: %w", err)
	}
	yBytes, err := base64.RawURLEncoding.DecodeString(j.Y)
	if err != nil {
		return nil, fmt.Errorf("issuer: jwk: decode y: %w", err)
	}
	dBytes, err := base64.RawURLEncoding.DecodeString(j.D)
	if err != nil {
		return nil, fmt.Errorf("issuer: jwk: decode d: %w", err)
	}

	if len(xBytes) != p384.CoordSize || len(yBytes) != p384.CoordSize || len(dBytes) != p384.ScalarSize {
		return nil, fmt.Errorf("issuer: jwk: %w", ErrInvalidKey)
	}

	ptBytes := make([]byte, 0, p384.UncompressedPointSize)
	ptBytes = append(ptBytes, 0x04)
	ptBytes = append(ptBytes, xBytes...)
	ptBytes = append(ptBytes, yBytes...)

	expiry := normalizeExpiryToMicros(j.Exp)

	public, err := NewPublicKeyFromBytes(j.Kid, ptBytes, expiry)
	if err != nil {
		return nil, err
	}

	secret, err := NewSecretKey(j.Kid, dBytes, expiry)
	if err != nil {
		return nil, err
	}

	return NewKeyPair(j.Kid, secret, public, expiry), nil
}

// normalizeExpiryToMicros scales expiry up to microseconds: an expiry
// expressed in seconds or milliseconds is multiplied by the smallest
// power of 10^3, `k in {0,3,6,9,12,15}`, that brings it to at least
// 16 decimal digits. The heuristic applies only on JWK ingest, where
// the unit is otherwise unspecified; construct keys directly to
// supply an exact microsecond expiry.
func normalizeExpiryToMicros(expiry uint64) uint64 {
	if expiry == 0 {
		return 0
	}
	for _, k := range [...]uint{0, 3, 6, 9, 12, 15} {
		scaled := expiry * pow10(k)
		if decimalDigits(scaled) >= 16 {
			return scaled
		}
	}
	return expiry * pow10(15)
}

func decimalDigits(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v /= 10
	}
	if n == 0 {
		n = 1
	}
	return n
}

func pow10(k uint) uint64 {
	v := uint64(1)
	for i := uint(0); i < k; i++ {
		v *= 10
	}
	return v
}
