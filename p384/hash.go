// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package p384

import (
	"crypto"
	_ "crypto/sha512"

	"github.com/bytemare/hash2curve"

	"github.com/privacypass/pstcore/internal/fieldp384"
)

// secLength (`L`, RFC 9380 §5.1) is the number of bytes of the
// expanded message consumed per field element: `ceil((ceil(log2(p))+k)/8)`
// for P-384's 384-bit field and a 192-bit security level `k`.
const secLength = 72

// HashToGroup hashes msg to a curve point, instantiating the
// `P384_XMD:SHA-XXX_SSWU_RO_` suite per
// draft-irtf-cfrg-hash-to-curve-16 §3: `u = hash_to_field(msg, 2);
// Q0 = map_to_curve(u[0]); Q1 = map_to_curve(u[1]); P = Q0 + Q1`. P-384
// has cofactor 1, so no further clearing is needed after the addition.
// `dst` MUST include any terminating NUL byte the caller wants mixed
// in; the Private State Token DSTs all carry one.
func HashToGroup(msg, dst []byte, h crypto.Hash) *Point {
	u := hash2curve.HashToFieldXMD(h, msg, dst, 2, 1, secLength, fieldp384.P)

	q0 := mapToCurvePoint(fieldp384.New().SetBig(u[0]))
	q1 := mapToCurvePoint(fieldp384.New().SetBig(u[1]))

	return NewIdentityPoint().Add(q0, q1)
}

// mapToCurvePoint runs the SSWU mapping on u and encodes the result
// as a Point.
func mapToCurvePoint(u *fieldp384.Element) *Point {
	x, y := fieldp384.MapToCurve(u)

	uncompressed := make([]byte, 0, UncompressedPointSize)
	uncompressed = append(uncompressed, 0x04)
	uncompressed = append(uncompressed, x.Bytes()...)
	uncompressed = append(uncompressed, y.Bytes()...)

	p, err := PointFromUncompressedBytes(uncompressed)
	if err != nil {
		// The mapping's output is on the curve for every input.
		panic("p384: mapToCurvePoint: " + err.Error())
	}
	return p
}

// HashToScalar hashes msg to an integer modulo n: `hash_to_field`
// with `m=1`, `L=72`, `k=192`, modulus `n`, returning the single
// resulting field element as a Scalar.
func HashToScalar(msg, dst []byte, h crypto.Hash) *Scalar {
	v := hash2curve.HashToFieldXMD(h, msg, dst, 1, 1, secLength, N)[0]

	s := NewScalar()
	s.v.Set(v)
	return s
}
