// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"crypto"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/privacypass/pstcore/p384"
)

// batchDLEQNoncePrefix and dleqChallengePrefix are the literal message
// prefixes hashed alongside the batch transcript and the Fiat-Shamir
// challenge input, respectively. They are message content, not domain
// separation tags: the DST passed to HashToScalar is always the
// protocol version's hashToScalarDST.
var (
	batchDLEQNoncePrefix = []byte("DLEQ BATCH\x00")
	dleqChallengePrefix  = []byte("DLEQ\x00")
)

// dleqProof is a batched DLEQ proof: `(c, u)`, a pair of Scalars
// serialized as the IssueResponse's 96-byte proof field.
type dleqProof struct {
	c *p384.Scalar
	u *p384.Scalar
}

// Bytes returns the `c || u` encoding of the proof.
func (p *dleqProof) Bytes() []byte {
	out := make([]byte, 0, proofSize)
	out = append(out, p.c.Bytes()...)
	out = append(out, p.u.Bytes()...)
	return out
}

// dleqProofFromBytes decodes a proofSize-byte `c || u` encoding.
func dleqProofFromBytes(proof []byte) (*dleqProof, error) {
	if len(proof) != proofSize {
		return nil, fmt.Errorf("issuer: dleq: %w", ErrDecode)
	}
	c, err := p384.NewScalarFromCanonicalBytes(proof[:p384.ScalarSize])
	if err != nil {
		return nil, fmt.Errorf("issuer: dleq: %w: %w", ErrDecode, err)
	}
	u, err := p384.NewScalarFromCanonicalBytes(proof[p384.ScalarSize:])
	if err != nil {
		return nil, fmt.Errorf("issuer: dleq: %w: %w", ErrDecode, err)
	}
	return &dleqProof{c: c, u: u}, nil
}

// batchTranscript builds `B = pk_bytes || T_0 || Z_0 || ... ||
// T_{c-1} || Z_{c-1}`. nonces and signed MUST be the same length and
// in the order the caller wants reflected in the response; transcript
// order is security-relevant and must match byte-for-byte on both
// ends.
func batchTranscript(pkBytes []byte, nonces, signed []*p384.Point) []byte {
	out := make([]byte, 0, len(pkBytes)+len(nonces)*2*p384.UncompressedPointSize)
	out = append(out, pkBytes...)
	for i := range nonces {
		out = append(out, nonces[i].Bytes()...)
		out = append(out, signed[i].Bytes()...)
	}
	return out
}

// batchCoefficients computes `e_i = hash_to_scalar("DLEQ BATCH\0" || B
// || u16(i), DST, hash)` for `i` in `0..count-1`; the index keeps each
// coefficient of the random linear combination independent.
func batchCoefficients(transcript []byte, count int, dst []byte, h crypto.Hash) []*p384.Scalar {
	coeffs := make([]*p384.Scalar, count)
	msg := make([]byte, 0, len(batchDLEQNoncePrefix)+len(transcript)+2)
	for i := 0; i < count; i++ {
		msg = msg[:0]
		msg = append(msg, batchDLEQNoncePrefix...)
		msg = append(msg, transcript...)
		msg = binary.BigEndian.AppendUint16(msg, uint16(i))

		coeffs[i] = p384.HashToScalar(msg, dst, h)
	}
	return coeffs
}

// linearCombination computes the sum of `coeffs[i] * points[i]`, used
// for both `T*` and `Z*`.
func linearCombination(coeffs []*p384.Scalar, points []*p384.Point) *p384.Point {
	acc := p384.NewIdentityPoint()
	tmp := p384.NewIdentityPoint()
	for i, pt := range points {
		tmp.ScalarMult(coeffs[i], pt)
		acc.Add(acc, tmp)
	}
	return acc
}

// generateBatchDLEQ collapses `count` DLEQ instances into one proof:
// it builds the batch transcript, derives per-index coefficients,
// forms the random linear combinations T*/Z*, samples a proof nonce
// from rnd, and computes the Fiat-Shamir challenge and response.
//
// rnd MUST be a cryptographically secure source in production; the
// only caller that passes anything else is the test-only
// WithDeterministicProofNonce path.
func generateBatchDLEQ(rnd io.Reader, sk *p384.Scalar, pk *p384.Point, nonces, signed []*p384.Point, dst []byte, h crypto.Hash) (*dleqProof, error) {
	if len(nonces) == 0 {
		return nil, ErrEmptyBatch
	}

	pkBytes := pk.Bytes()
	transcript := batchTranscript(pkBytes, nonces, signed)
	coeffs := batchCoefficients(transcript, len(nonces), dst, h)

	tStar := linearCombination(coeffs, nonces)
	zStar := linearCombination(coeffs, signed)

	r, err := p384.RandomScalar(rnd)
	if err != nil {
		return nil, errors.Join(ErrRngFailure, err)
	}

	k0 := p384.NewIdentityPoint().ScalarBaseMult(r)
	k1 := p384.NewIdentityPoint().ScalarMult(r, tStar)

	c := dleqChallenge(pkBytes, tStar, zStar, k0, k1, dst, h)

	u := p384.NewScalar().Multiply(c, sk)
	u.Add(u, r)

	return &dleqProof{c: c, u: u}, nil
}

// dleqChallenge computes `c = hash_to_scalar("DLEQ\0" || pk || T* ||
// Z* || k0 || k1, DST, hash)`.
func dleqChallenge(pkBytes []byte, tStar, zStar, k0, k1 *p384.Point, dst []byte, h crypto.Hash) *p384.Scalar {
	msg := make([]byte, 0, len(dleqChallengePrefix)+len(pkBytes)+4*p384.UncompressedPointSize)
	msg = append(msg, dleqChallengePrefix...)
	msg = append(msg, pkBytes...)
	msg = append(msg, tStar.Bytes()...)
	msg = append(msg, zStar.Bytes()...)
	msg = append(msg, k0.Bytes()...)
	msg = append(msg, k1.Bytes()...)

	return p384.HashToScalar(msg, dst, h)
}

// VerifyBatchDLEQ performs the client-side check of a batched DLEQ
// proof: given the issuer's public key, the original nonces, the
// signed elements, and the proof bytes from an IssueResponse, it
// recomputes `k0' = u*G - c*pk`, `k1' = u*T* - c*Z*` and checks that
// hashing them reproduces `c`. Clients are external to this package;
// it is exported so integrations can sanity-check an issuer end to
// end.
func VerifyBatchDLEQ(pk *p384.Point, nonces, signed []*p384.Point, proof []byte, version ProtocolVersion) (bool, error) {
	if len(nonces) != len(signed) || len(nonces) == 0 {
		return false, ErrEmptyBatch
	}

	suite, err := version.suite()
	if err != nil {
		return false, err
	}

	parsed, err := dleqProofFromBytes(proof)
	if err != nil {
		return false, err
	}

	pkBytes := pk.Bytes()
	transcript := batchTranscript(pkBytes, nonces, signed)
	coeffs := batchCoefficients(transcript, len(nonces), suite.hashToScalarDST, suite.hash)

	tStar := linearCombination(coeffs, nonces)
	zStar := linearCombination(coeffs, signed)

	uG := p384.NewIdentityPoint().ScalarBaseMult(parsed.u)
	cPk := p384.NewIdentityPoint().ScalarMult(parsed.c, pk)
	k0Prime := p384.NewIdentityPoint().Negate(cPk)
	k0Prime.Add(k0Prime, uG)

	uT := p384.NewIdentityPoint().ScalarMult(parsed.u, tStar)
	cZ := p384.NewIdentityPoint().ScalarMult(parsed.c, zStar)
	k1Prime := p384.NewIdentityPoint().Negate(cZ)
	k1Prime.Add(k1Prime, uT)

	cPrime := dleqChallenge(pkBytes, tStar, zStar, k0Prime, k1Prime, suite.hashToScalarDST, suite.hash)

	return cPrime.Equal(parsed.c), nil
}
