// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privacypass/pstcore/p384"
)

func newTestIssuer(t *testing.T, id uint32) *Issuer {
	t.Helper()
	iss, err := Generate("issuer.example", 100, id)
	require.NoError(t, err)
	return iss
}

func TestIssueRedeemRoundTrip(t *testing.T) {
	for _, version := range []ProtocolVersion{V1, V3} {
		version := version
		t.Run(version.Name(), func(t *testing.T) {
			iss := newTestIssuer(t, 0)

			suite, err := version.suite()
			require.NoError(t, err)

			g := p384.NewGeneratorPoint()
			req := &IssueRequest{Nonces: []*p384.Point{g, g, g}}

			resp, err := iss.Issue(0, req, version)
			require.NoError(t, err)
			require.Len(t, resp.Signed, 3)

			pk := iss.lookupKeyPublic(t, 0)
			ok, err := VerifyBatchDLEQ(pk, req.Nonces, resp.Signed, resp.Proof, version)
			require.NoError(t, err)
			require.True(t, ok)

			// Redeem: construct a token from a VOPRF evaluation the
			// issuer itself would recompute from HashToGroup(nonce).
			var nonce [64]byte
			h := p384.HashToGroup(nonce[:], suite.hashToGroupDST, suite.hash)

			kp, ok := iss.lookupKey(0)
			require.True(t, ok)

			expected := p384.NewIdentityPoint().ScalarMult(kp.Secret().Scalar(), g)
			for _, z := range resp.Signed {
				require.True(t, z.Equal(expected), "signed element must be sk * T")
			}

			point := p384.NewIdentityPoint().ScalarMult(kp.Secret().Scalar(), h)

			rreq := &RedeemRequest{Token: &Token{KeyID: 0, Nonce: nonce, Point: point}}
			record := []byte("redemption-record")
			resp2, err := iss.Redeem(rreq, record, version)
			require.NoError(t, err)
			require.Equal(t, record, resp2.Record)
		})
	}
}

// lookupKeyPublic is a small test helper exposing the unexported
// lookupKey for assertions.
func (iss *Issuer) lookupKeyPublic(t *testing.T, id uint32) *p384.Point {
	t.Helper()
	kp, ok := iss.lookupKey(id)
	require.True(t, ok)
	return kp.Public().Point()
}

func TestRedeemMismatch(t *testing.T) {
	iss := newTestIssuer(t, 0)
	suite := suites[V3]

	var nonce [64]byte
	h := p384.HashToGroup(nonce[:], suite.hashToGroupDST, suite.hash)

	kp, ok := iss.lookupKey(0)
	require.True(t, ok)
	point := p384.NewIdentityPoint().ScalarMult(kp.Secret().Scalar(), h)

	// Negating the evaluation keeps the encoding on the curve but
	// changes its Y coordinate, so redemption must reject it.
	tampered := p384.NewIdentityPoint().Negate(point)

	rreq := &RedeemRequest{Token: &Token{KeyID: 0, Nonce: nonce, Point: tampered}}
	_, err := iss.Redeem(rreq, []byte("record"), V3)
	require.ErrorIs(t, err, ErrRedeemMismatch)
}

func TestUnknownKey(t *testing.T) {
	iss := newTestIssuer(t, 0)

	req := &IssueRequest{Nonces: []*p384.Point{p384.NewGeneratorPoint()}}
	_, err := iss.Issue(99, req, V3)
	require.ErrorIs(t, err, ErrUnknownKey)

	var nonce [64]byte
	rreq := &RedeemRequest{Token: &Token{KeyID: 99, Nonce: nonce, Point: p384.NewGeneratorPoint()}}
	_, err = iss.Redeem(rreq, nil, V3)
	require.ErrorIs(t, err, ErrUnknownKey)
}

func TestEmptyBatchIsRejected(t *testing.T) {
	iss := newTestIssuer(t, 0)
	_, err := iss.Issue(0, &IssueRequest{}, V3)
	require.ErrorIs(t, err, ErrEmptyBatch)
}

func TestPublicKeysOrdering(t *testing.T) {
	iss := New("issuer.example", 10)
	for _, id := range []uint32{5, 1, 3} {
		kp, err := GenerateKeyPair(rand.Reader, id, 0)
		require.NoError(t, err)
		iss.AddKey(kp)
	}

	pks := iss.PublicKeys()
	require.Len(t, pks, 3)
	require.Equal(t, []uint32{1, 3, 5}, []uint32{pks[0].ID(), pks[1].ID(), pks[2].ID()})
}

func TestDeterministicProofNonceOption(t *testing.T) {
	r, err := p384.RandomScalar(rand.Reader)
	require.NoError(t, err)

	iss, err := Generate("issuer.example", 10, 0, WithDeterministicProofNonce(r))
	require.NoError(t, err)

	g := p384.NewGeneratorPoint()
	req := &IssueRequest{Nonces: []*p384.Point{g}}

	resp1, err := iss.Issue(0, req, V3)
	require.NoError(t, err)
	resp2, err := iss.Issue(0, req, V3)
	require.NoError(t, err)

	require.Equal(t, resp1.Proof, resp2.Proof, "fixed proof nonce must produce byte-stable proofs")
}
