// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"crypto/rand"
	"fmt"

	"github.com/privacypass/pstcore/p384"
)

// Issue signs a batch of blinded nonces under the key identified by
// keyID. Each input nonce is multiplied by the key's secret scalar in
// order, and a single batched DLEQ proof is produced binding every
// signed element to the key's public point.
//
// An empty request (including one emptied by lenient decode drops) is
// rejected with ErrEmptyBatch rather than returning a trivial proof
// over an empty linear combination.
func (iss *Issuer) Issue(keyID uint32, req *IssueRequest, version ProtocolVersion) (*IssueResponse, error) {
	suite, err := version.suite()
	if err != nil {
		return nil, err
	}

	kp, ok := iss.lookupKey(keyID)
	if !ok {
		return nil, fmt.Errorf("issuer: issue: %w", ErrUnknownKey)
	}

	if len(req.Nonces) == 0 {
		return nil, fmt.Errorf("issuer: issue: %w", ErrEmptyBatch)
	}

	sk := kp.Secret().Scalar()
	signed := make([]*p384.Point, len(req.Nonces))
	for i, t := range req.Nonces {
		signed[i] = p384.NewIdentityPoint().ScalarMult(sk, t)
	}

	rnd := iss.proofNonceReader
	if rnd == nil {
		rnd = rand.Reader
	}

	proof, err := generateBatchDLEQ(rnd, sk, kp.Public().Point(), req.Nonces, signed, suite.hashToScalarDST, suite.hash)
	if err != nil {
		return nil, fmt.Errorf("issuer: issue: %w", err)
	}

	return &IssueResponse{KeyID: keyID, Signed: signed, Proof: proof.Bytes()}, nil
}
