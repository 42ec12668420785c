// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"fmt"

	"github.com/privacypass/pstcore/p384"
)

// Redeem verifies a redemption request against the key its token
// names, releasing record on success. It recomputes the expected
// VOPRF evaluation from the token's nonce and the key's secret
// scalar, and compares it against the token's supplied point in
// constant time.
func (iss *Issuer) Redeem(req *RedeemRequest, record []byte, version ProtocolVersion) (*RedeemResponse, error) {
	suite, err := version.suite()
	if err != nil {
		return nil, err
	}

	kp, ok := iss.lookupKey(req.Token.KeyID)
	if !ok {
		return nil, fmt.Errorf("issuer: redeem: %w", ErrUnknownKey)
	}

	hashed := p384.HashToGroup(req.Token.Nonce[:], suite.hashToGroupDST, suite.hash)
	expected := p384.NewIdentityPoint().ScalarMult(kp.Secret().Scalar(), hashed)

	// Equal compares the canonical point encodings in constant time;
	// nothing here branches on secret data beyond the unavoidable
	// key-map lookup.
	if !expected.Equal(req.Token.Point) {
		return nil, fmt.Errorf("issuer: redeem: %w", ErrRedeemMismatch)
	}

	return &RedeemResponse{Record: record}, nil
}
