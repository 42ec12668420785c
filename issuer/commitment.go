// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/privacypass/pstcore/p384"
)

// commitmentFormatID is the fixed "id" field of a key commitment
// document: a commitment-format version, not related to any key's
// identifier, and always 1.
const commitmentFormatID = 1

type keyCommitmentEntry struct {
	Y      string `json:"Y"`
	Expiry string `json:"expiry"`
}

type keyCommitmentProtocol struct {
	ProtocolVersion string                        `json:"protocol_version"`
	ID              int                           `json:"id"`
	BatchSize       uint16                        `json:"batchsize"`
	Keys            map[string]keyCommitmentEntry `json:"keys"`
}

// KeyCommitment returns the JSON key commitment document advertising
// the issuer's public keys and protocol parameters for version, bound
// to iss.host.
func (iss *Issuer) KeyCommitment(version ProtocolVersion) ([]byte, error) {
	suite, err := version.suite()
	if err != nil {
		return nil, err
	}

	keys := make(map[string]keyCommitmentEntry)
	for _, pk := range iss.PublicKeys() {
		keys[strconv.FormatUint(uint64(pk.ID()), 10)] = keyCommitmentEntry{
			Y:      encodeKeyCommitmentPublicKey(pk),
			Expiry: strconv.FormatUint(pk.Expiry(), 10),
		}
	}

	doc := map[string]map[string]keyCommitmentProtocol{
		iss.host: {
			suite.name: {
				ProtocolVersion: suite.name,
				ID:              commitmentFormatID,
				BatchSize:       iss.maxBatchSize,
				Keys:            keys,
			},
		},
	}

	return json.Marshal(doc)
}

// encodeKeyCommitmentPublicKey serializes `u32 id || Point pub` and
// base64-encodes it for the "Y" field of a key commitment entry.
func encodeKeyCommitmentPublicKey(pk *PublicKey) string {
	id := pk.ID()
	raw := make([]byte, 0, 4+p384.UncompressedPointSize)
	raw = append(raw, byte(id>>24), byte(id>>16), byte(id>>8), byte(id))
	raw = append(raw, pk.Bytes()...)
	return base64.StdEncoding.EncodeToString(raw)
}
