// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import "crypto"

// ProtocolVersion selects the hash function and domain separation
// tags used throughout the VOPRF engine. It is a closed tagged
// variant rather than a string map: string lookups belong only at the
// transport boundary, via ProtocolVersionByName.
type ProtocolVersion uint8

const (
	// V1 is PrivateStateTokenV1VOPRF: SHA-384.
	V1 ProtocolVersion = iota + 1
	// V3 is PrivateStateTokenV3VOPRF: SHA-512. This is the default
	// version.
	V3
)

// DefaultProtocolVersion is the version used when a deployment does
// not pin one explicitly.
const DefaultProtocolVersion = V3

type suite struct {
	name            string
	hash            crypto.Hash
	hashToGroupDST  []byte
	hashToScalarDST []byte
}

var suites = map[ProtocolVersion]suite{
	V1: {
		name:            "PrivateStateTokenV1VOPRF",
		hash:            crypto.SHA384,
		hashToGroupDST:  []byte("HashToGroup-OPRFV1-\x01-P384-SHA384\x00"),
		hashToScalarDST: []byte("HashToScalar-OPRFV1-\x01-P384-SHA384\x00"),
	},
	V3: {
		name:            "PrivateStateTokenV3VOPRF",
		hash:            crypto.SHA512,
		hashToGroupDST:  []byte("TrustToken VOPRF Experiment V2 HashToGroup\x00"),
		hashToScalarDST: []byte("TrustToken VOPRF Experiment V2 HashToScalar\x00"),
	},
}

// Name returns the protocol's wire/commitment-document name, e.g.
// "PrivateStateTokenV3VOPRF".
func (v ProtocolVersion) Name() string {
	s, ok := suites[v]
	if !ok {
		return ""
	}
	return s.name
}

func (v ProtocolVersion) suite() (suite, error) {
	s, ok := suites[v]
	if !ok {
		return suite{}, ErrUnsupportedVersion
	}
	return s, nil
}

// ProtocolVersionByName resolves a protocol name (as it appears in a
// key commitment document) to a ProtocolVersion. This is the only
// place in the package that does a string-keyed lookup; everywhere
// else a ProtocolVersion value is passed directly.
func ProtocolVersionByName(name string) (ProtocolVersion, bool) {
	for v, s := range suites {
		if s.name == name {
			return v, true
		}
	}
	return 0, false
}
