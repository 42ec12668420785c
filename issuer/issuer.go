// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package issuer implements the issuer-side cryptographic core of a
// Private State Token service: VOPRF blind-evaluation, batched DLEQ
// proof generation, redemption verification, and the wire encodings
// that carry them. Its API favors typed keys with Bytes/Equal methods
// and explicit constructors over implicit global state.
package issuer

import (
	"crypto/rand"
	"io"
	"sort"
	"sync"

	"github.com/privacypass/pstcore/p384"
)

// Issuer owns a keyed set of VOPRF key pairs and dispatches issue and
// redeem calls to the right key. The key map is read-mostly:
// AddKey/AddJWK take a write lock, while
// Issue/Redeem/PublicKeys/KeyCommitment only ever read-lock, so a
// frozen key set incurs no contention on the hot path.
type Issuer struct {
	host         string
	maxBatchSize uint16

	mu   sync.RWMutex
	keys map[uint32]*KeyPair

	// proofNonceReader overrides the DLEQ proof nonce source; nil in
	// production, set only via WithDeterministicProofNonce.
	proofNonceReader io.Reader
}

// Option configures an Issuer at construction time.
type Option func(*Issuer)

// WithDeterministicProofNonce pins the DLEQ proof nonce `r` to a
// fixed Scalar instead of drawing it from crypto/rand. It exists
// solely to reproduce fixed proof vectors in tests; nothing reaches
// it unless a caller explicitly opts in at construction time.
func WithDeterministicProofNonce(r *p384.Scalar) Option {
	return func(iss *Issuer) {
		iss.proofNonceReader = newFixedScalarReader(r)
	}
}

// New constructs an empty Issuer advertising host and maxBatchSize.
// maxBatchSize is advertised in key commitments only; the engine
// itself does not reject oversize requests, that policy belongs to
// the transport.
func New(host string, maxBatchSize uint16, opts ...Option) *Issuer {
	iss := &Issuer{
		host:         host,
		maxBatchSize: maxBatchSize,
		keys:         make(map[uint32]*KeyPair),
	}
	for _, opt := range opts {
		opt(iss)
	}
	return iss
}

// Generate constructs an Issuer with a single freshly-generated key
// pair identified by id.
func Generate(host string, maxBatchSize uint16, id uint32, opts ...Option) (*Issuer, error) {
	iss := New(host, maxBatchSize, opts...)

	kp, err := GenerateKeyPair(rand.Reader, id, 0)
	if err != nil {
		return nil, err
	}
	iss.AddKey(kp)

	return iss, nil
}

// Host returns the issuer's advertised host.
func (iss *Issuer) Host() string { return iss.host }

// MaxBatchSize returns the issuer's advertised batch-size limit.
func (iss *Issuer) MaxBatchSize() uint16 { return iss.maxBatchSize }

// AddKey upserts kp into the issuer's key map, keyed by kp.ID().
func (iss *Issuer) AddKey(kp *KeyPair) {
	iss.mu.Lock()
	defer iss.mu.Unlock()
	iss.keys[kp.ID()] = kp
}

// AddJWK decodes j and upserts the resulting KeyPair.
func (iss *Issuer) AddJWK(j *JWK) error {
	kp, err := j.KeyPair()
	if err != nil {
		return err
	}
	iss.AddKey(kp)
	return nil
}

// lookupKey returns the key pair registered under id, if any.
func (iss *Issuer) lookupKey(id uint32) (*KeyPair, bool) {
	iss.mu.RLock()
	defer iss.mu.RUnlock()
	kp, ok := iss.keys[id]
	return kp, ok
}

// PublicKeys returns the issuer's public keys, ordered by ascending
// key id.
func (iss *Issuer) PublicKeys() []*PublicKey {
	iss.mu.RLock()
	defer iss.mu.RUnlock()

	ids := make([]uint32, 0, len(iss.keys))
	for id := range iss.keys {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*PublicKey, len(ids))
	for i, id := range ids {
		out[i] = iss.keys[id].Public()
	}
	return out
}
