// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import "errors"

// Sentinel errors. Callers should use errors.Is against these; the
// wrapping call sites add context via fmt.Errorf's `%w`.
var (
	// ErrDecode indicates a malformed wire message: a short read or
	// invalid framing. No partial state is retained.
	ErrDecode = errors.New("pstissuer: malformed wire message")

	// ErrUnknownKey indicates that a request's key identifier does not
	// match any key pair known to the Issuer.
	ErrUnknownKey = errors.New("pstissuer: unknown key id")

	// ErrEmptyBatch indicates an IssueRequest with zero surviving
	// nonces. An empty batch is rejected rather than answered with a
	// trivial proof over an empty linear combination.
	ErrEmptyBatch = errors.New("pstissuer: empty issuance batch")

	// ErrRedeemMismatch indicates that a RedeemRequest's point does not
	// equal the recomputed VOPRF evaluation. No further diagnostic is
	// leaked to the caller.
	ErrRedeemMismatch = errors.New("pstissuer: redemption mismatch")

	// ErrRngFailure indicates the configured randomness source
	// returned an error while sampling a random scalar: the DLEQ proof
	// nonce in Issue, or a new secret key in GenerateKeyPair. This is
	// fatal to the call; it is never retried internally.
	ErrRngFailure = errors.New("pstissuer: randomness unavailable")

	// ErrUnsupportedVersion indicates a ProtocolVersion value that does
	// not correspond to a known protocol profile.
	ErrUnsupportedVersion = errors.New("pstissuer: unsupported protocol version")

	// ErrInvalidKey indicates an imported key (JWK or explicit
	// construction) failed a structural check: a zero or out-of-range
	// secret scalar, a malformed public point, or a JWK coordinate of
	// the wrong length. Whether the public point equals the secret
	// scalar times G is not checked.
	ErrInvalidKey = errors.New("pstissuer: invalid key material")
)
