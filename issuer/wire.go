// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/cryptobyte"

	"github.com/privacypass/pstcore/p384"
)

// nonceSize is the fixed length, in bytes, of a RedeemRequest's
// token nonce.
const nonceSize = 64

// tokenSize is the wire length of an encoded Token: `4 + 64 + 97`.
const tokenSize = 4 + nonceSize + p384.UncompressedPointSize

// proofSize is the wire length of an IssueResponse's proof field:
// `c || u`, each a ScalarSize-byte Scalar.
const proofSize = 2 * p384.ScalarSize

// IssueRequest is a decoded issuance request: an ordered sequence of
// blinded nonces. Decoding is lenient: a Point that fails to parse is
// dropped rather than failing the whole message, and Dropped records
// how many were skipped so a caller can count and log malformed input
// without this package assuming a logger.
type IssueRequest struct {
	Nonces  []*p384.Point
	Dropped int
}

// DecodeIssueRequest parses the `u16 count || Point nonces[count]`
// wire form.
func DecodeIssueRequest(data []byte) (*IssueRequest, error) {
	s := cryptobyte.String(data)

	var count uint16
	if !s.ReadUint16(&count) {
		return nil, fmt.Errorf("issuer: decode IssueRequest: %w", ErrDecode)
	}

	req := &IssueRequest{Nonces: make([]*p384.Point, 0, count)}
	for i := 0; i < int(count); i++ {
		var raw []byte
		if !s.ReadBytes(&raw, p384.UncompressedPointSize) {
			return nil, fmt.Errorf("issuer: decode IssueRequest: %w", ErrDecode)
		}

		pt, err := p384.PointFromUncompressedBytes(raw)
		if err != nil {
			req.Dropped++
			continue
		}
		req.Nonces = append(req.Nonces, pt)
	}

	if !s.Empty() {
		return nil, fmt.Errorf("issuer: decode IssueRequest: %w", ErrDecode)
	}

	return req, nil
}

// Encode serializes r per the wire form DecodeIssueRequest parses.
func (r *IssueRequest) Encode() ([]byte, error) {
	if len(r.Nonces) > 0xffff {
		return nil, fmt.Errorf("issuer: encode IssueRequest: %w", ErrDecode)
	}

	b := cryptobyte.NewBuilder(nil)
	b.AddUint16(uint16(len(r.Nonces)))
	for _, pt := range r.Nonces {
		b.AddBytes(pt.Bytes())
	}

	return b.Bytes()
}

// Token is the redemption token carried inside a RedeemRequest:
// `u32 key_id || opaque nonce[64] || Point W`.
type Token struct {
	KeyID uint32
	Nonce [nonceSize]byte
	Point *p384.Point
}

// Encode serializes t to its tokenSize-byte wire form.
func (t *Token) Encode() ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	b.AddUint32(t.KeyID)
	b.AddBytes(t.Nonce[:])
	b.AddBytes(t.Point.Bytes())
	return b.Bytes()
}

// DecodeToken parses the tokenSize-byte wire form Token.Encode produces.
func DecodeToken(data []byte) (*Token, error) {
	if len(data) != tokenSize {
		return nil, fmt.Errorf("issuer: decode Token: %w", ErrDecode)
	}

	s := cryptobyte.String(data)

	var keyID uint32
	var nonce, ptBytes []byte
	if !s.ReadUint32(&keyID) ||
		!s.ReadBytes(&nonce, nonceSize) ||
		!s.ReadBytes(&ptBytes, p384.UncompressedPointSize) ||
		!s.Empty() {
		return nil, fmt.Errorf("issuer: decode Token: %w", ErrDecode)
	}

	pt, err := p384.PointFromUncompressedBytes(ptBytes)
	if err != nil {
		return nil, fmt.Errorf("issuer: decode Token: %w: %w", ErrDecode, err)
	}

	tok := &Token{KeyID: keyID, Point: pt}
	copy(tok.Nonce[:], nonce)
	return tok, nil
}

// RedeemRequest is a decoded redemption request: a Token plus an
// opaque client-data blob (conventionally CBOR) whose decoding is not
// part of core semantics.
type RedeemRequest struct {
	Token      *Token
	ClientData []byte
}

// Encode serializes r as `u16 token_len || Token ||
// u16 client_data_len || opaque client_data[client_data_len]`.
func (r *RedeemRequest) Encode() ([]byte, error) {
	tokBytes, err := r.Token.Encode()
	if err != nil {
		return nil, err
	}
	if len(r.ClientData) > 0xffff {
		return nil, fmt.Errorf("issuer: encode RedeemRequest: %w", ErrDecode)
	}

	b := cryptobyte.NewBuilder(nil)
	b.AddUint16(uint16(len(tokBytes)))
	b.AddBytes(tokBytes)
	b.AddUint16(uint16(len(r.ClientData)))
	b.AddBytes(r.ClientData)
	return b.Bytes()
}

// DecodeRedeemRequest parses the wire form RedeemRequest.Encode produces.
func DecodeRedeemRequest(data []byte) (*RedeemRequest, error) {
	s := cryptobyte.String(data)

	var tokenLen uint16
	var tokenBytes []byte
	if !s.ReadUint16(&tokenLen) || !s.ReadBytes(&tokenBytes, int(tokenLen)) {
		return nil, fmt.Errorf("issuer: decode RedeemRequest: %w", ErrDecode)
	}

	tok, err := DecodeToken(tokenBytes)
	if err != nil {
		return nil, err
	}

	var clientDataLen uint16
	var clientData []byte
	if !s.ReadUint16(&clientDataLen) ||
		!s.ReadBytes(&clientData, int(clientDataLen)) ||
		!s.Empty() {
		return nil, fmt.Errorf("issuer: decode RedeemRequest: %w", ErrDecode)
	}

	return &RedeemRequest{
		Token:      tok,
		ClientData: append([]byte(nil), clientData...),
	}, nil
}

// IssueResponse is a decoded issuance response: the signing key's
// identifier, the signed elements in request order, and the batched
// DLEQ proof binding them to the key.
type IssueResponse struct {
	KeyID  uint32
	Signed []*p384.Point
	Proof  []byte
}

// Encode serializes r as `u16 issued || u32 key_id ||
// Point signed[issued] || u16 proof_len || opaque proof[proof_len]`.
func (r *IssueResponse) Encode() ([]byte, error) {
	if len(r.Signed) > 0xffff {
		return nil, fmt.Errorf("issuer: encode IssueResponse: %w", ErrDecode)
	}

	b := cryptobyte.NewBuilder(nil)
	b.AddUint16(uint16(len(r.Signed)))
	b.AddUint32(r.KeyID)
	for _, pt := range r.Signed {
		b.AddBytes(pt.Bytes())
	}
	b.AddUint16(uint16(len(r.Proof)))
	b.AddBytes(r.Proof)
	return b.Bytes()
}

// DecodeIssueResponse parses the wire form IssueResponse.Encode
// produces. Unlike IssueRequest, a malformed Point here is a hard
// decode error: the lenient-drop policy applies only to the issuer's
// own input parsing, not to a response an issuer itself produced.
func DecodeIssueResponse(data []byte) (*IssueResponse, error) {
	s := cryptobyte.String(data)

	var issued uint16
	var keyID uint32
	if !s.ReadUint16(&issued) || !s.ReadUint32(&keyID) {
		return nil, fmt.Errorf("issuer: decode IssueResponse: %w", ErrDecode)
	}

	resp := &IssueResponse{KeyID: keyID, Signed: make([]*p384.Point, 0, issued)}
	for i := 0; i < int(issued); i++ {
		var raw []byte
		if !s.ReadBytes(&raw, p384.UncompressedPointSize) {
			return nil, fmt.Errorf("issuer: decode IssueResponse: %w", ErrDecode)
		}
		pt, err := p384.PointFromUncompressedBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("issuer: decode IssueResponse: %w: %w", ErrDecode, err)
		}
		resp.Signed = append(resp.Signed, pt)
	}

	var proofLen uint16
	var proof []byte
	if !s.ReadUint16(&proofLen) || !s.ReadBytes(&proof, int(proofLen)) || !s.Empty() {
		return nil, fmt.Errorf("issuer: decode IssueResponse: %w", ErrDecode)
	}
	resp.Proof = append([]byte(nil), proof...)

	return resp, nil
}

// RedeemResponse carries the opaque redemption record the caller
// supplies to Redeem on success. The core does not frame it further;
// any outer length prefix belongs to the transport.
type RedeemResponse struct {
	Record []byte
}

// Messages cross the transport boundary as standard-alphabet, padded
// base64 strings carried in HTTP headers or bodies; these wrappers
// pair the codec above with that outer encoding so callers hand the
// blobs through untouched.

// DecodeIssueRequestBase64 base64-decodes s and parses the result as
// an IssueRequest.
func DecodeIssueRequestBase64(s string) (*IssueRequest, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("issuer: decode IssueRequest: %w: %w", ErrDecode, err)
	}
	return DecodeIssueRequest(raw)
}

// DecodeRedeemRequestBase64 base64-decodes s and parses the result as
// a RedeemRequest.
func DecodeRedeemRequestBase64(s string) (*RedeemRequest, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("issuer: decode RedeemRequest: %w: %w", ErrDecode, err)
	}
	return DecodeRedeemRequest(raw)
}

// EncodeBase64 serializes r and wraps it in base64 for the transport.
func (r *IssueResponse) EncodeBase64() (string, error) {
	raw, err := r.Encode()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
