// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privacypass/pstcore/p384"
)

func TestJWKRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(rand.Reader, 3, 1_700_000_000)
	require.NoError(t, err)

	pubBytes := kp.Public().Bytes()
	x := pubBytes[1 : 1+p384.CoordSize]
	y := pubBytes[1+p384.CoordSize:]

	j := &JWK{
		Kty: "EC",
		Crv: "P-384",
		Kid: 3,
		X:   base64.RawURLEncoding.EncodeToString(x),
		Y:   base64.RawURLEncoding.EncodeToString(y),
		D:   base64.RawURLEncoding.EncodeToString(kp.Secret().Bytes()),
		Exp: 1_700_000_000,
	}

	got, err := j.KeyPair()
	require.NoError(t, err)
	require.Equal(t, kp.ID(), got.ID())
	require.True(t, kp.Public().Point().Equal(got.Public().Point()))
	require.True(t, kp.Secret().Scalar().Equal(got.Secret().Scalar()))

	t.Run("RejectsWrongCurve", func(t *testing.T) {
		bad := *j
		bad.Crv = "P-256"
		_, err := bad.KeyPair()
		require.Error(t, err)
	})

	t.Run("RejectsShortCoordinate", func(t *testing.T) {
		bad := *j
		bad.X = base64.RawURLEncoding.EncodeToString(x[1:])
		_, err := bad.KeyPair()
		require.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestNormalizeExpiryToMicros(t *testing.T) {
	cases := []struct {
		name string
		in   uint64
		want uint64
	}{
		{"zero", 0, 0},
		{"seconds", 1_700_000_000, 1_700_000_000_000_000},
		{"milliseconds", 1_700_000_000_000, 1_700_000_000_000_000},
		{"alreadyMicros", 1_700_000_000_000_000, 1_700_000_000_000_000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, normalizeExpiryToMicros(c.in))
		})
	}
}
