// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package p384

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointUncompressedRoundTrip(t *testing.T) {
	g := NewGeneratorPoint()
	enc := g.Bytes()
	require.Len(t, enc, UncompressedPointSize)
	require.Equal(t, byte(0x04), enc[0])

	got, err := PointFromUncompressedBytes(enc)
	require.NoError(t, err)
	require.True(t, g.Equal(got))
}

func TestPointRejectsMalformedEncoding(t *testing.T) {
	t.Run("WrongLength", func(t *testing.T) {
		_, err := PointFromUncompressedBytes(make([]byte, UncompressedPointSize-1))
		require.Error(t, err)
	})

	t.Run("WrongPrefix", func(t *testing.T) {
		buf := NewGeneratorPoint().Bytes()
		buf[0] = 0x03
		_, err := PointFromUncompressedBytes(buf)
		require.Error(t, err)
	})

	t.Run("NotOnCurve", func(t *testing.T) {
		buf := make([]byte, UncompressedPointSize)
		buf[0] = 0x04 // (0, 0) does not satisfy y^2 = x^3 + a*x + b for P-384's b
		_, err := PointFromUncompressedBytes(buf)
		require.Error(t, err)
	})
}

func TestPointAddNegate(t *testing.T) {
	g := NewGeneratorPoint()
	negG := NewIdentityPoint().Negate(g)

	sum := NewIdentityPoint().Add(g, negG)
	require.True(t, sum.IsIdentity())
}

func TestPointScalarMultMatchesBaseMult(t *testing.T) {
	s, err := RandomScalar(rand.Reader)
	require.NoError(t, err)

	g := NewGeneratorPoint()
	viaMult := NewIdentityPoint().ScalarMult(s, g)
	viaBase := NewIdentityPoint().ScalarBaseMult(s)

	require.True(t, viaMult.Equal(viaBase))
}

func TestPointDistinctScalarsYieldDistinctPoints(t *testing.T) {
	a, err := RandomScalar(rand.Reader)
	require.NoError(t, err)
	b, err := RandomScalar(rand.Reader)
	require.NoError(t, err)
	require.False(t, a.Equal(b))

	g := NewGeneratorPoint()
	pa := NewIdentityPoint().ScalarMult(a, g)
	pb := NewIdentityPoint().ScalarMult(b, g)
	require.False(t, pa.Equal(pb))
}
