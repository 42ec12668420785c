// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package p384

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarCanonicalRoundTrip(t *testing.T) {
	s, err := RandomScalar(rand.Reader)
	require.NoError(t, err)

	enc := s.Bytes()
	require.Len(t, enc, ScalarSize)

	got, err := NewScalarFromCanonicalBytes(enc)
	require.NoError(t, err)
	require.True(t, s.Equal(got))
}

func TestScalarRejectsOutOfRange(t *testing.T) {
	buf := make([]byte, ScalarSize)
	N.FillBytes(buf) // == n, not canonical

	_, err := NewScalarFromCanonicalBytes(buf)
	require.Error(t, err)

	_, err = NewScalar().SetBytes(buf)
	require.NoError(t, err, "SetBytes does not reduce or reject")
}

func TestScalarArithmetic(t *testing.T) {
	a, err := RandomScalar(rand.Reader)
	require.NoError(t, err)
	b, err := RandomScalar(rand.Reader)
	require.NoError(t, err)

	sum := NewScalar().Add(a, b)
	diff := NewScalar().Subtract(sum, b)
	require.True(t, diff.Equal(a))

	negA := NewScalar().Negate(a)
	zero := NewScalar().Add(a, negA)
	require.True(t, zero.IsZero())

	// n is prime, so the product of two nonzero scalars (guaranteed by
	// RandomScalar) is never zero.
	prod := NewScalar().Multiply(a, b)
	require.False(t, prod.IsZero())
}

func TestRandomScalarNeverZero(t *testing.T) {
	for i := 0; i < 64; i++ {
		s, err := RandomScalar(rand.Reader)
		require.NoError(t, err)
		require.False(t, s.IsZero())
	}
}
