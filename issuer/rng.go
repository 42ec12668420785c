// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package issuer

import (
	"io"

	"github.com/privacypass/pstcore/p384"
)

// fixedScalarReader is a test-only io.Reader that always yields the
// canonical encoding of a fixed Scalar, used to reproduce
// deterministic DLEQ proof vectors by substituting test entropy
// rather than hard-coding a scalar value into the proof path itself.
type fixedScalarReader struct {
	b []byte
}

func newFixedScalarReader(s *p384.Scalar) io.Reader {
	return &fixedScalarReader{b: s.Bytes()}
}

func (f *fixedScalarReader) Read(p []byte) (int, error) {
	return copy(p, f.b), nil
}
