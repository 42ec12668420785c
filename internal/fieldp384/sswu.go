// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package fieldp384

import "math/big"

// MapToCurve implements the simplified SWU mapping for curves with
// `a, b != 0` (RFC 9380 §6.6.2), as used by the
// `P384_XMD:SHA-XXX_SSWU_RO_` suite family. P-384 has a non-zero `a`,
// so no 3-isogeny step is required: the straight-line SSWU formula
// maps directly onto the curve.
//
// It returns the affine `(x, y)` coordinates of a point on the curve;
// the result is never the identity, since E has no point with X = 0
// this mapping can reach as its invalid input case (RFC 9380 §6.6.2
// step 7 maps that exceptional case onto a different, valid, curve
// point instead of the identity).
func MapToCurve(u *Element) (x, y *Element) {
	// 1. tv1 = Z * u^2
	zu2 := New().Square(u)
	zu2.Multiply(zu2, elemZ())

	// 2. tv2 = tv1^2
	tv2 := New().Square(zu2)

	// 3. x1 = tv1 + tv2
	x1 := New().Add(zu2, tv2)

	// 4. x1 = inv0(x1)
	x1.Invert(x1)

	// 5. e1 = x1 == 0
	e1 := x1.IsZero()

	// 6. x1 = x1 + 1
	x1.Add(x1, New().SetUint64(1))

	// 7. If e1, set x1 = -1 / Z
	if e1 {
		x1.Invert(elemZ())
		x1.Negate(x1)
	}

	// 8. x1 = x1 * (-B / A)
	negBOverA := New().Invert(elemA())
	negBOverA.Multiply(negBOverA, elemB())
	negBOverA.Negate(negBOverA)
	x1.Multiply(x1, negBOverA)

	// 9. gx1 = x1^2
	gx1 := New().Square(x1)

	// 10. gx1 = gx1 + A
	gx1.Add(gx1, elemA())

	// 11. gx1 = gx1 * x1
	gx1.Multiply(gx1, x1)

	// 12. gx1 = gx1 + B
	gx1.Add(gx1, elemB())

	// 13. x2 = tv1 * x1
	x2 := New().Multiply(zu2, x1)

	// 14. tv2 = tv1 * tv2
	tv2.Multiply(zu2, tv2)

	// 15. gx2 = gx1 * tv2
	gx2 := New().Multiply(gx1, tv2)

	// 16. e2 = is_square(gx1)
	y1, e2 := New().Sqrt(gx1)

	// 17. x = CMOV(x2, x1, e2)
	outX := New()
	if e2 {
		outX.Set(x1)
	} else {
		outX.Set(x2)
	}

	// 18. y2 = sqrt(gx2) (only used when !e2)
	y2, _ := New().Sqrt(gx2)

	outY := New()
	if e2 {
		outY.Set(y1)
	} else {
		outY.Set(y2)
	}

	// 19. e3 = sgn0(u) == sgn0(y)
	e3 := (u.IsOdd()) == (outY.IsOdd())

	// 20. y = CMOV(-y, y, e3)
	if !e3 {
		outY.Negate(outY)
	}

	return outX, outY
}

func elemA() *Element { return (&Element{v: *new(big.Int).Set(A)}) }
func elemB() *Element { return (&Element{v: *new(big.Int).Set(B)}) }
func elemZ() *Element { return (&Element{v: *new(big.Int).Set(Z)}) }
