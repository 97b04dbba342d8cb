package decaf377

// EncodeToCurve maps a field element to a group element with the decaf377
// Elligator map. The map is deterministic and never fails.
func EncodeToCurve(r0 *Fq) Element {
	var r Fq
	r.Square(r0)
	r.Mul(&r, &zeta)

	// den = (d·r - (d - a)) · ((d - a)·r - d)
	var den, tmp Fq
	den.Mul(&curveD, &r)
	den.Sub(&den, &dMinusA)
	tmp.Mul(&dMinusA, &r)
	tmp.Sub(&tmp, &curveD)
	den.Mul(&den, &tmp)

	// num = (r + 1) · (a - 2d)
	var num Fq
	num.Add(&r, &fqOne)
	num.Mul(&num, &aMinus2D)

	var ratio Fq
	ratio.Mul(&num, &den)
	isSquare, isri := sqrtRatioZeta(&fqOne, &ratio)

	var sgn, twiddle Fq
	if isSquare {
		sgn.SetOne()
		twiddle.SetOne()
	} else {
		sgn.Neg(&fqOne)
		twiddle.Set(r0)
	}
	isri.Mul(&isri, &twiddle)

	var s Fq
	s.Mul(&isri, &num)

	// t = -sgn · isri · s · (r - 1) · (a - 2d)² - 1
	var t Fq
	t.Neg(&sgn)
	t.Mul(&t, &isri)
	t.Mul(&t, &s)
	tmp.Sub(&r, &fqOne)
	t.Mul(&t, &tmp)
	tmp.Square(&aMinus2D)
	t.Mul(&t, &tmp)
	t.Sub(&t, &fqOne)

	if isNegative(&s) == isSquare {
		s.Neg(&s)
	}

	// Jacobi quartic point (s, t) to extended Edwards coordinates.
	var e, f, g, as2 Fq
	e.Double(&s)
	as2.Square(&s)
	as2.Mul(&as2, &curveA)
	f.Add(&fqOne, &as2)
	g.Sub(&fqOne, &as2)

	var out Element
	out.x.Mul(&e, &t)
	out.y.Mul(&f, &g)
	out.z.Mul(&f, &t)
	out.t.Mul(&e, &g)
	return out
}
