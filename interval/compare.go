package interval

// Truth is the outcome of comparing two ranges without looking at values.
type Truth uint8

const (
	Unknown Truth = iota
	True
	False
)

func (t Truth) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Known reports whether the comparison was decided by the ranges alone.
func (t Truth) Known() bool { return t != Unknown }

// Not flips a decided result.
func (t Truth) Not() Truth {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

func truth(b bool) Truth {
	if b {
		return True
	}
	return False
}

// Less decides a < b for every a in iv and b in o, when possible.
// Saturated bounds never decide a comparison.
func (iv Interval) Less(o Interval) Truth {
	if !iv.Valid() || !o.Valid() {
		return Unknown
	}
	switch {
	case iv.hi.LT(o.lo) && !iv.hi.Equal(Limit) && !o.lo.Equal(Limit.Neg()):
		return True
	case iv.lo.GTE(o.hi) && !iv.lo.Equal(Limit.Neg()) && !o.hi.Equal(Limit):
		return False
	}
	return Unknown
}

// LessEq decides a <= b.
func (iv Interval) LessEq(o Interval) Truth {
	return o.Less(iv).Not()
}

// Greater decides a > b.
func (iv Interval) Greater(o Interval) Truth {
	return o.Less(iv)
}

// GreaterEq decides a >= b.
func (iv Interval) GreaterEq(o Interval) Truth {
	return iv.Less(o).Not()
}

// Same decides a == b: true only when both are the same unsaturated point,
// false when the ranges are disjoint.
func (iv Interval) Same(o Interval) Truth {
	if !iv.Valid() || !o.Valid() {
		return Unknown
	}
	if iv.IsPoint() && o.IsPoint() && iv.lo.Equal(o.lo) && !iv.Saturated() {
		return True
	}
	if iv.Disjoint(o) && !iv.Saturated() && !o.Saturated() {
		return False
	}
	return Unknown
}

// Differ decides a != b.
func (iv Interval) Differ(o Interval) Truth {
	return iv.Same(o).Not()
}
