package value

import (
	"cmp"
)

// placement ranks present values before null before absent.
func placement(v Value) int {
	switch v.kind {
	case KindAbsent:
		return 2
	case KindNull:
		return 1
	default:
		return 0
	}
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to, or after b.
//
// Strings compare by byte order, numbers compare numerically regardless of
// int or float representation, and false sorts before true. Present values
// sort before null, and null sorts before absent.
func Compare(a, b Value) int {
	pa, pb := placement(a), placement(b)
	if pa != pb || pa != 0 {
		return cmp.Compare(pa, pb)
	}
	if a.IsNumber() && b.IsNumber() {
		return compareNumbers(a, b)
	}
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindString:
		return cmp.Compare(a.s, b.s)
	case KindBool:
		return compareBools(a.b, b.b)
	default:
		return 0
	}
}

// Equal returns true if the stored value equals the literal.
//
// A null literal matches null and absent values. A present literal never
// matches a null or absent value.
func Equal(stored, literal Value) bool {
	if literal.kind == KindNull || literal.kind == KindAbsent {
		return stored.kind == KindNull || stored.kind == KindAbsent
	}
	if placement(stored) != 0 {
		return false
	}
	if stored.kind != literal.kind && !(stored.IsNumber() && literal.IsNumber()) {
		return false
	}
	return Compare(stored, literal) == 0
}

func compareNumbers(a, b Value) int {
	if a.kind == KindInt && b.kind == KindInt {
		return cmp.Compare(a.i, b.i)
	}
	af, _ := a.AsFloat()
	bf, _ := b.AsFloat()
	return cmp.Compare(af, bf)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
