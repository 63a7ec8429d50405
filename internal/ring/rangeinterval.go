package ring

import "fmt"

// Range is a token interval. Lower is exclusive and Upper is inclusive,
// matching Cassandra's convention for ring ranges (so that ranges can
// be chained end-to-end without overlap). Ring wrap-around must be
// represented upstream as two non-wrapping Ranges; Range itself never
// wraps.
type Range struct {
	Lower Token
	Upper Token
}

// NewRange constructs a Range, rejecting an inverted interval.
func NewRange(lower, upper Token) (Range, error) {
	if upper.Less(lower) {
		return Range{}, fmt.Errorf("invalid range: upper %s is less than lower %s", upper, lower)
	}
	return Range{Lower: lower, Upper: upper}, nil
}

// Contains reports whether token falls in (Lower, Upper].
func (r Range) Contains(t Token) bool {
	return r.Lower.Less(t) && t.LessOrEqual(r.Upper)
}

// IsConnected reports whether r and other share a boundary or overlap,
// i.e. they could be merged into a single contiguous range.
func (r Range) IsConnected(other Range) bool {
	return r.Overlaps(other) || r.Upper.Equal(other.Lower) || other.Upper.Equal(r.Lower)
}

// Overlaps reports whether r and other share any token.
func (r Range) Overlaps(other Range) bool {
	return r.Lower.Less(other.Upper) && other.Lower.Less(r.Upper)
}

// Intersect returns the overlapping sub-range of r and other, if any.
func (r Range) Intersect(other Range) (Range, bool) {
	if !r.Overlaps(other) {
		return Range{}, false
	}
	lower := r.Lower
	if other.Lower.Compare(lower) > 0 {
		lower = other.Lower
	}
	upper := r.Upper
	if other.Upper.Compare(upper) < 0 {
		upper = other.Upper
	}
	return Range{Lower: lower, Upper: upper}, true
}

func (r Range) String() string {
	return fmt.Sprintf("(%s, %s]", r.Lower, r.Upper)
}

// Empty reports whether the range spans zero tokens.
func (r Range) Empty() bool {
	return r.Lower.Equal(r.Upper)
}
