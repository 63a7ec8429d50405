package ring

import "testing"

func TestRange_Contains(t *testing.T) {
	r, err := NewRange(NewToken(0), NewToken(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		tok  int64
		want bool
	}{
		{0, false}, // lower is exclusive
		{1, true},
		{50, true},
		{100, true}, // upper is inclusive
		{101, false},
	}
	for _, tt := range tests {
		got := r.Contains(NewToken(tt.tok))
		if got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.tok, got, tt.want)
		}
	}
}

func TestNewRange_RejectsInverted(t *testing.T) {
	if _, err := NewRange(NewToken(100), NewToken(0)); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestRange_Overlaps(t *testing.T) {
	a, _ := NewRange(NewToken(0), NewToken(50))
	b, _ := NewRange(NewToken(25), NewToken(75))
	c, _ := NewRange(NewToken(50), NewToken(100))

	if !a.Overlaps(b) {
		t.Errorf("expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Errorf("did not expect a and c to overlap (touching at boundary only)")
	}
	if !a.IsConnected(c) {
		t.Errorf("expected a and c to be connected (touch at boundary)")
	}
}

func TestRange_Intersect(t *testing.T) {
	a, _ := NewRange(NewToken(0), NewToken(50))
	b, _ := NewRange(NewToken(25), NewToken(75))

	got, ok := a.Intersect(b)
	if !ok {
		t.Fatalf("expected intersection")
	}
	want, _ := NewRange(NewToken(25), NewToken(50))
	if !got.Lower.Equal(want.Lower) || !got.Upper.Equal(want.Upper) {
		t.Errorf("Intersect() = %v, want %v", got, want)
	}

	c, _ := NewRange(NewToken(100), NewToken(200))
	if _, ok := a.Intersect(c); ok {
		t.Errorf("did not expect disjoint ranges to intersect")
	}
}
