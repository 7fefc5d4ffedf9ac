package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 2)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"top-left corner", 2, 3, true},
		{"inside", 4, 4, true},
		{"right edge is exclusive", 6, 3, false},
		{"bottom edge is exclusive", 2, 5, false},
		{"left of rect", 1, 3, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectCenterIn(t *testing.T) {
	outer := NewRect(0, 0, 80, 24)
	inner := outer.CenterIn(20, 10)

	if inner != NewRect(30, 7, 20, 10) {
		t.Errorf("CenterIn = %+v", inner)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{12, 0, 10, 10},
		{0, 0, 0, 0},
	}
	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestInputFrameMerge(t *testing.T) {
	a := NewInputFrame()
	a.Set(ActionUp)
	b := NewInputFrame()
	b.Set(ActionSelect)

	a.Merge(b)
	if !a.Has(ActionUp) || !a.Has(ActionSelect) {
		t.Errorf("Merge lost actions: %v", a.Actions)
	}

	a.Clear()
	if !a.Empty() {
		t.Error("Clear should empty the frame")
	}
}
