package world

import "testing"

func TestLayout_Adjacency(t *testing.T) {
	l := LayoutOf(C(0, 0), C(-1, 0), C(0, 1))

	got := l.Adjacency(C(0, 0))
	want := Adjacency{Left: true, Right: false, Top: false, Bottom: true}
	if got != want {
		t.Errorf("Adjacency((0,0)) = %+v, want %+v", got, want)
	}
	if got.Count() != 2 {
		t.Errorf("Adjacency((0,0)).Count() = %d, want 2", got.Count())
	}
}

func TestLayout_CoordsAreSorted(t *testing.T) {
	l := LayoutOf(C(2, 0), C(-1, 5), C(-1, -3), C(0, 0))
	coords := l.Coords()
	want := []Coord{C(-1, -3), C(-1, 5), C(0, 0), C(2, 0)}
	if len(coords) != len(want) {
		t.Fatalf("Coords() len = %d, want %d", len(coords), len(want))
	}
	for i := range want {
		if coords[i] != want[i] {
			t.Errorf("Coords()[%d] = %v, want %v", i, coords[i], want[i])
		}
	}
}

func TestLayout_Bounds(t *testing.T) {
	l := LayoutOf(C(-1, 1), C(5, -1), C(0, 0))
	min, max := l.Bounds()
	if min != C(-1, -1) || max != C(5, 1) {
		t.Errorf("Bounds() = %v, %v, want (-1,-1), (5,1)", min, max)
	}
}

func TestLayout_CloneIsIndependent(t *testing.T) {
	l := LayoutOf(C(0, 0))
	c := l.Clone()
	c[C(1, 0)] = Normal
	if l.Has(C(1, 0)) {
		t.Error("mutating Clone() changed the original layout")
	}
	if !l.Equal(LayoutOf(C(0, 0))) {
		t.Error("original layout no longer equal to itself")
	}
}

func TestLayout_Reachable(t *testing.T) {
	l := LayoutOf(C(0, 0), C(1, 0), C(1, 1), C(5, 5))

	reach := l.Reachable(C(0, 0))
	if reach.Size() != 3 {
		t.Errorf("Reachable((0,0)).Size() = %d, want 3", reach.Size())
	}
	if reach.Has(C(5, 5)) {
		t.Error("Reachable((0,0)) includes isolated room (5,5)")
	}
	if l.Connected() {
		t.Error("Connected() = true, want false with an isolated room")
	}
	if got := l.Reachable(C(9, 9)).Size(); got != 0 {
		t.Errorf("Reachable(non-room).Size() = %d, want 0", got)
	}
}

func TestDirection_DeltaAndOpposite(t *testing.T) {
	for _, d := range AllDirections() {
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx != -ox || dy != -oy {
			t.Errorf("%v.Opposite().Delta() = (%d,%d), want (%d,%d)", d, ox, oy, -dx, -dy)
		}
		if (dx == 0) == (dy == 0) {
			t.Errorf("%v.Delta() = (%d,%d), want exactly one non-zero axis", d, dx, dy)
		}
	}
	if dx, dy := None.Delta(); dx != 0 || dy != 0 {
		t.Errorf("None.Delta() = (%d,%d), want (0,0)", dx, dy)
	}
	if dx, dy := Up.Delta(); dx != 0 || dy != 1 {
		t.Errorf("Up.Delta() = (%d,%d), want (0,1)", dx, dy)
	}
}

func TestVec2_NearestCoord(t *testing.T) {
	tests := []struct {
		pos  Vec2
		want Coord
	}{
		{Vec2{0, 0}, C(0, 0)},
		{Vec2{2.9, 0}, C(0, 0)},
		{Vec2{3.1, 0}, C(1, 0)},
		{Vec2{-6, 12}, C(-1, 2)},
	}
	for _, tt := range tests {
		if got := tt.pos.NearestCoord(); got != tt.want {
			t.Errorf("%+v.NearestCoord() = %v, want %v", tt.pos, got, tt.want)
		}
	}
}
