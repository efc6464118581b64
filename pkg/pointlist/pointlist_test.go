package pointlist

import "testing"

func TestAddAndAccess(t *testing.T) {
	l := New(2)
	l.Add(1, 2)
	l.Add(3, 4)
	l.Add(5, 6) // forces growth past initial capacity of 2

	if l.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", l.Size())
	}
	if lat, lon := l.Latitude(2), l.Longitude(2); lat != 5 || lon != 6 {
		t.Errorf("point 2 = (%v,%v), want (5,6)", lat, lon)
	}
}

func TestIsEmpty(t *testing.T) {
	l := New(0)
	if !l.IsEmpty() {
		t.Fatal("new list should be empty")
	}
	l.Add(0, 0)
	if l.IsEmpty() {
		t.Fatal("list with one point should not be empty")
	}
}

func TestSet(t *testing.T) {
	l := New(4)
	l.Add(1, 1)
	l.Set(0, 9, 9)
	if lat, lon := l.Latitude(0), l.Longitude(0); lat != 9 || lon != 9 {
		t.Errorf("after Set: (%v,%v), want (9,9)", lat, lon)
	}
}

func TestReverseInvolution(t *testing.T) {
	l := New(4)
	pts := [][2]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	for _, p := range pts {
		l.Add(p[0], p[1])
	}
	l.Reverse()
	l.Reverse()
	for i, p := range pts {
		if l.Latitude(i) != p[0] || l.Longitude(i) != p[1] {
			t.Errorf("point %d after double reverse = (%v,%v), want %v", i, l.Latitude(i), l.Longitude(i), p)
		}
	}
}

func TestTrimToSize(t *testing.T) {
	l := New(4)
	l.Add(1, 1)
	l.Add(2, 2)
	l.Add(3, 3)
	l.TrimToSize(1)
	if l.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", l.Size())
	}
}

func TestOutOfRangePanics(t *testing.T) {
	l := New(1)
	l.Add(1, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-range access")
		}
	}()
	l.Latitude(5)
}
