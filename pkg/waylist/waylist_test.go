package waylist

import "testing"

func TestAddAndAccess(t *testing.T) {
	l := New(2)
	l.Add(ContinueOnStreet, "Main")
	l.Add(TurnLeft, "Oak")
	l.Add(TurnRight, "Elm") // forces growth

	if l.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", l.Size())
	}
	if ind, name := l.Indication(2), l.Name(2); ind != TurnRight || name != "Elm" {
		t.Errorf("entry 2 = (%d,%q), want (%d,Elm)", ind, name, TurnRight)
	}
}

func TestInstructionCodesAreDistinct(t *testing.T) {
	if ContinueOnStreet == TurnLeft || TurnLeft == TurnRight || ContinueOnStreet == TurnRight {
		t.Fatal("instruction codes must all be distinct")
	}
	if ContinueOnStreet != 0 || TurnLeft != 1 || TurnRight != 2 {
		t.Fatalf("got %d,%d,%d want 0,1,2", ContinueOnStreet, TurnLeft, TurnRight)
	}
}

func TestReverseInvolution(t *testing.T) {
	l := New(4)
	l.Add(ContinueOnStreet, "a")
	l.Add(TurnLeft, "b")
	l.Add(TurnRight, "c")

	type entry struct {
		ind  int
		name string
	}
	before := make([]entry, l.Size())
	for i := range before {
		before[i] = entry{l.Indication(i), l.Name(i)}
	}

	l.Reverse()
	l.Reverse()

	for i, e := range before {
		if l.Indication(i) != e.ind || l.Name(i) != e.name {
			t.Errorf("entry %d after double reverse = (%d,%q), want (%d,%q)", i, l.Indication(i), l.Name(i), e.ind, e.name)
		}
	}
}

func TestClear(t *testing.T) {
	l := New(4)
	l.Add(ContinueOnStreet, "a")
	l.Clear()
	if l.Size() != 0 || !l.IsEmpty() {
		t.Fatal("Clear should empty the list")
	}
}
