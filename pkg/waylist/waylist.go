// Package waylist implements the parallel instruction/street-name list the
// path extractor builds alongside a route's PointList.
package waylist

// Turn indication codes. The source this was distilled from declared
// TURN_LEFT and TURN_RIGHT as the same value; the extractor needs all
// three distinct, so this is fixed to 0, 1, 2.
const (
	ContinueOnStreet = 0
	TurnLeft         = 1
	TurnRight        = 2
)

// List is a pair of dense parallel slices (instruction code, street name)
// with the same growth discipline as pointlist.List.
type List struct {
	indication []int
	name       []string
	size       int
}

// New returns an empty List with room for capacity entries before the
// first growth.
func New(capacity int) *List {
	if capacity < 0 {
		capacity = 0
	}
	return &List{indication: make([]int, 0, capacity), name: make([]string, 0, capacity)}
}

// Size returns the number of entries currently held.
func (l *List) Size() int { return l.size }

// IsEmpty reports whether Size() == 0.
func (l *List) IsEmpty() bool { return l.size == 0 }

// Add appends an (indication, name) pair, growing capacity to
// max(5, oldSize*3/2) if needed.
func (l *List) Add(indication int, name string) {
	if l.size == cap(l.indication) {
		l.grow()
	}
	l.indication = append(l.indication, indication)
	l.name = append(l.name, name)
	l.size++
}

func (l *List) grow() {
	newCap := l.size * 3 / 2
	if newCap < 5 {
		newCap = 5
	}
	newInd := make([]int, len(l.indication), newCap)
	copy(newInd, l.indication)
	newName := make([]string, len(l.name), newCap)
	copy(newName, l.name)
	l.indication = newInd
	l.name = newName
}

// Set overwrites the entry at index i.
func (l *List) Set(i int, indication int, name string) {
	l.checkBounds(i)
	l.indication[i] = indication
	l.name[i] = name
}

// Indication returns the instruction code at index i.
func (l *List) Indication(i int) int {
	l.checkBounds(i)
	return l.indication[i]
}

// Name returns the street name at index i.
func (l *List) Name(i int) string {
	l.checkBounds(i)
	return l.name[i]
}

func (l *List) checkBounds(i int) {
	if i < 0 || i >= l.size {
		panic("waylist: index out of range")
	}
}

// Reverse reverses both parallel arrays in lockstep.
func (l *List) Reverse() {
	for i, j := 0, l.size-1; i < j; i, j = i+1, j-1 {
		l.indication[i], l.indication[j] = l.indication[j], l.indication[i]
		l.name[i], l.name[j] = l.name[j], l.name[i]
	}
}

// Clear empties the list without releasing capacity.
func (l *List) Clear() {
	l.indication = l.indication[:0]
	l.name = l.name[:0]
	l.size = 0
}

// TrimToSize shrinks the logical size to newSize, which must be <= Size().
func (l *List) TrimToSize(newSize int) {
	if newSize > l.size || newSize < 0 {
		panic("waylist: invalid trim size")
	}
	l.indication = l.indication[:newSize]
	l.name = l.name[:newSize]
	l.size = newSize
}
