// Package pointlist implements a dense, growable list of (lat, lon) pairs
// used by the path extractor to accumulate the decoded geometry of a route.
package pointlist

// List is a pair of dense parallel float64 slices with a logical size that
// may be smaller than capacity. The zero value is not usable; use New.
type List struct {
	lat, lon []float64
	size     int
}

// New returns an empty List with room for capacity points before the first
// growth.
func New(capacity int) *List {
	if capacity < 0 {
		capacity = 0
	}
	return &List{lat: make([]float64, 0, capacity), lon: make([]float64, 0, capacity)}
}

// Size returns the number of points currently held.
func (l *List) Size() int { return l.size }

// IsEmpty reports whether Size() == 0.
func (l *List) IsEmpty() bool { return l.size == 0 }

// Add appends a point, growing capacity to max(5, oldSize*3/2) if needed.
func (l *List) Add(lat, lon float64) {
	if l.size == cap(l.lat) {
		l.grow()
	}
	l.lat = append(l.lat, lat)
	l.lon = append(l.lon, lon)
	l.size++
}

func (l *List) grow() {
	newCap := l.size * 3 / 2
	if newCap < 5 {
		newCap = 5
	}
	newLat := make([]float64, len(l.lat), newCap)
	copy(newLat, l.lat)
	newLon := make([]float64, len(l.lon), newCap)
	copy(newLon, l.lon)
	l.lat = newLat
	l.lon = newLon
}

// Set overwrites the point at index i.
func (l *List) Set(i int, lat, lon float64) {
	l.checkBounds(i)
	l.lat[i] = lat
	l.lon[i] = lon
}

// Latitude returns the latitude at index i.
func (l *List) Latitude(i int) float64 {
	l.checkBounds(i)
	return l.lat[i]
}

// Longitude returns the longitude at index i.
func (l *List) Longitude(i int) float64 {
	l.checkBounds(i)
	return l.lon[i]
}

func (l *List) checkBounds(i int) {
	if i < 0 || i >= l.size {
		panic("pointlist: index out of range")
	}
}

// Reverse reverses the list in place.
func (l *List) Reverse() {
	for i, j := 0, l.size-1; i < j; i, j = i+1, j-1 {
		l.lat[i], l.lat[j] = l.lat[j], l.lat[i]
		l.lon[i], l.lon[j] = l.lon[j], l.lon[i]
	}
}

// TrimToSize shrinks the logical size to newSize, which must be <= Size().
// It does not release capacity.
func (l *List) TrimToSize(newSize int) {
	if newSize > l.size || newSize < 0 {
		panic("pointlist: invalid trim size")
	}
	l.lat = l.lat[:newSize]
	l.lon = l.lon[:newSize]
	l.size = newSize
}

// TrimCapacity shrinks backing capacity down to the current size.
func (l *List) TrimCapacity() {
	newLat := make([]float64, l.size)
	copy(newLat, l.lat)
	newLon := make([]float64, l.size)
	copy(newLon, l.lon)
	l.lat = newLat
	l.lon = newLon
}
