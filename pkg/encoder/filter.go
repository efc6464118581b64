package encoder

import "github.com/azybler/roadgraph/pkg/graphstore"

// VehicleFilter accepts only edges traversable in the iterator's current
// direction according to Encoder's forward/backward bits.
type VehicleFilter struct {
	Encoder CarFlagEncoder
}

// Accept implements graphstore.EdgeFilter.
func (f VehicleFilter) Accept(iter graphstore.EdgeIterator) bool {
	flags := iter.Flags()
	return f.Encoder.Forward(flags)
}
