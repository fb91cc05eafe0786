// Package traces provides backing-store access and lazy loading for
// recorded response waveforms.
//
// Bulk sample data lives outside the epoch records; a response carries a
// locator that a Store resolves to a sample vector and rate. The store
// location is passed explicitly into constructors — never read from
// ambient or global state.
package traces

import "context"

// Store resolves backing-store locators to sample vectors.
//
// A missing locator is reported as found=false with a nil error: "no such
// trace" is a lookup miss, clearly distinguished from I/O or
// data-corruption failures, which return a non-nil error.
type Store interface {
	// Get fetches the trace for locator.
	Get(ctx context.Context, locator string) (samples []float64, sampleRate float64, found bool, err error)

	// Put stores a trace under locator, replacing any previous trace.
	// Used by the importer side when materializing an archive.
	Put(ctx context.Context, locator string, sampleRate float64, samples []float64) error

	// Close releases the underlying resources.
	Close() error
}
