// Package reconstruct resolves a stimulus record to its sample vector.
//
// Inline data, when present, passes through unchanged — real recorded
// data is never re-synthesized. Otherwise the stimulus's generator
// identifier is dispatched to the generator registry.
package reconstruct

import (
	"fmt"

	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/stimgen"
)

// Reconstruct returns the stimulus waveform and its sample rate.
// An unresolvable generator identifier is a hard error naming the
// identifier; an empty vector is never returned silently.
func Reconstruct(s *models.Stimulus) ([]float64, float64, error) {
	if s.Samples != nil {
		return s.Samples, s.SampleRate, nil
	}
	if s.Generator == "" {
		return nil, 0, fmt.Errorf("stimulus %q has neither inline data nor a generator", s.Name)
	}
	samples, rate, err := stimgen.Generate(s.Generator, stimgen.Params(s.Params))
	if err != nil {
		return nil, 0, fmt.Errorf("stimulus %q: %w", s.Name, err)
	}
	return samples, rate, nil
}
