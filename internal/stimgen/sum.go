package stimgen

import (
	"fmt"

	"github.com/nvandessel/epochtree/internal/utils"
)

// generateSum superimposes N independently specified sub-generators
// sample by sample. Each entry of the "generators" parameter is a record
// with a "generator" identifier and a "parameters" map. Shorter outputs
// are padded with their own baseline value to the length of the longest
// before summing. All sub-generators must agree on sample rate.
func generateSum(p Params) ([]float64, float64, error) {
	entries := utils.GetSlice(p, "generators")
	if len(entries) == 0 {
		return nil, 0, fmt.Errorf("missing required parameter %q", "generators")
	}

	type part struct {
		samples []float64
		mean    float64
	}

	parts := make([]part, 0, len(entries))
	var rate float64
	maxLen := 0
	for i, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return nil, 0, fmt.Errorf("generators[%d]: expected an object", i)
		}
		id := utils.GetString(entry, "generator", "")
		if id == "" {
			return nil, 0, fmt.Errorf("generators[%d]: missing generator identifier", i)
		}
		subParams := Params(utils.GetMap(entry, "parameters"))
		samples, subRate, err := Generate(id, subParams)
		if err != nil {
			return nil, 0, fmt.Errorf("generators[%d]: %w", i, err)
		}
		if rate == 0 {
			rate = subRate
		} else if subRate != rate {
			return nil, 0, fmt.Errorf("generators[%d]: sample rate %v disagrees with %v", i, subRate, rate)
		}
		if len(samples) > maxLen {
			maxLen = len(samples)
		}
		parts = append(parts, part{samples: samples, mean: subParams.Float("mean", 0)})
	}

	out := make([]float64, maxLen)
	for _, pt := range parts {
		for i := 0; i < maxLen; i++ {
			if i < len(pt.samples) {
				out[i] += pt.samples[i]
			} else {
				out[i] += pt.mean
			}
		}
	}
	return out, rate, nil
}
