// Package stimgen provides deterministic stimulus waveform generation.
//
// Stimulus waveforms are described, not stored: an epoch's stimulus
// carries a generator identifier and a parameter record, and this package
// regenerates the exact sample vector on demand. Generators are pure
// functions dispatched through an explicit registry; identical parameters
// (including an explicit integer seed for the noise family) yield
// bit-identical output on every invocation and in every process.
//
// Every generator understands the shared timing fields preTime, stimTime
// and tailTime, expressed in milliseconds and converted to sample counts
// as round(ms * sampleRate / 1000). Output is lead-in samples at the
// baseline value, the active segment carrying the characteristic
// waveform, and a trailing segment back at baseline. The constant/DC
// generator is the one exception: it is flat for the full duration.
package stimgen

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/nvandessel/epochtree/internal/constants"
	"github.com/nvandessel/epochtree/internal/utils"
)

// ErrUnknownGenerator is returned when a generator identifier resolves to
// no registered function.
var ErrUnknownGenerator = errors.New("unknown generator")

// Params is a generator parameter record, typically decoded from an
// import archive's stimulus entry.
type Params map[string]interface{}

// Float reads a numeric parameter with a default.
func (p Params) Float(key string, def float64) float64 {
	return utils.GetFloat64(p, key, def)
}

// Int reads an integer parameter with a default.
func (p Params) Int(key string, def int) int {
	return utils.GetInt(p, key, def)
}

// Has reports whether the parameter is present at all.
func (p Params) Has(key string) bool {
	return utils.Has(p, key)
}

// RequireFloat reads a numeric parameter, erroring when absent.
func (p Params) RequireFloat(key string) (float64, error) {
	if !p.Has(key) {
		return 0, fmt.Errorf("missing required parameter %q", key)
	}
	return p.Float(key, 0), nil
}

// RequireSeed reads the integer noise seed, erroring when absent. Seeds
// are explicit so that reconstruction is reproducible across processes.
func (p Params) RequireSeed() (int64, error) {
	if !p.Has("seed") {
		return 0, fmt.Errorf("missing required parameter %q", "seed")
	}
	return utils.GetInt64(p, "seed", 0), nil
}

// GenFunc generates a sample vector and its sample rate from a parameter
// record. Implementations must be pure.
type GenFunc func(p Params) ([]float64, float64, error)

var (
	regMu    sync.RWMutex
	registry = make(map[string]GenFunc)
)

// Register adds a generator under a stable identifier. Re-registering an
// identifier replaces the previous function.
func Register(id string, fn GenFunc) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[id] = fn
}

// IDs returns the registered generator identifiers in sorted order.
func IDs() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Generate dispatches the identifier to its registered generator. An
// unrecognized identifier is a hard error naming the identifier — never
// a silently empty vector. Generator parameter failures are wrapped with
// the identifier as well.
func Generate(id string, p Params) ([]float64, float64, error) {
	regMu.RLock()
	fn, ok := registry[id]
	regMu.RUnlock()
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownGenerator, id)
	}
	samples, rate, err := fn(p)
	if err != nil {
		return nil, 0, fmt.Errorf("generator %q: %w", id, err)
	}
	return samples, rate, nil
}

// Timing holds the shared segment layout in sample counts.
type Timing struct {
	PrePts  int
	StimPts int
	TailPts int
	Rate    float64
}

// Total returns the full output length in samples.
func (t Timing) Total() int {
	return t.PrePts + t.StimPts + t.TailPts
}

// MsToPts converts a millisecond duration to a sample count at rate.
func MsToPts(ms, rate float64) int {
	return int(math.Round(ms * rate / constants.MsPerSecond))
}

// timing decodes the shared timing fields. sampleRate is required and
// must be positive.
func timing(p Params) (Timing, error) {
	rate := p.Float("sampleRate", 0)
	if rate <= 0 {
		return Timing{}, fmt.Errorf("missing or invalid parameter %q: %v", "sampleRate", rate)
	}
	t := Timing{
		PrePts:  MsToPts(p.Float("preTime", 0), rate),
		StimPts: MsToPts(p.Float("stimTime", 0), rate),
		TailPts: MsToPts(p.Float("tailTime", 0), rate),
		Rate:    rate,
	}
	if t.PrePts < 0 || t.StimPts < 0 || t.TailPts < 0 {
		return Timing{}, fmt.Errorf("negative duration in timing parameters")
	}
	return t, nil
}

// baseline allocates a vector of n samples at the mean value.
func baseline(n int, mean float64) []float64 {
	out := make([]float64, n)
	if mean != 0 {
		for i := range out {
			out[i] = mean
		}
	}
	return out
}
