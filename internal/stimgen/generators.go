package stimgen

import (
	"fmt"
	"math"
)

// Builtin generator identifiers.
const (
	GenDC            = "dc"
	GenSine          = "sine"
	GenSquare        = "square"
	GenRamp          = "ramp"
	GenPulse         = "pulse"
	GenPulseTrain    = "pulse-train"
	GenBinaryNoise   = "binary-noise"
	GenGaussianNoise = "gaussian-noise"
	// GenGaussianNoisePadded is the historical power-of-two zero-padding
	// variant of the Gaussian generator. It is preserved alongside the
	// current one because both occur in real recorded data and
	// reconstruction must match whichever produced the original.
	GenGaussianNoisePadded = "gaussian-noise-padded"
	GenSum                 = "sum"
)

func init() {
	Register(GenDC, generateDC)
	Register(GenSine, periodic(sineShape))
	Register(GenSquare, periodic(squareShape))
	Register(GenRamp, periodic(rampShape))
	Register(GenPulse, generatePulse)
	Register(GenPulseTrain, generatePulseTrain)
	Register(GenBinaryNoise, generateBinaryNoise)
	Register(GenGaussianNoise, generateGaussianNoise)
	Register(GenGaussianNoisePadded, generateGaussianNoisePadded)
	Register(GenSum, generateSum)
}

// generateDC emits a flat value for the full duration, lead-in and tail
// included.
func generateDC(p Params) ([]float64, float64, error) {
	t, err := timing(p)
	if err != nil {
		return nil, 0, err
	}
	offset, err := p.RequireFloat("offset")
	if err != nil {
		return nil, 0, err
	}
	return baseline(t.Total(), offset), t.Rate, nil
}

// shapeFunc maps a cycle phase argument (radians) to a unit waveform value.
type shapeFunc func(arg float64) float64

func sineShape(arg float64) float64 {
	return math.Sin(arg)
}

// squareShape derives its sign from the sine's sign at each sample.
func squareShape(arg float64) float64 {
	if math.Sin(arg) >= 0 {
		return 1
	}
	return -1
}

// rampShape is a rising sawtooth spanning -1..1 over each period.
func rampShape(arg float64) float64 {
	frac := arg / (2 * math.Pi)
	frac -= math.Floor(frac)
	return 2*frac - 1
}

// periodic builds a generator for a periodic waveform parametrized by
// period (ms), phase (radians), amplitude and mean.
func periodic(shape shapeFunc) GenFunc {
	return func(p Params) ([]float64, float64, error) {
		t, err := timing(p)
		if err != nil {
			return nil, 0, err
		}
		period, err := p.RequireFloat("period")
		if err != nil {
			return nil, 0, err
		}
		if period <= 0 {
			return nil, 0, fmt.Errorf("invalid parameter %q: must be positive, got %v", "period", period)
		}
		amplitude, err := p.RequireFloat("amplitude")
		if err != nil {
			return nil, 0, err
		}
		phase := p.Float("phase", 0)
		mean := p.Float("mean", 0)

		periodPts := period * t.Rate / 1000.0
		out := baseline(t.Total(), mean)
		for i := 0; i < t.StimPts; i++ {
			arg := 2*math.Pi*float64(i)/periodPts + phase
			out[t.PrePts+i] = mean + amplitude*shape(arg)
		}
		return out, t.Rate, nil
	}
}

// generatePulse emits a single fixed-amplitude pulse spanning the active
// segment.
func generatePulse(p Params) ([]float64, float64, error) {
	t, err := timing(p)
	if err != nil {
		return nil, 0, err
	}
	amplitude, err := p.RequireFloat("amplitude")
	if err != nil {
		return nil, 0, err
	}
	mean := p.Float("mean", 0)

	out := baseline(t.Total(), mean)
	for i := 0; i < t.StimPts; i++ {
		out[t.PrePts+i] = mean + amplitude
	}
	return out, t.Rate, nil
}

// generatePulseTrain emits pulseCount pulses separated by intervals, with
// optional per-pulse linear increments applied to pulse duration,
// interval and amplitude independently.
//
// Pulse i (0-based) has duration pulseTime + i*durationIncrement ms,
// amplitude amplitude + i*amplitudeIncrement, and is followed (except
// after the last pulse) by intervalTime + i*intervalIncrement ms at
// baseline. The stimTime timing field is ignored here; the active length
// is derived from the train itself.
func generatePulseTrain(p Params) ([]float64, float64, error) {
	rate := p.Float("sampleRate", 0)
	if rate <= 0 {
		return nil, 0, fmt.Errorf("missing or invalid parameter %q: %v", "sampleRate", rate)
	}
	pulseTime, err := p.RequireFloat("pulseTime")
	if err != nil {
		return nil, 0, err
	}
	amplitude, err := p.RequireFloat("amplitude")
	if err != nil {
		return nil, 0, err
	}
	count := p.Int("pulseCount", 1)
	if count < 1 {
		return nil, 0, fmt.Errorf("invalid parameter %q: must be at least 1, got %d", "pulseCount", count)
	}
	intervalTime := p.Float("intervalTime", 0)
	durInc := p.Float("durationIncrement", 0)
	intInc := p.Float("intervalIncrement", 0)
	ampInc := p.Float("amplitudeIncrement", 0)
	mean := p.Float("mean", 0)
	prePts := MsToPts(p.Float("preTime", 0), rate)
	tailPts := MsToPts(p.Float("tailTime", 0), rate)

	// First pass: total active length in samples. Increments may be
	// negative (decrementing trains), but no pulse or interval may shrink
	// past zero.
	activePts := 0
	for i := 0; i < count; i++ {
		dur := pulseTime + float64(i)*durInc
		if dur < 0 {
			name := "pulseTime"
			if i > 0 {
				name = "durationIncrement"
			}
			return nil, 0, fmt.Errorf("invalid parameter %q: pulse %d duration is %v ms", name, i, dur)
		}
		activePts += MsToPts(dur, rate)
		if i < count-1 {
			interval := intervalTime + float64(i)*intInc
			if interval < 0 {
				name := "intervalTime"
				if i > 0 {
					name = "intervalIncrement"
				}
				return nil, 0, fmt.Errorf("invalid parameter %q: interval %d is %v ms", name, i, interval)
			}
			activePts += MsToPts(interval, rate)
		}
	}

	out := baseline(prePts+activePts+tailPts, mean)
	pos := prePts
	for i := 0; i < count; i++ {
		durPts := MsToPts(pulseTime+float64(i)*durInc, rate)
		amp := amplitude + float64(i)*ampInc
		for j := 0; j < durPts; j++ {
			out[pos+j] = mean + amp
		}
		pos += durPts
		if i < count-1 {
			pos += MsToPts(intervalTime+float64(i)*intInc, rate)
		}
	}
	return out, rate, nil
}
