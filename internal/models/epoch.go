// Package models defines the core record types: epochs, their recorded
// response streams, and their parametrically described stimulus streams.
package models

// Epoch represents one measurement trial.
//
// An epoch is created once at import and never destroyed during a session.
// Tree rebuilds regroup references to epochs; they never copy or replace
// the epoch's identity. The only mutable state is the Selected flag.
type Epoch struct {
	// Seq is the epoch's position in canonical import order.
	// Selection masks are aligned to this ordering.
	Seq int `json:"seq"`

	// Meta is the epoch's metadata bag: arbitrary nested key/value data
	// including cell and protocol identifiers and stimulus timing parameters.
	Meta map[string]interface{} `json:"meta,omitempty"`

	// Selected marks the epoch as active for extraction and analysis.
	Selected bool `json:"selected"`

	// Responses are the recorded channels, in import order.
	Responses []Response `json:"responses,omitempty"`

	// Stimuli are the driving channels, in import order.
	Stimuli []Stimulus `json:"stimuli,omitempty"`
}

// Response represents one recorded signal channel on an epoch.
// Sample data is either inline or resolvable through Locator against a
// backing trace store ("not yet loaded" state).
type Response struct {
	// Name is the device/stream name, e.g. "Amp1".
	Name string `json:"name"`

	// SampleRate is the acquisition rate in Hz.
	SampleRate float64 `json:"sample_rate"`

	// Samples holds inline data when present. Nil means not yet loaded.
	Samples []float64 `json:"samples,omitempty"`

	// Locator identifies the trace in the backing store when Samples is nil.
	Locator string `json:"locator,omitempty"`
}

// Loaded reports whether the response's sample data is resident.
func (r *Response) Loaded() bool {
	return r.Samples != nil
}

// Stimulus represents one driving signal channel on an epoch.
// Raw stimulus waveforms are never stored on disk; a stimulus either
// carries inline data or a generator identifier plus a parameter record
// sufficient to regenerate it exactly.
type Stimulus struct {
	// Name is the device/stream name, e.g. "Amp1".
	Name string `json:"name"`

	// SampleRate is the output rate in Hz. May be zero when the rate
	// lives in Params instead (generator-described stimuli).
	SampleRate float64 `json:"sample_rate,omitempty"`

	// Samples holds inline data when the waveform was materialized.
	Samples []float64 `json:"samples,omitempty"`

	// Generator identifies the registered generator that produced the
	// waveform, e.g. "gaussian-noise".
	Generator string `json:"generator,omitempty"`

	// Params is the generator parameter record (timing, amplitude, seed).
	Params map[string]interface{} `json:"params,omitempty"`
}

// Response returns the named response stream, or (nil, false) if the
// epoch has no stream with that name.
func (e *Epoch) Response(name string) (*Response, bool) {
	for i := range e.Responses {
		if e.Responses[i].Name == name {
			return &e.Responses[i], true
		}
	}
	return nil, false
}

// Stimulus returns the named stimulus stream, or (nil, false) if the
// epoch has no stream with that name.
func (e *Epoch) Stimulus(name string) (*Stimulus, bool) {
	for i := range e.Stimuli {
		if e.Stimuli[i].Name == name {
			return &e.Stimuli[i], true
		}
	}
	return nil, false
}
