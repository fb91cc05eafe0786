// Package importer reads versioned epoch archives produced by the
// external exporter collaborator.
//
// An archive is a record tree (experiment, cell, epoch-group,
// epoch-block, epoch) where each epoch carries a metadata bag, response
// entries (inline data or a backing-store locator) and stimulus entries
// (inline data or a generator identifier plus parameter record).
//
// Malformed-input policy: an unknown format version fails the load
// outright; missing fields that do not block the requested operation are
// collected as warnings and the load continues.
package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/nvandessel/epochtree/internal/constants"
	"github.com/nvandessel/epochtree/internal/models"
)

// Archive is the top-level import record.
type Archive struct {
	Version     int          `json:"version"`
	ID          string       `json:"id,omitempty"`
	Source      string       `json:"source,omitempty"`
	Experiments []Experiment `json:"experiments"`
}

// Experiment groups the cells recorded in one session.
type Experiment struct {
	Label      string                 `json:"label,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Cells      []Cell                 `json:"cells"`
}

// Cell groups the epoch groups recorded from one cell.
type Cell struct {
	Label      string                 `json:"label,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Groups     []EpochGroup           `json:"epoch_groups"`
}

// EpochGroup groups the blocks run under one experimental condition.
type EpochGroup struct {
	Label      string                 `json:"label,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Blocks     []EpochBlock           `json:"epoch_blocks"`
}

// EpochBlock groups consecutive epochs run under one protocol.
type EpochBlock struct {
	ProtocolID string                 `json:"protocol_id,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Epochs     []EpochRecord          `json:"epochs"`
}

// EpochRecord is one trial as stored in the archive.
type EpochRecord struct {
	Properties map[string]interface{} `json:"properties,omitempty"`

	// Selected defaults to true when absent.
	Selected *bool `json:"selected,omitempty"`

	Responses []ResponseRecord `json:"responses,omitempty"`
	Stimuli   []StimulusRecord `json:"stimuli,omitempty"`
}

// ResponseRecord is a recorded channel entry: inline data or a locator.
type ResponseRecord struct {
	Name       string    `json:"name"`
	SampleRate float64   `json:"sample_rate"`
	Samples    []float64 `json:"samples,omitempty"`
	Locator    string    `json:"locator,omitempty"`
}

// StimulusRecord is a driving channel entry: inline data or a generator
// identifier plus parameter record.
type StimulusRecord struct {
	Name       string                 `json:"name"`
	SampleRate float64                `json:"sample_rate,omitempty"`
	Samples    []float64              `json:"samples,omitempty"`
	Generator  string                 `json:"generator,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Warning records a non-fatal problem encountered while loading.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Load reads and validates an archive file. Warnings report recoverable
// problems; the returned error is reserved for blocking failures such as
// unreadable files or an unsupported format version.
func Load(path string) (*Archive, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read archive: %w", err)
	}

	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, nil, fmt.Errorf("failed to parse archive: %w", err)
	}

	if a.Version < constants.ArchiveVersionMin || a.Version > constants.ArchiveVersionCurrent {
		return nil, nil, fmt.Errorf("unsupported archive format version %d (supported: %d-%d)",
			a.Version, constants.ArchiveVersionMin, constants.ArchiveVersionCurrent)
	}

	var warnings []Warning
	if a.ID == "" {
		a.ID = uuid.NewString()
		warnings = append(warnings, Warning{Path: "id", Message: "archive has no id; generated one"})
	}
	if a.Source == "" {
		warnings = append(warnings, Warning{Path: "source", Message: "archive does not name its source file"})
	}
	if len(a.Experiments) == 0 {
		warnings = append(warnings, Warning{Path: "experiments", Message: "archive contains no experiments"})
	}

	for xi, x := range a.Experiments {
		for ci, c := range x.Cells {
			if c.Label == "" {
				warnings = append(warnings, Warning{
					Path:    fmt.Sprintf("experiments[%d].cells[%d]", xi, ci),
					Message: "cell has no label",
				})
			}
			for gi, g := range c.Groups {
				for bi, b := range g.Blocks {
					for ei, e := range b.Epochs {
						for ri, r := range e.Responses {
							if r.Name == "" {
								warnings = append(warnings, Warning{
									Path: fmt.Sprintf("experiments[%d].cells[%d].epoch_groups[%d].epoch_blocks[%d].epochs[%d].responses[%d]",
										xi, ci, gi, bi, ei, ri),
									Message: "response has no stream name",
								})
							}
							if r.Samples == nil && r.Locator == "" {
								warnings = append(warnings, Warning{
									Path: fmt.Sprintf("experiments[%d].cells[%d].epoch_groups[%d].epoch_blocks[%d].epochs[%d].responses[%d]",
										xi, ci, gi, bi, ei, ri),
									Message: fmt.Sprintf("response %q has neither data nor a locator", r.Name),
								})
							}
						}
					}
				}
			}
		}
	}

	return &a, warnings, nil
}

// Flatten converts the archive's record tree into the flat epoch set the
// tree engine consumes. Ancestor labels, properties and the block's
// protocol identity are merged into each epoch's metadata bag (epoch-own
// properties win on key collision), and canonical Seq values are assigned
// in archive order. Selected defaults to true when absent.
func Flatten(a *Archive) []*models.Epoch {
	var epochs []*models.Epoch
	seq := 0
	for _, x := range a.Experiments {
		for _, c := range x.Cells {
			for _, g := range c.Groups {
				for _, b := range g.Blocks {
					for _, rec := range b.Epochs {
						e := &models.Epoch{
							Seq:      seq,
							Selected: rec.Selected == nil || *rec.Selected,
							Meta:     make(map[string]interface{}),
						}
						merge(e.Meta, x.Properties)
						merge(e.Meta, c.Properties)
						merge(e.Meta, g.Properties)
						merge(e.Meta, b.Parameters)
						if x.Label != "" {
							e.Meta["experimentLabel"] = x.Label
						}
						if c.Label != "" {
							e.Meta["cellLabel"] = c.Label
						}
						if g.Label != "" {
							e.Meta["groupLabel"] = g.Label
						}
						if b.ProtocolID != "" {
							e.Meta["protocolID"] = b.ProtocolID
						}
						merge(e.Meta, rec.Properties)

						for _, r := range rec.Responses {
							e.Responses = append(e.Responses, models.Response{
								Name:       r.Name,
								SampleRate: r.SampleRate,
								Samples:    r.Samples,
								Locator:    r.Locator,
							})
						}
						for _, s := range rec.Stimuli {
							e.Stimuli = append(e.Stimuli, models.Stimulus{
								Name:       s.Name,
								SampleRate: s.SampleRate,
								Samples:    s.Samples,
								Generator:  s.Generator,
								Params:     s.Parameters,
							})
						}

						epochs = append(epochs, e)
						seq++
					}
				}
			}
		}
	}
	return epochs
}

func merge(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}
