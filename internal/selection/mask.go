package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nvandessel/epochtree/internal/constants"
	"github.com/nvandessel/epochtree/internal/models"
)

// ErrEpochCountMismatch is returned when a mask's epoch count does not
// match the current epoch set. The load is refused outright; current
// selection state is left untouched.
var ErrEpochCountMismatch = errors.New("selection mask epoch count mismatch")

// Mask is the persisted selection format: a boolean vector aligned to
// canonical epoch order (original import order, models.Epoch.Seq).
type Mask struct {
	// Version is the mask format version.
	Version int `json:"version"`

	// ID uniquely identifies this mask file.
	ID string `json:"id"`

	// Source ties the mask back to its source import archive.
	Source string `json:"source,omitempty"`

	// CreatedAt is the mask creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// EpochCount is the size of the epoch set the mask was built from.
	EpochCount int `json:"epoch_count"`

	// Bits holds one flag per epoch in canonical order.
	Bits []bool `json:"bits"`
}

// BuildMask captures the current isSelected flags of epochs as a mask.
// The mask is built fresh from the flags, never maintained incrementally.
// The epochs are read in canonical Seq order regardless of slice order.
func BuildMask(epochs []*models.Epoch, source string) *Mask {
	ordered := canonicalOrder(epochs)
	bits := make([]bool, len(ordered))
	for i, e := range ordered {
		bits[i] = e.Selected
	}
	return &Mask{
		Version:    constants.MaskVersion,
		ID:         uuid.NewString(),
		Source:     source,
		CreatedAt:  time.Now().UTC(),
		EpochCount: len(bits),
		Bits:       bits,
	}
}

// Apply writes the mask's flags onto epochs. If the mask's epoch count
// differs from the current set, the mask is refused, no flag is touched,
// and the discrepancy is reported.
func (m *Mask) Apply(epochs []*models.Epoch) error {
	if m.EpochCount != len(epochs) || len(m.Bits) != len(epochs) {
		return fmt.Errorf("%w: mask has %d epochs, current set has %d",
			ErrEpochCountMismatch, m.EpochCount, len(epochs))
	}
	ordered := canonicalOrder(epochs)
	for i, e := range ordered {
		e.Selected = m.Bits[i]
	}
	return nil
}

// SaveMask writes the mask as JSON, creating parent directories.
func SaveMask(m *Mask, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create mask directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mask: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mask file: %w", err)
	}
	return nil
}

// LoadMask reads a mask file. Version and shape are validated here;
// count validation against the live epoch set happens in Apply.
func LoadMask(path string) (*Mask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mask file: %w", err)
	}
	var m Mask
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mask file: %w", err)
	}
	if m.Version != constants.MaskVersion {
		return nil, fmt.Errorf("unsupported mask format version %d (supported: %d)",
			m.Version, constants.MaskVersion)
	}
	if len(m.Bits) != m.EpochCount {
		return nil, fmt.Errorf("malformed mask: %d bits for declared epoch count %d",
			len(m.Bits), m.EpochCount)
	}
	return &m, nil
}

// canonicalOrder returns the epochs sorted by Seq without reordering the
// caller's slice.
func canonicalOrder(epochs []*models.Epoch) []*models.Epoch {
	ordered := append([]*models.Epoch(nil), epochs...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })
	return ordered
}
