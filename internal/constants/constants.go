// Package constants provides named constants used throughout the epochtree codebase.
// This centralizes magic numbers and format versions for better maintainability.
package constants

// Archive format constants
const (
	// ArchiveVersionMin is the oldest import archive format version accepted.
	ArchiveVersionMin = 1

	// ArchiveVersionCurrent is the archive format version produced by current exporters.
	ArchiveVersionCurrent = 2
)

// Selection mask constants
const (
	// MaskVersion is the on-disk selection mask format version.
	MaskVersion = 1
)

// Tree constants
const (
	// MissingSplitValue is the sentinel group for epochs whose metadata
	// does not contain a grouping rule's field. Missing fields group
	// together rather than erroring.
	MissingSplitValue = "(missing)"

	// ReservedKeyPrefix marks per-node custom keys reserved for internal
	// bookkeeping (display caches and the like). User analysis results
	// must not use this prefix.
	ReservedKeyPrefix = "epochtree."

	// PathSeparator joins split values in human-readable node paths.
	PathSeparator = " / "
)

// Signal timing constants
const (
	// MsPerSecond converts millisecond durations to seconds when deriving
	// sample counts: points = round(ms * sampleRate / MsPerSecond).
	MsPerSecond = 1000.0
)

// Display constants
const (
	// MaxSplitValueDisplayLen is the maximum length for split values in
	// rendered tree output. Longer values are truncated with an ellipsis.
	MaxSplitValueDisplayLen = 40
)
