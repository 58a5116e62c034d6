package kindle

import "fmt"

// WarningKind classifies a parser diagnostic.
type WarningKind string

const (
	WarningInvalidMetadata WarningKind = "invalid_metadata"
	WarningUnknownType     WarningKind = "unknown_type"
	WarningUnparsable      WarningKind = "unparsable_block"
	// WarningLimitReached marks the point where a kind stopped being recorded.
	WarningLimitReached WarningKind = "limit_reached"
)

// DefaultMaxWarnings caps the diagnostics kept per kind.
const DefaultMaxWarnings = 100

// Warning is a non-fatal problem found while parsing a block.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
	BlockIndex int         `json:"blockIndex"`
}

// Diagnostics collects warnings for a single parse run. It is not safe
// for concurrent use and must not be shared between runs.
type Diagnostics struct {
	max      int
	warnings []Warning
	counts   map[WarningKind]int
}

// NewDiagnostics creates a collector keeping at most limit warnings per
// kind. A non-positive limit selects DefaultMaxWarnings.
func NewDiagnostics(limit int) *Diagnostics {
	if limit <= 0 {
		limit = DefaultMaxWarnings
	}
	return &Diagnostics{
		max:    limit,
		counts: make(map[WarningKind]int),
	}
}

// Add records a warning unless its kind already hit the cap. The warning
// that reaches the cap is followed by one terminal marker.
func (d *Diagnostics) Add(kind WarningKind, blockIndex int, format string, args ...any) {
	if d == nil {
		return
	}
	n := d.counts[kind]
	if n >= d.max {
		return
	}
	d.counts[kind] = n + 1
	d.warnings = append(d.warnings, Warning{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		BlockIndex: blockIndex,
	})
	if n+1 == d.max {
		d.warnings = append(d.warnings, Warning{
			Kind:       WarningLimitReached,
			Message:    fmt.Sprintf("too many %s warnings, stopped after %d", kind, d.max),
			BlockIndex: -1,
		})
	}
}

// Warnings returns the recorded warnings in insertion order.
func (d *Diagnostics) Warnings() []Warning {
	if d == nil {
		return nil
	}
	return append([]Warning(nil), d.warnings...)
}

// Len is the number of recorded warnings, markers included.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.warnings)
}
