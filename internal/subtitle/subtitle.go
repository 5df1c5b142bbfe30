package subtitle

import (
	"time"
)

// Segment is a timed span of recognized or authored text.
// Invariant: 0 <= Start <= End. Overlaps between segments are tolerated
// and preserved as-is.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Format identifies a supported subtitle file format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)
