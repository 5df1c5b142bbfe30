package subtitle

import (
	"sort"
	"sync"
	"time"
)

// sortByStart orders segments chronologically. The sort is stable so
// overlapping segments keep their discovery order.
func sortByStart(segments []Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
}

// Store is the in-memory ordered collection of segments. It supports
// manual time-shift edits on a selected segment and position lookup.
// Safe for concurrent use by a playback position callback and the
// owning workflow.
type Store struct {
	mu       sync.RWMutex
	segments []Segment
	selected int
}

// NewStore creates an empty store with no selection.
func NewStore() *Store {
	return &Store{selected: -1}
}

// Replace discards previous content and installs segments, sorted by
// start time. Any selection is cleared.
func (s *Store) Replace(segments []Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.segments = make([]Segment, len(segments))
	copy(s.segments, segments)
	sortByStart(s.segments)
	s.selected = -1
}

// Clear discards all segments and the selection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = nil
	s.selected = -1
}

// Segments returns a copy of the current segments in order.
func (s *Store) Segments() []Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// Len returns the number of segments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.segments)
}

// Segment returns the segment at index i.
func (s *Store) Segment(i int) (Segment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.segments) {
		return Segment{}, false
	}
	return s.segments[i], true
}

// Select marks the segment at index i as selected.
func (s *Store) Select(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.segments) {
		return false
	}
	s.selected = i
	return true
}

// ClearSelection removes the current selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = -1
}

// Selected returns the index of the selected segment, if any.
func (s *Store) Selected() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected < 0 {
		return -1, false
	}
	return s.selected, true
}

// NudgeSelected shifts both boundaries of the selected segment by delta,
// clamping each boundary at zero. No-op without a selection.
func (s *Store) NudgeSelected(delta time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected < 0 || s.selected >= len(s.segments) {
		return false
	}

	seg := &s.segments[s.selected]
	seg.Start = clampZero(seg.Start + delta)
	seg.End = clampZero(seg.End + delta)
	return true
}

// ActiveAt returns the first segment whose [Start, End] range contains
// position, inclusive of both boundaries.
func (s *Store) ActiveAt(position time.Duration) (Segment, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, seg := range s.segments {
		if seg.Start <= position && position <= seg.End {
			return seg, i, true
		}
	}
	return Segment{}, -1, false
}

func clampZero(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
