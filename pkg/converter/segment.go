package converter

import (
	"github.com/charmbracelet/log"

	"github.com/tondoru/mozc/pkg/pos"
)

// Segment collects the accepted candidates of one enumeration session. It
// drives a CandidateFilter over ascending-cost candidate slices and keeps
// the survivors in rank order.
type Segment struct {
	filter     *CandidateFilter
	candidates []*Candidate
	stopped    bool
}

// NewSegment creates a segment with its own filter session.
func NewSegment(matcher pos.Matcher) *Segment {
	return NewSegmentWithLimits(matcher, DefaultLimits())
}

// NewSegmentWithLimits creates a segment whose filter uses custom bounds.
func NewSegmentWithLimits(matcher pos.Matcher, limits Limits) *Segment {
	return &Segment{
		filter: NewCandidateFilterWithLimits(matcher, limits),
	}
}

// Expand runs the given candidates through the filter and appends the
// accepted ones. It returns how many were accepted by this call. Once the
// filter signals a stop, this and all later calls accept nothing until
// Reset.
func (s *Segment) Expand(candidates []*Candidate) int {
	if s.stopped {
		log.Debug("segment already stopped, ignoring expansion")
		return 0
	}
	accepted := 0
	for _, candidate := range candidates {
		switch s.filter.Filter(candidate) {
		case GoodCandidate:
			s.candidates = append(s.candidates, candidate)
			accepted++
		case BadCandidate:
			continue
		case StopEnumeration:
			s.stopped = true
			return accepted
		}
	}
	return accepted
}

// Candidates returns the accepted candidates in rank order. The returned
// slice is owned by the segment.
func (s *Segment) Candidates() []*Candidate {
	return s.candidates
}

// Stopped reports whether enumeration was abandoned.
func (s *Segment) Stopped() bool {
	return s.stopped
}

// Reset discards accepted candidates and starts a fresh filter session.
func (s *Segment) Reset() {
	s.filter.Reset()
	s.candidates = nil
	s.stopped = false
}
