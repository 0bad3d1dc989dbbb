/*
Package converter filters ranked conversion candidates by cost, structure
and their relation with previously accepted candidates.

Candidates arrive one at a time in ascending-cost order and the filter
answers GOOD (keep), BAD (drop, keep enumerating) or STOP (drop and stop
asking for more). The first non-context-sensitive candidate of a session
becomes the cost baseline for every later comparison.
*/
package converter

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/tondoru/mozc/internal/utils"
	"github.com/tondoru/mozc/pkg/pos"
)

// Result classifies one candidate.
type Result int

const (
	GoodCandidate Result = iota
	BadCandidate
	StopEnumeration
)

func (r Result) String() string {
	switch r {
	case GoodCandidate:
		return "good"
	case BadCandidate:
		return "bad"
	case StopEnumeration:
		return "stop"
	}
	return "unknown"
}

// The cost is calculated as cost = -500 * log(prob), so an absolute cost
// difference between two candidates maps to a fixed probability ratio C:
//
//	C       cost diff: 500 * log(C)
//	10      1151.29
//	100     2302.58
//	1000    3453.87
//	1000000 6907.75
//
// Filtering on absolute differences therefore gates on probability ratios.
const (
	minCost                = 100
	costOffset             = 6907
	structureCostOffset    = 3453
	minStructureCostOffset = 1151
	noFilterRank           = 3
	noFilterCostOffset     = 2302
	noFilterStructureCost  = 6907
)

// Limits holds the session bounds of a filter. Cost thresholds are fixed by
// the probability model and are not tunable at runtime.
type Limits struct {
	// MaxCandidates is how many candidates a session will accept before
	// enumeration is abandoned.
	MaxCandidates int
	// StopCacheSize is the accepted-count below which a cost-gate failure
	// rejects the candidate instead of stopping enumeration.
	StopCacheSize int
}

// DefaultLimits returns the standard session bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxCandidates: 200,
		StopCacheSize: 15,
	}
}

// CandidateFilter decides, one candidate at a time, whether each ranked
// candidate is kept, dropped, or whether enumeration should stop.
//
// One instance is scoped to exactly one filtering session and is not safe
// for concurrent use. Callers must supply candidates in non-decreasing cost
// order; the stop behavior depends on that ordering and it is not enforced
// here beyond a debug trace.
type CandidateFilter struct {
	pos      pos.Matcher
	limits   Limits
	seen     *patricia.Trie
	seenSize int
	top      *Candidate
	lastCost int
}

// NewCandidateFilter creates a filter with default limits. The matcher is
// the injected part-of-speech capability; it must be non-nil.
func NewCandidateFilter(matcher pos.Matcher) *CandidateFilter {
	return NewCandidateFilterWithLimits(matcher, DefaultLimits())
}

// NewCandidateFilterWithLimits creates a filter with custom session bounds.
func NewCandidateFilterWithLimits(matcher pos.Matcher, limits Limits) *CandidateFilter {
	if matcher == nil {
		log.Fatal("converter: nil pos.Matcher passed to NewCandidateFilter")
	}
	if limits.MaxCandidates < 1 || limits.StopCacheSize < 1 {
		limits = DefaultLimits()
	}
	return &CandidateFilter{
		pos:    matcher,
		limits: limits,
		seen:   patricia.NewTrie(),
	}
}

// Reset clears the seen set and the top-candidate baseline, starting a new
// session. Must be called between unrelated enumerations; stale state
// corrupts the cost baseline.
func (f *CandidateFilter) Reset() {
	f.seen = patricia.NewTrie()
	f.seenSize = 0
	f.top = nil
	f.lastCost = 0
}

// Seen returns how many candidates have been accepted this session.
func (f *CandidateFilter) Seen() int {
	return f.seenSize
}

// Filter classifies one candidate. A GOOD verdict records the candidate's
// value so later duplicates are rejected. Passing a nil candidate is a
// programming error and aborts.
func (f *CandidateFilter) Filter(candidate *Candidate) Result {
	result := f.filter(candidate)
	if result != GoodCandidate {
		return result
	}
	if f.seen.Insert(patricia.Prefix(candidate.Value), struct{}{}) {
		f.seenSize++
	}
	return result
}

func (f *CandidateFilter) filter(candidate *Candidate) Result {
	if candidate == nil {
		log.Fatal("converter: nil candidate passed to CandidateFilter.Filter")
	}

	// Costs of context sensitive candidates tend to be overestimated, so
	// they bypass the comparisons entirely and never become the baseline.
	if candidate.LearningType&ContextSensitive != 0 {
		return GoodCandidate
	}

	size := f.seenSize
	if f.top == nil || size == 0 {
		f.top = candidate
	}

	if candidate.Cost < f.lastCost {
		log.Debugf("cost regression in stream: %d after %d for %q", candidate.Cost, f.lastCost, candidate.Value)
	}
	f.lastCost = candidate.Cost

	if size+1 >= f.limits.MaxCandidates {
		return StopEnumeration
	}

	if f.seen.Match(patricia.Prefix(candidate.Value)) {
		return BadCandidate
	}

	// A candidate made of a single token has no join to judge.
	if len(candidate.Nodes) == 1 {
		log.Debugf("not filtering single token: %q", candidate.Value)
		return GoodCandidate
	}

	// Single characters are common and cheap to show; never drop them.
	if utils.CharsLen(candidate.Value) == 1 {
		log.Debugf("not filtering single character: %q", candidate.Value)
		return GoodCandidate
	}

	topCost := max(minCost, f.top.Cost)
	topStructureCost := max(minCost, f.top.StructureCost)

	// Don't filter the first few ranks aggressively. When the top candidate
	// is a compound with structure cost 0, regular 2nd/3rd candidates with
	// nonzero structure cost would otherwise get removed.
	if size < noFilterRank &&
		candidate.Cost-topCost < noFilterCostOffset &&
		candidate.StructureCost < noFilterStructureCost {
		return GoodCandidate
	}

	// Once enough better candidates exist, drop the noisy noun-prefix
	// compound misparses.
	if size >= noFilterRank && len(candidate.Nodes) > 1 &&
		candidate.Nodes[0].Lid == candidate.Nodes[0].Rid &&
		f.pos.IsNounPrefix(candidate.Nodes[0].Lid) {
		log.Debugf("removing noisy prefix pattern: %q", candidate.Value)
		return BadCandidate
	}

	// Personal names must stay visible even when minor, so the cost gate is
	// lifted for them; only the structure cost still applies.
	offset := costOffset
	if candidate.Lid == f.pos.LastNameID() || candidate.Lid == f.pos.FirstNameID() {
		offset = math.MaxInt
	}

	if candidate.Cost-topCost > offset &&
		candidate.StructureCost-topStructureCost > minStructureCostOffset {
		log.Debug("cost gate exceeded",
			"value", candidate.Value,
			"cost", candidate.Cost,
			"topCost", topCost,
			"structureCost", candidate.StructureCost,
			"topStructureCost", topStructureCost,
			"lid", candidate.Lid,
			"rid", candidate.Rid)
		if size < f.limits.StopCacheSize {
			// A candidate removed only on structure cost may be followed by
			// valid ones; don't stop the whole enumeration yet.
			return BadCandidate
		}
		return StopEnumeration
	}

	if candidate.StructureCost-topStructureCost > structureCostOffset {
		log.Debugf("structure cost gate exceeded: %q structure=%d cost=%d",
			candidate.Value, candidate.StructureCost, candidate.Cost)
		return BadCandidate
	}

	return GoodCandidate
}
