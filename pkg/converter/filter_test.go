package converter

import (
	"fmt"
	"testing"

	"github.com/tondoru/mozc/pkg/pos"
)

// Test ids: 560 is a noun-prefix id, 1824/1825 are the last/first name ids.
func newTestFilter() *CandidateFilter {
	return NewCandidateFilter(pos.NewTable([]uint16{560}, 1824, 1825))
}

// multiToken builds a two-node candidate whose first node does not trip the
// noun-prefix rule (lid != rid).
func multiToken(value string, cost, structureCost int) *Candidate {
	return &Candidate{
		Value:         value,
		Cost:          cost,
		StructureCost: structureCost,
		Lid:           10,
		Rid:           20,
		Nodes: []*Node{
			{Lid: 10, Rid: 11},
			{Lid: 12, Rid: 20},
		},
	}
}

func singleToken(value string, cost, structureCost int) *Candidate {
	return &Candidate{
		Value:         value,
		Cost:          cost,
		StructureCost: structureCost,
		Nodes:         []*Node{{Lid: 10, Rid: 20}},
	}
}

// fill accepts n distinct candidates scoring the same as the baseline so
// later checks run at a known rank.
func fill(t *testing.T, f *CandidateFilter, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		c := multiToken(fmt.Sprintf("filler%03d", i), 1000, 500)
		if got := f.Filter(c); got != GoodCandidate {
			t.Fatalf("filler %d: got %v, want good", i, got)
		}
	}
	if f.Seen() != n {
		t.Fatalf("seen = %d after filling, want %d", f.Seen(), n)
	}
}

func TestTopCandidateBaseline(t *testing.T) {
	f := newTestFilter()

	// A context sensitive candidate is accepted but never becomes the
	// baseline; the first regular candidate does, and keeps the role.
	ctx := multiToken("ctx", 50, 50)
	ctx.LearningType |= ContextSensitive
	if got := f.Filter(ctx); got != GoodCandidate {
		t.Fatalf("context sensitive: got %v, want good", got)
	}
	if f.top != nil {
		t.Fatal("context sensitive candidate became the baseline")
	}

	first := multiToken("first", 1000, 500)
	if got := f.Filter(first); got != GoodCandidate {
		t.Fatalf("first regular: got %v, want good", got)
	}
	if f.top != first {
		t.Fatal("first regular candidate did not become the baseline")
	}

	second := multiToken("second", 1200, 500)
	f.Filter(second)
	if f.top != first {
		t.Fatal("baseline changed after the session started")
	}
}

func TestDuplicateValueRejected(t *testing.T) {
	f := newTestFilter()

	if got := f.Filter(multiToken("かれん", 1000, 500)); got != GoodCandidate {
		t.Fatalf("first occurrence: got %v, want good", got)
	}
	// Same surface text, better score: still a duplicate.
	if got := f.Filter(multiToken("かれん", 900, 400)); got != BadCandidate {
		t.Fatalf("duplicate: got %v, want bad", got)
	}
}

func TestSingleTokenNotFiltered(t *testing.T) {
	f := newTestFilter()
	fill(t, f, 5)

	c := singleToken("ものすごくたかい", 999999, 999999)
	if got := f.Filter(c); got != GoodCandidate {
		t.Fatalf("single token with huge cost: got %v, want good", got)
	}
}

func TestSingleCharacterNotFiltered(t *testing.T) {
	f := newTestFilter()
	fill(t, f, 5)

	// One character, three bytes, two tokens.
	c := multiToken("あ", 999999, 999999)
	if got := f.Filter(c); got != GoodCandidate {
		t.Fatalf("single character with huge cost: got %v, want good", got)
	}
}

func TestCapacityStop(t *testing.T) {
	f := newTestFilter()

	accepted := 0
	var last Result
	for i := 0; i < 250; i++ {
		last = f.Filter(singleToken(fmt.Sprintf("w%03d", i), 100+i, 0))
		if last == GoodCandidate {
			accepted++
		}
	}
	// size+1 >= 200 stops, so at most 199 are ever accepted; the capacity
	// check outranks the single-token exemption.
	if accepted != 199 {
		t.Errorf("accepted = %d, want 199", accepted)
	}
	if last != StopEnumeration {
		t.Errorf("verdict past capacity = %v, want stop", last)
	}
}

// Spec scenario: baseline cost 1000 / structure 500; a candidate past both
// the cost gate (diff 6908 > 6907) and the min structure gate (diff 1200 >
// 1151) is bad below rank 15 and stops enumeration at rank 15.
func TestCostGateBadThenStop(t *testing.T) {
	testCases := []struct {
		rank        int
		want        Result
		description string
	}{
		{5, BadCandidate, "below stop cache size there may be good candidates later"},
		{15, StopEnumeration, "at stop cache size enumeration is no longer worthwhile"},
	}

	for _, tc := range testCases {
		f := newTestFilter()
		fill(t, f, tc.rank)

		c := multiToken("expensive", 1000+6908, 500+1200)
		if got := f.Filter(c); got != tc.want {
			t.Errorf("rank %d: got %v, want %v (%s)", tc.rank, got, tc.want, tc.description)
		}
	}
}

func TestStructureCostOnlyRejection(t *testing.T) {
	f := newTestFilter()
	fill(t, f, 5)

	// Cost fine, structure diff 3454 > 3453: drop but keep enumerating.
	c := multiToken("misjoined", 1500, 500+3454)
	if got := f.Filter(c); got != BadCandidate {
		t.Fatalf("structure gate: got %v, want bad", got)
	}

	after := multiToken("regular", 1600, 600)
	if got := f.Filter(after); got != GoodCandidate {
		t.Fatalf("candidate after structure rejection: got %v, want good", got)
	}
}

func TestPersonalNamesBypassCostGate(t *testing.T) {
	testCases := []struct {
		lid         uint16
		description string
	}{
		{1824, "last name id lifts the cost gate"},
		{1825, "first name id lifts the cost gate"},
	}

	for _, tc := range testCases {
		f := newTestFilter()
		fill(t, f, 5)

		// Cost far beyond the gate, structure within the min offset: only
		// the structure side of the gate applies and it does not trigger.
		c := multiToken("みょうじ", 1000+999999, 500+1000)
		c.Lid = tc.lid
		if got := f.Filter(c); got != GoodCandidate {
			t.Errorf("lid %d: got %v, want good (%s)", tc.lid, got, tc.description)
		}
	}
}

func TestNounPrefixDemotion(t *testing.T) {
	nounPrefix := func() *Candidate {
		c := multiToken("御総", 1200, 600)
		c.Nodes[0].Lid = 560
		c.Nodes[0].Rid = 560
		return c
	}

	// Below rank 3 the early-rank leniency still protects the candidate.
	f := newTestFilter()
	fill(t, f, 2)
	if got := f.Filter(nounPrefix()); got != GoodCandidate {
		t.Fatalf("noun prefix at rank 2: got %v, want good", got)
	}

	f = newTestFilter()
	fill(t, f, 3)
	if got := f.Filter(nounPrefix()); got != BadCandidate {
		t.Fatalf("noun prefix at rank 3: got %v, want bad", got)
	}
}

func TestEarlyRankLeniency(t *testing.T) {
	// Structure diff 5500 would fail the structure-only gate, but below
	// rank 3 with cost near the baseline the candidate is protected.
	f := newTestFilter()
	fill(t, f, 1)
	c := multiToken("compound", 1500, 6000)
	if got := f.Filter(c); got != GoodCandidate {
		t.Fatalf("rank 1: got %v, want good", got)
	}

	f = newTestFilter()
	fill(t, f, 3)
	if got := f.Filter(multiToken("compound", 1500, 6000)); got != BadCandidate {
		t.Fatalf("rank 3: got %v, want bad", got)
	}
}

func TestContextSensitiveBypassesAllGates(t *testing.T) {
	f := newTestFilter()
	fill(t, f, 5)

	c := multiToken("ぶんみゃく", 999999, 999999)
	c.LearningType |= ContextSensitive
	if got := f.Filter(c); got != GoodCandidate {
		t.Fatalf("context sensitive: got %v, want good", got)
	}
	// It still lands in the seen set.
	if got := f.Filter(multiToken("ぶんみゃく", 1000, 500)); got != BadCandidate {
		t.Fatalf("duplicate of context sensitive: got %v, want bad", got)
	}
}

func TestResetReplayIsDeterministic(t *testing.T) {
	sequence := []*Candidate{
		multiToken("一番", 1000, 500),
		multiToken("二番", 1100, 500),
		multiToken("一番", 1150, 400),
		singleToken("三", 2000, 9000),
		multiToken("四番", 1000+6908, 500+1200),
		multiToken("五番", 3000, 700),
	}

	run := func(f *CandidateFilter) []Result {
		results := make([]Result, 0, len(sequence))
		for _, c := range sequence {
			results = append(results, f.Filter(c))
		}
		return results
	}

	f := newTestFilter()
	first := run(f)
	f.Reset()
	if f.Seen() != 0 {
		t.Fatalf("seen = %d after reset, want 0", f.Seen())
	}
	second := run(f)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("candidate %d (%s): first run %v, replay %v", i, sequence[i].Value, first[i], second[i])
		}
	}
}

func TestCustomLimits(t *testing.T) {
	matcher := pos.NewTable(nil, 0, 0)
	f := NewCandidateFilterWithLimits(matcher, Limits{MaxCandidates: 4, StopCacheSize: 2})

	for i := 0; i < 3; i++ {
		if got := f.Filter(singleToken(fmt.Sprintf("v%d", i), 100+i, 0)); got != GoodCandidate {
			t.Fatalf("candidate %d: got %v, want good", i, got)
		}
	}
	if got := f.Filter(singleToken("v3", 200, 0)); got != StopEnumeration {
		t.Fatalf("capacity with custom limit: got %v, want stop", got)
	}
}
