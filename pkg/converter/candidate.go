package converter

// Node is one lexical unit in the conversion lattice. Lid and Rid are the
// left/right connection ids used to check adjacency compatibility between
// neighboring units.
type Node struct {
	Lid   uint16
	Rid   uint16
	Value string
}

// LearningType is a bit-flag set carried on a candidate.
type LearningType uint8

const (
	// ContextSensitive marks candidates whose cost was adjusted by
	// context-specific scoring and is therefore unreliable for comparison.
	ContextSensitive LearningType = 1 << iota
)

// Candidate is one possible conversion output produced by the upstream
// engine for a segment. It is fully scored by the caller; the filter only
// reads it.
//
// Cost is derived as -500 * log(probability), so lower is better and a cost
// difference of d between two candidates corresponds to a probability ratio
// of exp(d/500).
type Candidate struct {
	Value         string
	Cost          int
	StructureCost int
	Lid           uint16
	Rid           uint16
	Nodes         []*Node
	LearningType  LearningType
}
