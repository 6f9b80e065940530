package simulator

// PolicyKind identifies a page replacement policy
type PolicyKind string

const (
	PolicyFIFO PolicyKind = "fifo"
	PolicyLRU  PolicyKind = "lru"
	PolicyOPT  PolicyKind = "opt"
)

// Kinds returns all supported policy kinds in a fixed order
func Kinds() []PolicyKind {
	return []PolicyKind{PolicyFIFO, PolicyLRU, PolicyOPT}
}

// Policy interface for page replacement algorithms
// The variant set is closed: FIFO, LRU and OPT
type Policy interface {
	// Replay runs a sanitized reference string against an initially empty
	// resident set of numFrames frames and returns the total page faults.
	// Replay assumes validated input: numFrames >= 1, page IDs >= 0.
	Replay(ref ReferenceString, numFrames int) int

	// Name returns the policy name
	Name() string
}

// NewPolicy creates a policy for the given kind
// An unrecognized kind is a caller bug and reported as ErrCodeUnsupportedPolicy
func NewPolicy(kind PolicyKind) (Policy, error) {
	switch kind {
	case PolicyFIFO:
		return NewFIFOPolicy(), nil
	case PolicyLRU:
		return NewLRUPolicy(), nil
	case PolicyOPT:
		return NewOPTPolicy(), nil
	default:
		return nil, ErrUnsupportedPolicy("NewPolicy", kind)
	}
}
