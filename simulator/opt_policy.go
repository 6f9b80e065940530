package simulator

// OPTPolicy implements OPT (Belady's optimal) page replacement
// When an eviction is required, the resident page whose next reference lies
// furthest in the future is evicted; a page that is never referenced again
// is preferred over any page that will be used again
type OPTPolicy struct{}

// NewOPTPolicy creates a new OPT policy
func NewOPTPolicy() *OPTPolicy {
	return &OPTPolicy{}
}

// Name returns the policy name
func (p *OPTPolicy) Name() string {
	return string(PolicyOPT)
}

// noFutureUse marks a resident page with no further reference in the string
// Any forward distance is smaller, so such a page always wins victim selection
const noFutureUse = int(^uint(0) >> 1)

// Replay counts page faults for the reference string under OPT replacement
// Worst case is quadratic in the string length: each eviction scans the
// remainder of the string once per resident page.
func (p *OPTPolicy) Replay(ref ReferenceString, numFrames int) int {
	resident := make([]int, 0, numFrames)
	faults := 0

	for i, page := range ref {
		if containsPage(resident, page) {
			continue
		}

		faults++

		if len(resident) == numFrames {
			victim := victimIndex(resident, ref, i+1)
			resident = append(resident[:victim], resident[victim+1:]...)
		}

		resident = append(resident, page)
	}

	return faults
}

// victimIndex selects the resident page to evict at position from in the
// reference string. Returns the index into resident of the page whose next
// use is furthest away. Among residents that are never used again the first
// one wins; the choice among them cannot change the fault count.
func victimIndex(resident []int, ref ReferenceString, from int) int {
	victim := 0
	victimDistance := -1

	for idx, page := range resident {
		distance := nextUseDistance(ref, from, page)

		if distance == noFutureUse {
			// Nothing can be further away, stop scanning
			return idx
		}

		if distance > victimDistance {
			victim = idx
			victimDistance = distance
		}
	}

	return victim
}

// nextUseDistance returns how far ahead of from the page is referenced next,
// or noFutureUse if it never appears again
func nextUseDistance(ref ReferenceString, from int, page int) int {
	for i := from; i < len(ref); i++ {
		if ref[i] == page {
			return i - from
		}
	}
	return noFutureUse
}
