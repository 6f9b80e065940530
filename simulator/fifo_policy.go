package simulator

// FIFOPolicy implements FIFO (First In First Out) page replacement
// The resident page that was loaded earliest is evicted first, independent
// of any hits it received while resident
type FIFOPolicy struct{}

// NewFIFOPolicy creates a new FIFO policy
func NewFIFOPolicy() *FIFOPolicy {
	return &FIFOPolicy{}
}

// Name returns the policy name
func (p *FIFOPolicy) Name() string {
	return string(PolicyFIFO)
}

// Replay counts page faults for the reference string under FIFO replacement
// The resident set is a bounded queue: insertion appends at the tail,
// eviction removes the head. Hits never reorder the queue.
func (p *FIFOPolicy) Replay(ref ReferenceString, numFrames int) int {
	resident := make([]int, 0, numFrames)
	faults := 0

	for _, page := range ref {
		if containsPage(resident, page) {
			// Hit: no mutation under FIFO
			continue
		}

		faults++

		// At capacity the longest-resident page (head) makes room
		if len(resident) == numFrames {
			resident = resident[1:]
		}

		resident = append(resident, page)
	}

	return faults
}

// containsPage reports whether the resident set holds the given page
func containsPage(resident []int, page int) bool {
	for _, r := range resident {
		if r == page {
			return true
		}
	}
	return false
}
