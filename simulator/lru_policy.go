package simulator

import (
	"container/list"
)

// lruNode represents a resident page in the recency list
type lruNode struct {
	page int
}

// LRUPolicy implements LRU (Least Recently Used) page replacement
// The resident set is a queue ordered by recency: the back of the list is the
// most recently used page, the front is the eviction victim
type LRUPolicy struct{}

// NewLRUPolicy creates a new LRU policy
func NewLRUPolicy() *LRUPolicy {
	return &LRUPolicy{}
}

// Name returns the policy name
func (p *LRUPolicy) Name() string {
	return string(PolicyLRU)
}

// Replay counts page faults for the reference string under LRU replacement
// On a hit the referenced page moves to the back (most recently used); on a
// miss at capacity the front (least recently used) is evicted first.
func (p *LRUPolicy) Replay(ref ReferenceString, numFrames int) int {
	recency := list.New()
	resident := make(map[int]*list.Element, numFrames)
	faults := 0

	for _, page := range ref {
		if elem, ok := resident[page]; ok {
			// Hit: refresh recency so this page is evicted last
			recency.MoveToBack(elem)
			continue
		}

		faults++

		if recency.Len() == numFrames {
			oldest := recency.Front()
			victim := oldest.Value.(*lruNode)

			recency.Remove(oldest)
			delete(resident, victim.page)
		}

		resident[page] = recency.PushBack(&lruNode{page: page})
	}

	return faults
}
