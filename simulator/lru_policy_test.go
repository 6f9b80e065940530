package simulator

import (
	"testing"
)

// TestLRUReplayScenario tests the canonical scenario: 9 references against
// 3 frames fault 5 times under LRU
func TestLRUReplayScenario(t *testing.T) {
	policy := NewLRUPolicy()
	ref := ReferenceString{1, 2, 3, 1, 2, 4, 1, 2, 3}

	faults := policy.Replay(ref, 3)
	if faults != 5 {
		t.Errorf("Expected 5 faults, got %d", faults)
	}
}

// TestLRUReplayTextbook tests the classic 20-reference string against
// 3 frames
func TestLRUReplayTextbook(t *testing.T) {
	policy := NewLRUPolicy()
	ref := ReferenceString{7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2, 1, 2, 0, 1, 7, 0, 1}

	faults := policy.Replay(ref, 3)
	if faults != 12 {
		t.Errorf("Expected 12 faults, got %d", faults)
	}
}

// TestLRUReplayEmpty tests that an empty string never faults
func TestLRUReplayEmpty(t *testing.T) {
	policy := NewLRUPolicy()

	faults := policy.Replay(ReferenceString{}, 3)
	if faults != 0 {
		t.Errorf("Expected 0 faults for empty string, got %d", faults)
	}
}

// TestLRUHitRefreshesRecency tests that a hit protects a page from the
// next eviction
func TestLRUHitRefreshesRecency(t *testing.T) {
	policy := NewLRUPolicy()

	// After the hit on 1 the least recently used page is 2, so the miss
	// on 4 evicts 2 and the final reference to 1 still hits
	ref := ReferenceString{1, 2, 3, 1, 4, 1}

	faults := policy.Replay(ref, 3)
	if faults != 4 {
		t.Errorf("Expected 4 faults, got %d", faults)
	}
}

// TestLRUReplaySingleFrame tests capacity 1: every change of page faults
func TestLRUReplaySingleFrame(t *testing.T) {
	policy := NewLRUPolicy()
	ref := ReferenceString{1, 2, 1, 2, 1}

	faults := policy.Replay(ref, 1)
	if faults != 5 {
		t.Errorf("Expected 5 faults at capacity 1, got %d", faults)
	}
}

// TestLRUReplayFitsInFrames tests a working set no larger than the
// resident set: only cold misses fault
func TestLRUReplayFitsInFrames(t *testing.T) {
	policy := NewLRUPolicy()
	ref := ReferenceString{1, 2, 3, 2, 1, 3, 1, 2}

	faults := policy.Replay(ref, 3)
	if faults != 3 {
		t.Errorf("Expected 3 cold faults, got %d", faults)
	}
}

// TestLRUReplayIndependentRuns tests that consecutive replays do not share
// resident state
func TestLRUReplayIndependentRuns(t *testing.T) {
	policy := NewLRUPolicy()
	ref := ReferenceString{1, 2, 3}

	first := policy.Replay(ref, 3)
	second := policy.Replay(ref, 3)

	if first != second {
		t.Errorf("Replays should be independent: %d vs %d", first, second)
	}

	if second != 3 {
		t.Errorf("Expected 3 cold faults on second run, got %d", second)
	}
}
