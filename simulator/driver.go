package simulator

// RunResult holds the fault counts of one reference string replayed under
// every policy with the same parameters
type RunResult struct {
	RefString ReferenceString // Sanitized reference string that was replayed
	NumPages int
	NumFrames int
	Faults map[PolicyKind]int
}

// Run replays a reference string under the chosen policy and returns the
// total page faults. The string is sanitized before replay, so references
// that repeat the previous page never count as faults.
func Run(kind PolicyKind, ref ReferenceString, numPages, numFrames int) (int, error) {
	policy, err := NewPolicy(kind)
	if err != nil {
		return 0, err
	}

	if err := validateParameters(numPages, numFrames); err != nil {
		return 0, err
	}

	return policy.Replay(Sanitize(ref), numFrames), nil
}

// RunAll replays the same sanitized reference string under all three
// policies, for side by side comparison
func RunAll(ref ReferenceString, numPages, numFrames int) (*RunResult, error) {
	if err := validateParameters(numPages, numFrames); err != nil {
		return nil, err
	}

	clean := Sanitize(ref)
	result := &RunResult{
		RefString: clean,
		NumPages: numPages,
		NumFrames: numFrames,
		Faults: make(map[PolicyKind]int, len(Kinds())),
	}

	for _, kind := range Kinds() {
		policy, err := NewPolicy(kind)
		if err != nil {
			return nil, err
		}
		result.Faults[kind] = policy.Replay(clean, numFrames)
	}

	return result, nil
}

// validateParameters rejects parameters outside the supported ranges before
// any replay state is built. numPages 0 is legal: it only means the caller
// promises an empty address space, the replay itself is driven by the
// reference string.
func validateParameters(numPages, numFrames int) error {
	if numFrames < MinFrames || numFrames > MaxFrames {
		return ErrInvalidFrameCount("Run", numFrames)
	}

	if numPages < MinPages || numPages > MaxPages {
		return ErrInvalidPageBound("Run", numPages)
	}

	return nil
}
