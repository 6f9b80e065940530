package simulator

import (
	"math/rand"
)

// Generator produces random reference strings with no adjacent duplicates
// The random source is explicit and injectable so tests can seed it
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded with the given value
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewGeneratorFromSource creates a generator over an existing random source
func NewGeneratorFromSource(src rand.Source) *Generator {
	return &Generator{
		rng: rand.New(src),
	}
}

// Generate produces a reference string of the given size with every element
// drawn uniformly from [0, upperBound) and no two adjacent elements equal.
//
// size 0 returns an empty string. upperBound <= 0 can produce nothing and
// fails with ErrCodeInvalidRange. upperBound 1 cannot satisfy the adjacency
// constraint for size > 1 and also fails with ErrCodeInvalidRange; a single
// element string over one page is still satisfiable and allowed.
func (g *Generator) Generate(size, upperBound int) (ReferenceString, error) {
	if size == 0 {
		return ReferenceString{}, nil
	}

	if upperBound <= 0 {
		return nil, ErrInvalidRange("Generate", size, upperBound)
	}

	if upperBound == 1 && size > 1 {
		return nil, ErrInvalidRange("Generate", size, upperBound)
	}

	ref := make(ReferenceString, size)
	ref[0] = g.rng.Intn(upperBound)

	for i := 1; i < size; i++ {
		// Rejection sampling: redraw while the draw repeats its predecessor
		ref[i] = g.rng.Intn(upperBound)
		for ref[i] == ref[i-1] {
			ref[i] = g.rng.Intn(upperBound)
		}
	}

	return ref, nil
}
