package simulator

// ReferenceString is an ordered sequence of page IDs to replay against a
// bounded resident set. Page IDs are small non-negative integers.
type ReferenceString []int

// Sanitize removes immediately-repeated page IDs from a reference string.
// A reference that repeats the currently-resident page can never fault, so
// runs of equal adjacent values collapse to their first element.
// Returns a new sequence; the input is not modified.
func Sanitize(ref ReferenceString) ReferenceString {
	clean := make(ReferenceString, 0, len(ref))

	for i, page := range ref {
		// Keep the first element of every maximal run of equal values
		if i == 0 || page != clean[len(clean)-1] {
			clean = append(clean, page)
		}
	}

	return clean
}

// Clone returns a copy of the reference string
func (ref ReferenceString) Clone() ReferenceString {
	cloned := make(ReferenceString, len(ref))
	copy(cloned, ref)
	return cloned
}

// Contains reports whether the reference string holds the given page ID
func (ref ReferenceString) Contains(page int) bool {
	for _, p := range ref {
		if p == page {
			return true
		}
	}
	return false
}
