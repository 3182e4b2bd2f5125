package search

// Segment is the half-open query interval [Start, End).
type Segment struct {
	Start, End int
}

func (s Segment) Len() int {
	return s.End - s.Start
}

// Segments partitions a query of length L into min(k+1, L) contiguous segments whose
// lengths differ by at most one. With at most k substitutions in the query, at least
// one segment occurs in the reference unchanged.
//
// L = 0 and negative k yield no segments.
func Segments(L, k int) []Segment {
	if L <= 0 || k < 0 {
		return nil
	}
	n := k + 1
	if n > L {
		n = L
	}
	segments := make([]Segment, n)
	for i := range segments {
		segments[i] = Segment{
			Start: L * i / n,
			End:   L * (i + 1) / n,
		}
	}
	return segments
}
