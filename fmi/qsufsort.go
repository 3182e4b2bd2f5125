package fmi

// qsufsort returns the suffix array of data by prefix doubling.
//
// After the round for depth h, rank[i] orders suffix i by its first h symbols,
// a suffix shorter than h sorting before any longer suffix it prefixes. Each round
// orders suffixes by the pair (rank[i], rank[i+h]) with one stable counting sort,
// so the whole construction runs in O(n log n).
func qsufsort(data []byte) []int {
	n := len(data)
	sa := sortedByFirstByte(data)
	if n < 2 {
		return sa
	}

	rank := make([]int, n)
	classes := 1
	for k := 1; k < n; k++ {
		if data[sa[k]] != data[sa[k-1]] {
			classes++
		}
		rank[sa[k]] = classes - 1
	}

	second := make([]int, n)
	next := make([]int, n)
	count := make([]int, n)
	for h := 1; classes < n; h *= 2 {
		// Order by the second half. Suffixes with no second half come first;
		// they are already distinguished by their first half.
		j := 0
		for i := n - h; i < n; i++ {
			second[j] = i
			j++
		}
		for _, s := range sa {
			if s >= h {
				second[j] = s - h
				j++
			}
		}

		// Stable counting sort by the first half.
		for c := 0; c < classes; c++ {
			count[c] = 0
		}
		for _, r := range rank {
			count[r]++
		}
		sum := 0
		for c := 0; c < classes; c++ {
			count[c], sum = sum, sum+count[c]
		}
		for _, s := range second {
			sa[count[rank[s]]] = s
			count[rank[s]]++
		}

		secondRank := func(i int) int {
			if i+h < n {
				return rank[i+h]
			}
			return -1
		}
		next[sa[0]] = 0
		classes = 1
		for k := 1; k < n; k++ {
			cur, prev := sa[k], sa[k-1]
			if rank[cur] != rank[prev] || secondRank(cur) != secondRank(prev) {
				classes++
			}
			next[cur] = classes - 1
		}
		rank, next = next, rank
	}
	return sa
}

// sortedByFirstByte buckets suffix positions by their first byte, keeping
// positions in increasing order within a bucket.
func sortedByFirstByte(data []byte) []int {
	var count [256]int
	for _, b := range data {
		count[b]++
	}
	sum := 0
	for b := range count {
		count[b], sum = sum, count[b]+sum
	}
	sa := make([]int, len(data))
	for i, b := range data {
		sa[count[b]] = i
		count[b]++
	}
	return sa
}
