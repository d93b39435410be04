package segmentation

// AdaptiveSegmentIDs walks the gaps left to right and opens a new segment at
// gap i when sims[i-1] < threshold and the current segment already holds at
// least minSize sentences. The result has len(sims)+1 entries.
func AdaptiveSegmentIDs(sims []float64, threshold float64, minSize int) []int {
	n := len(sims) + 1
	segIDs := make([]int, n)
	cur, last := 0, 0
	for i := 1; i < n; i++ {
		if sims[i-1] < threshold && i-last >= minSize {
			cur++
			last = i
		}
		segIDs[i] = cur
	}
	return segIDs
}

// BoundariesToSegmentIDs converts ascending boundary positions into a
// non-decreasing segment id per index, skipping boundaries closer than
// minSize to the previous accepted one.
func BoundariesToSegmentIDs(boundaries []int, n, minSize int) []int {
	segIDs := make([]int, n)
	cur, last := 0, 0
	for _, b := range boundaries {
		if b <= 0 || b >= n || b-last < minSize {
			continue
		}
		cur++
		last = b
		for i := b; i < n; i++ {
			segIDs[i] = cur
		}
	}
	return segIDs
}

// ChangeBoundaries returns every i where labels[i] differs from labels[i-1].
func ChangeBoundaries(labels []int) []int {
	var out []int
	for i := 1; i < len(labels); i++ {
		if labels[i] != labels[i-1] {
			out = append(out, i)
		}
	}
	return out
}

// countBoundaries is the number of segment openings in segIDs.
func countBoundaries(segIDs []int) int {
	n := 0
	for i := 1; i < len(segIDs); i++ {
		if segIDs[i] != segIDs[i-1] {
			n++
		}
	}
	return n
}
