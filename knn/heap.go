package knn

// neighbors is a max-heap keyed by (distance, rowid): the root is the
// worst candidate kept so far.
type neighbors []Row

func (h neighbors) Len() int { return len(h) }

func (h neighbors) Less(i, j int) bool { return worse(h[i], h[j]) }

func (h neighbors) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *neighbors) Push(x interface{}) {
	*h = append(*h, x.(Row))
}

func (h *neighbors) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// worse orders rows by descending distance, then descending rowid.
func worse(a, b Row) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.Rowid > b.Rowid
}
