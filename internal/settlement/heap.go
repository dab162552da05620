package settlement

// entry pairs a user with the absolute amount they still have to settle.
type entry struct {
	userID string
	amount float64
}

// maxHeap is an array-backed binary max-heap over entry amounts, driven
// through container/heap. Ordering among equal amounts is unspecified.
type maxHeap []entry

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[i].amount > h[j].amount }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(entry)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
