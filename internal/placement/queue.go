package placement

import "container/heap"

// openEntry is a frontier element. seq is assigned at push time and strictly
// increases, so equal priorities pop in push order.
type openEntry struct {
	priority float64
	seq      uint64
	state    *SearchState
}

// openSet is a min-heap on (priority, seq).
type openSet []*openEntry

var _ heap.Interface = (*openSet)(nil)

func (o openSet) Len() int { return len(o) }

func (o openSet) Less(i, j int) bool {
	if o[i].priority != o[j].priority {
		return o[i].priority < o[j].priority
	}
	return o[i].seq < o[j].seq
}

func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

func (o *openSet) Push(x any) {
	*o = append(*o, x.(*openEntry))
}

func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return e
}
