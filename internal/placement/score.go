package placement

// FragmentationWeight scales the fragmentation penalty in Score.
const FragmentationWeight = 0.3

// Score rates a state; lower is better. It is
//
//	-(utilization - FragmentationWeight*fragmentation)
//
// and serves both as the heuristic and as the edge cost of the move that
// produced the state. Accumulated scores can therefore decrease along a path.
func Score(state *SearchState) float64 {
	return -(state.Utilization() - FragmentationWeight*Fragmentation(state.grid))
}

// Fragmentation is the fraction of cells that are empty and have no empty
// in-bounds 4-neighbour. A cell without any in-bounds neighbour counts as
// isolated. The whole grid is scanned on every call.
func Fragmentation(g Grid) float64 {
	if g.Size() == 0 {
		return 0
	}
	return float64(isolatedEmptyCells(g)) / float64(g.Size())
}

func isolatedEmptyCells(g Grid) int {
	isolated := 0
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.Occupied(x, y) {
				continue
			}
			if !hasEmptyNeighbour(g, x, y) {
				isolated++
			}
		}
	}
	return isolated
}

func hasEmptyNeighbour(g Grid, x, y int) bool {
	if x > 0 && !g.Occupied(x-1, y) {
		return true
	}
	if x < g.width-1 && !g.Occupied(x+1, y) {
		return true
	}
	if y > 0 && !g.Occupied(x, y-1) {
		return true
	}
	if y < g.height-1 && !g.Occupied(x, y+1) {
		return true
	}
	return false
}
