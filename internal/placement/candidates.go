package placement

// Candidate is one legal move for the next item.
type Candidate struct {
	Position Position `json:"position"`
	Rotated  bool     `json:"rotated"`
}

// Candidates enumerates every legal (position, rotation) for item in state.
//
// The unrotated orientation is enumerated first and the rotated one only for
// non-square items. Within an orientation positions are row-major (y outer,
// x inner), so the result is deterministic for a given input.
func Candidates(state *SearchState, item Item) []Candidate {
	var out []Candidate
	for _, rotated := range orientations(item) {
		w, h := item.Width, item.Height
		if rotated {
			w, h = h, w
		}
		for y := 0; y <= state.areaHeight-h; y++ {
			for x := 0; x <= state.areaWidth-w; x++ {
				if state.grid.CanPlace(w, h, x, y) {
					out = append(out, Candidate{Position: Position{X: x, Y: y}, Rotated: rotated})
				}
			}
		}
	}
	return out
}

var (
	unrotatedOnly = []bool{false}
	bothWays      = []bool{false, true}
)

// orientations skips rotation for squares; it would only duplicate states.
func orientations(item Item) []bool {
	if item.IsSquare {
		return unrotatedOnly
	}
	return bothWays
}
