package match3

// Pair is an unordered pair of cells considered for a swap.
type Pair struct {
	A int
	B int
}

// FindMove returns the first swap (scanning indices ascending, right
// neighbour before down neighbour) that would produce a match.
// The grid is restored before returning.
func FindMove(g *Grid) (Pair, bool) {
	w := g.width
	for i := range g.Size() {
		for _, j := range [2]int{i + 1, i + w} {
			if !IsAdjacent(w, i, j) {
				continue
			}
			g.Swap(i, j)
			found := HasMatch(g)
			g.Swap(i, j)
			if found {
				return Pair{A: i, B: j}, true
			}
		}
	}
	return Pair{}, false
}

// HasAvailableMove reports whether any single legal swap would create a
// match. It leaves the grid unchanged.
func HasAvailableMove(g *Grid) bool {
	_, ok := FindMove(g)
	return ok
}

// CountMoves returns the number of distinct swaps that would produce a match.
func CountMoves(g *Grid) int {
	w := g.width
	n := 0
	for i := range g.Size() {
		for _, j := range [2]int{i + 1, i + w} {
			if !IsAdjacent(w, i, j) {
				continue
			}
			g.Swap(i, j)
			if HasMatch(g) {
				n++
			}
			g.Swap(i, j)
		}
	}
	return n
}
