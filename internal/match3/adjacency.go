package match3

// IsAdjacent reports whether cells a and b of a width×width board are legal
// swap partners: vertical neighbours (|a-b| == width) or horizontal
// neighbours in the same row. Self-adjacency and out-of-range indices are
// rejected.
func IsAdjacent(width, a, b int) bool {
	if width <= 0 {
		return false
	}
	size := width * width
	if a < 0 || b < 0 || a >= size || b >= size || a == b {
		return false
	}

	d := a - b
	if d < 0 {
		d = -d
	}
	if d == width {
		return true
	}
	// The last cell of a row and the first of the next are linearly adjacent
	// but not neighbours on the board.
	return d == 1 && a/width == b/width
}

// IsAdjacent reports whether a and b are legal swap partners on this grid.
func (g *Grid) IsAdjacent(a, b int) bool {
	return IsAdjacent(g.width, a, b)
}

// Neighbors returns the orthogonal neighbours of i in up, left, right, down order.
func Neighbors(width, i int) []int {
	candidates := [4]int{i - width, i - 1, i + 1, i + width}
	out := make([]int, 0, 4)
	for _, j := range candidates {
		if IsAdjacent(width, i, j) {
			out = append(out, j)
		}
	}
	return out
}
