package match3

// Fall records a tile that dropped from one cell to another during collapse.
type Fall struct {
	From int
	To   int
}

// CollapseResult describes what Collapse changed.
type CollapseResult struct {
	Falls    []Fall
	Refilled []int
}

// Collapse applies gravity column by column: surviving tiles fall to the
// lowest empty cells below them keeping their relative order, then every
// remaining empty cell at the top is refilled from src (top to bottom).
// Columns never exchange tiles. Afterwards the grid has no Empty cells.
func Collapse(g *Grid, src SymbolSource) CollapseResult {
	var res CollapseResult
	w := g.width
	for col := range w {
		write := w - 1
		for row := w - 1; row >= 0; row-- {
			i := row*w + col
			s := g.cells[i]
			if s == Empty {
				continue
			}
			if row != write {
				to := write*w + col
				g.cells[to] = s
				g.cells[i] = Empty
				res.Falls = append(res.Falls, Fall{From: i, To: to})
			}
			write--
		}
		for row := 0; row <= write; row++ {
			i := row*w + col
			g.cells[i] = src.RandomSymbol()
			res.Refilled = append(res.Refilled, i)
		}
	}
	return res
}
