package match3

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatchesRowAndColumn(t *testing.T) {
	g := MustParseGrid(
		"AAAB",
		"BCDA",
		"BDCA",
		"BCDC",
	)
	groups := FindMatches(g, PolicyMaximalRuns)
	require.Len(t, groups, 2)

	assert.Equal(t, AxisRow, groups[0].Axis)
	assert.Equal(t, []int{0, 1, 2}, groups[0].Indices)
	assert.Equal(t, Symbol(1), groups[0].Symbol)

	assert.Equal(t, AxisColumn, groups[1].Axis)
	assert.Equal(t, []int{4, 8, 12}, groups[1].Indices)
}

func TestFindMatchesNone(t *testing.T) {
	g := MustParseGrid(
		"ABCD",
		"CDAB",
		"ABCD",
		"CDAB",
	)
	assert.Empty(t, FindMatches(g, PolicyMaximalRuns))
	assert.Empty(t, FindMatches(g, PolicyWindows))
	assert.False(t, HasMatch(g))
}

func TestFindMatchesIgnoresEmpty(t *testing.T) {
	g := MustParseGrid(
		"...A",
		"BCDA",
		"BDCB",
		"CCDC",
	)
	assert.Empty(t, FindMatches(g, PolicyMaximalRuns))
	assert.False(t, HasMatch(g))
}

func TestPoliciesShareClearSet(t *testing.T) {
	g := MustParseGrid(
		"AAAAA",
		"BCDEB",
		"CDEBC",
		"DEBCD",
		"EBCDE",
	)
	maximal := FindMatches(g, PolicyMaximalRuns)
	windows := FindMatches(g, PolicyWindows)

	require.Len(t, maximal, 1)
	assert.Equal(t, 5, maximal[0].Len())
	// two windows of four, three windows of three
	assert.Len(t, windows, 5)
	assert.Equal(t, ClearSet(maximal), ClearSet(windows))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ClearSet(windows))
}

func TestClearSetDeduplicatesCrossings(t *testing.T) {
	g := MustParseGrid(
		"ABAC",
		"BBBD",
		"CBDA",
		"DCAB",
	)
	groups := FindMatches(g, PolicyMaximalRuns)
	require.Len(t, groups, 2)
	assert.Equal(t, []int{1, 4, 5, 6, 9}, ClearSet(groups))
}

// Every reported index must lie on a run of at least MinRun equal
// non-empty symbols.
func TestFindMatchesSoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 200 {
		g := randomGrid(rng, 6, 3)
		for _, grp := range FindMatches(g, PolicyMaximalRuns) {
			require.GreaterOrEqual(t, grp.Len(), MinRun)
			for _, i := range grp.Indices {
				assert.Equal(t, grp.Symbol, g.Get(i))
				assert.NotEqual(t, Empty, g.Get(i))
			}
		}
		assert.Equal(t, len(FindMatches(g, PolicyMaximalRuns)) > 0, HasMatch(g))
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("windows")
	require.NoError(t, err)
	assert.Equal(t, PolicyWindows, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyMaximalRuns, p)

	_, err = ParsePolicy("diagonal")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func randomGrid(rng *rand.Rand, width, symbols int) *Grid {
	g := NewGrid(width)
	for i := range g.Size() {
		g.Set(i, Symbol(rng.Intn(symbols)+1))
	}
	return g
}
