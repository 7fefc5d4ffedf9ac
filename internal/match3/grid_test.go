package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGridRoundTrip(t *testing.T) {
	rows := []string{"AB.", "CAB", "BCA"}
	g, err := ParseGrid(rows...)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 9, g.Size())
	assert.Equal(t, Symbol(1), g.Get(0))
	assert.Equal(t, Empty, g.Get(2))
	assert.Equal(t, rows, g.Rows())
	assert.True(t, g.HasEmpty())
}

func TestParseGridRejectsMalformedInput(t *testing.T) {
	_, err := ParseGrid("AB", "ABC")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseGrid("A1", "BB")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseGrid()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGridIndexing(t *testing.T) {
	g := NewGrid(8)
	for i := range g.Size() {
		assert.Equal(t, i, g.Index(g.Row(i), g.Col(i)))
	}
	assert.False(t, g.InRange(-1))
	assert.False(t, g.InRange(64))
	assert.True(t, g.InRange(63))
}

func TestGridCloneIsIndependent(t *testing.T) {
	g := MustParseGrid("ABC", "BCA", "CAB")
	c := g.Clone()
	require.True(t, g.Equal(c))

	c.Set(0, 3)
	assert.False(t, g.Equal(c))
	assert.Equal(t, Symbol(1), g.Get(0))
}

func TestNewAlphabet(t *testing.T) {
	a, err := NewAlphabet(6)
	require.NoError(t, err)
	assert.Equal(t, 6, a.Size())
	assert.True(t, a.Contains(6))
	assert.False(t, a.Contains(7))
	assert.False(t, a.Contains(Empty))

	_, err = NewAlphabet(0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewAlphabet(27)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRandSourceStaysInAlphabet(t *testing.T) {
	a, err := NewAlphabet(4)
	require.NoError(t, err)
	src := NewRandSource(a, 7)
	for range 500 {
		assert.True(t, a.Contains(src.RandomSymbol()))
	}
}

func TestSequenceSourceCycles(t *testing.T) {
	src := NewSequenceSource(1, 2, 3)
	got := []Symbol{src.RandomSymbol(), src.RandomSymbol(), src.RandomSymbol(), src.RandomSymbol()}
	assert.Equal(t, []Symbol{1, 2, 3, 1}, got)
	assert.Equal(t, 4, src.Drawn())
}
