package match3

import (
	"fmt"
	"math/rand"
)

// Alphabet is the set of symbols tiles are drawn from.
type Alphabet struct {
	symbols []Symbol
}

// NewAlphabet returns the alphabet of the first size symbols (A, B, C, ...).
func NewAlphabet(size int) (Alphabet, error) {
	if size < 1 || size > MaxSymbols {
		return Alphabet{}, fmt.Errorf("%w: alphabet size %d out of range 1..%d", ErrInvalidConfig, size, MaxSymbols)
	}
	symbols := make([]Symbol, size)
	for i := range symbols {
		symbols[i] = Symbol(i + 1)
	}
	return Alphabet{symbols: symbols}, nil
}

// Size returns the number of distinct symbols.
func (a Alphabet) Size() int {
	return len(a.symbols)
}

// Symbols returns a copy of the symbols.
func (a Alphabet) Symbols() []Symbol {
	out := make([]Symbol, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Contains reports whether s belongs to the alphabet.
func (a Alphabet) Contains(s Symbol) bool {
	for _, sym := range a.symbols {
		if sym == s {
			return true
		}
	}
	return false
}

// SymbolSource generates the symbols that refill the board.
type SymbolSource interface {
	RandomSymbol() Symbol
}

// RandSource draws uniformly from an alphabet using a seeded RNG.
type RandSource struct {
	rng      *rand.Rand
	alphabet Alphabet
}

// NewRandSource creates a source seeded with seed.
func NewRandSource(alphabet Alphabet, seed int64) *RandSource {
	return NewRandSourceFrom(rand.New(rand.NewSource(seed)), alphabet)
}

// NewRandSourceFrom creates a source that shares an existing RNG.
func NewRandSourceFrom(rng *rand.Rand, alphabet Alphabet) *RandSource {
	return &RandSource{rng: rng, alphabet: alphabet}
}

// RandomSymbol implements SymbolSource.
func (r *RandSource) RandomSymbol() Symbol {
	return r.alphabet.symbols[r.rng.Intn(len(r.alphabet.symbols))]
}

// Alphabet returns the alphabet the source draws from.
func (r *RandSource) Alphabet() Alphabet {
	return r.alphabet
}

// SequenceSource replays a fixed list of symbols, cycling when exhausted.
// Used for reproducible fixtures.
type SequenceSource struct {
	symbols []Symbol
	next    int
}

// NewSequenceSource creates a source over the given symbols.
// Panics if no symbols are given.
func NewSequenceSource(symbols ...Symbol) *SequenceSource {
	if len(symbols) == 0 {
		panic("match3: empty symbol sequence")
	}
	return &SequenceSource{symbols: symbols}
}

// RandomSymbol implements SymbolSource.
func (s *SequenceSource) RandomSymbol() Symbol {
	sym := s.symbols[s.next%len(s.symbols)]
	s.next++
	return sym
}

// Drawn returns how many symbols have been produced so far.
func (s *SequenceSource) Drawn() int {
	return s.next
}
