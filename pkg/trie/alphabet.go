package trie

import (
	"errors"
	"fmt"
)

// DefaultAlphabet is the lowercase latin alphabet used when nothing else is configured.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"

var (
	ErrInvalidAlphabet = errors.New("invalid alphabet")
	ErrUnknownSymbol   = errors.New("symbol not in alphabet")
)

// Alphabet is an ordered set of single-byte symbols. A symbol's position is
// the child slot it occupies in every node, and position order is the order
// used for lexicographic ranking.
type Alphabet struct {
	symbols string
	// pos holds position+1 for every member symbol, 0 otherwise.
	pos [128]uint8
}

// NewAlphabet validates symbols and builds the position table.
func NewAlphabet(symbols string) (Alphabet, error) {
	var a Alphabet
	if symbols == "" {
		return a, fmt.Errorf("%w: no symbols", ErrInvalidAlphabet)
	}
	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		if c >= 128 || c <= ' ' {
			return a, fmt.Errorf("%w: unsupported symbol %q at %d", ErrInvalidAlphabet, c, i)
		}
		if a.pos[c] != 0 {
			return a, fmt.Errorf("%w: duplicate symbol %q", ErrInvalidAlphabet, c)
		}
		a.pos[c] = uint8(i + 1)
	}
	a.symbols = symbols
	return a, nil
}

// MustAlphabet is NewAlphabet for constant inputs.
func MustAlphabet(symbols string) Alphabet {
	a, err := NewAlphabet(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Alphabet) Len() int       { return len(a.symbols) }
func (a Alphabet) String() string { return a.symbols }

// Symbol returns the symbol stored at position i.
func (a Alphabet) Symbol(i int) byte { return a.symbols[i] }

// Index returns the position of c, or false if c is not a member.
func (a Alphabet) Index(c byte) (int, bool) {
	if c >= 128 || a.pos[c] == 0 {
		return 0, false
	}
	return int(a.pos[c]) - 1, true
}

// Contains reports whether every byte of key belongs to the alphabet.
func (a Alphabet) Contains(key string) bool {
	for i := 0; i < len(key); i++ {
		if _, ok := a.Index(key[i]); !ok {
			return false
		}
	}
	return true
}

// encode maps key to child positions.
func (a Alphabet) encode(key string) ([]int, error) {
	path := make([]int, len(key))
	for i := 0; i < len(key); i++ {
		idx, ok := a.Index(key[i])
		if !ok {
			return nil, fmt.Errorf("%w: %q at offset %d of %q", ErrUnknownSymbol, key[i], i, key)
		}
		path[i] = idx
	}
	return path, nil
}
