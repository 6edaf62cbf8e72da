package trie

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrUnknownCriterion = errors.New("unknown criterion")

// Criterion selects how a completion is ranked.
type Criterion int

const (
	// All runs Lexicographic, Shortest and MostFrequent in that order.
	All Criterion = iota
	Lexicographic
	Shortest
	MostFrequent
)

var rankedCriteria = []Criterion{Lexicographic, Shortest, MostFrequent}

// ParseCriterion accepts the protocol's numeric form, 0 through 3.
func ParseCriterion(s string) (Criterion, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCriterion, s)
	}
	c := Criterion(v)
	if !c.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCriterion, v)
	}
	return c, nil
}

func (c Criterion) Valid() bool {
	return c >= All && c <= MostFrequent
}

func (c Criterion) String() string {
	switch c {
	case All:
		return "all"
	case Lexicographic:
		return "lexicographic"
	case Shortest:
		return "shortest"
	case MostFrequent:
		return "most-frequent"
	}
	return "criterion(" + strconv.Itoa(int(c)) + ")"
}

func (c Criterion) expand() []Criterion {
	switch {
	case c == All:
		return rankedCriteria
	case c.Valid():
		return []Criterion{c}
	}
	return nil
}

// Completion is the answer for one criterion. Found is false when the prefix
// is not in the trie, which is distinct from a match on the prefix itself.
type Completion struct {
	Criterion Criterion
	Word      string
	Found     bool
}

// Autocomplete resolves prefix once and ranks the words below it by c.
// An empty prefix or an invalid criterion yields no results.
func (t *Trie) Autocomplete(prefix string, c Criterion) []Completion {
	criteria := c.expand()
	if prefix == "" || criteria == nil {
		return nil
	}
	n := t.find(prefix)
	out := make([]Completion, 0, len(criteria))
	for _, cr := range criteria {
		res := Completion{Criterion: cr}
		if n != nil {
			var suffix []byte
			suffix, res.Found = t.complete(n, cr)
			res.Word = prefix + string(suffix)
		}
		out = append(out, res)
	}
	return out
}

func (t *Trie) complete(n *node, c Criterion) ([]byte, bool) {
	switch c {
	case Lexicographic:
		return t.descend(n, func(_, _ *node) bool { return true })
	case Shortest:
		return t.descend(n, func(parent, child *node) bool {
			return child.shortest == parent.shortest-1
		})
	case MostFrequent:
		return t.mostFrequent(n)
	}
	return nil, false
}

// descend follows, at every level, the lowest-index child accepted by pick
// until it reaches a word end.
func (t *Trie) descend(n *node, pick func(parent, child *node) bool) ([]byte, bool) {
	var suffix []byte
	for !n.wordEnd {
		next := -1
		for i, child := range n.children {
			if child != nil && pick(n, child) {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		suffix = append(suffix, t.alphabet.Symbol(next))
		n = n.children[next]
	}
	return suffix, true
}

// mostFrequent finds the highest frequency below n, then returns the first
// word carrying it in pre-order, lowest index first.
func (t *Trie) mostFrequent(n *node) ([]byte, bool) {
	maxFreq := maxFrequency(n)
	if maxFreq < 0 {
		return nil, false
	}
	return t.firstWithFrequency(n, maxFreq, nil)
}

func maxFrequency(n *node) int {
	best := -1
	if n.wordEnd {
		best = n.frequency
	}
	for _, c := range n.children {
		if c != nil {
			best = max(best, maxFrequency(c))
		}
	}
	return best
}

func (t *Trie) firstWithFrequency(n *node, freq int, suffix []byte) ([]byte, bool) {
	if n.wordEnd && n.frequency == freq {
		return suffix, true
	}
	for i, c := range n.children {
		if c == nil {
			continue
		}
		if found, ok := t.firstWithFrequency(c, freq, append(suffix, t.alphabet.Symbol(i))); ok {
			return found, true
		}
	}
	return nil, false
}
