// Package trie is the dictionary index: a fixed-alphabet trie whose nodes
// cache word frequency and the distance to the nearest word below them, so
// that ranking queries never need more than a single descent.
package trie

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

// infinity marks a subtree that holds no word.
const infinity = math.MaxInt

// maxBulkErrors caps how many rejected keys BulkLoad reports individually.
const maxBulkErrors = 8

type node struct {
	// frequency counts insertions of the key ending here; only meaningful when wordEnd is set.
	frequency int
	// shortest is the number of edges to the nearest word end in this subtree.
	shortest   int
	wordEnd    bool
	children   []*node
	childCount int
}

// empty reports whether n neither ends a word nor leads to one.
func (n *node) empty() bool {
	return n.childCount == 0 && !n.wordEnd
}

// updateShortest recomputes shortest from the immediate children's cached values.
func (n *node) updateShortest() {
	if n.wordEnd {
		n.shortest = 0
		return
	}
	n.shortest = infinity
	for _, c := range n.children {
		if c != nil && c.shortest != infinity && c.shortest+1 < n.shortest {
			n.shortest = c.shortest + 1
		}
	}
}

// Trie is not safe for concurrent use; callers serialize every operation.
type Trie struct {
	root     *node
	alphabet Alphabet
	nodes    int
	words    int
}

// Stats describes the current shape of a Trie.
type Stats struct {
	Nodes        int
	Words        int
	AlphabetSize int
}

// New returns an empty trie over alphabet. The root is created lazily by the first Insert.
func New(alphabet Alphabet) *Trie {
	return &Trie{alphabet: alphabet}
}

func (t *Trie) Alphabet() Alphabet { return t.alphabet }

func (t *Trie) newNode() *node {
	t.nodes++
	return &node{
		shortest: infinity,
		children: make([]*node, t.alphabet.Len()),
	}
}

// Insert adds one occurrence of key. An empty key is ignored; a key with a
// symbol outside the alphabet is rejected with ErrUnknownSymbol and leaves
// the trie untouched.
func (t *Trie) Insert(key string) error {
	if key == "" {
		return nil
	}
	path, err := t.alphabet.encode(key)
	if err != nil {
		return err
	}
	if t.root == nil {
		t.root = t.newNode()
	}
	n := t.root
	for i, idx := range path {
		if remaining := len(path) - i; n.shortest > remaining {
			n.shortest = remaining
		}
		child := n.children[idx]
		if child == nil {
			child = t.newNode()
			n.children[idx] = child
			n.childCount++
		}
		n = child
	}
	if !n.wordEnd {
		n.wordEnd = true
		t.words++
	}
	n.shortest = 0
	n.frequency++
	return nil
}

// Remove deletes key and prunes every node left without words below it.
// It reports whether key was stored; absent keys are a silent no-op.
func (t *Trie) Remove(key string) bool {
	if t.root == nil || key == "" {
		return false
	}
	path, err := t.alphabet.encode(key)
	if err != nil {
		return false
	}
	removed, _ := t.remove(t.root, path)
	if removed {
		t.words--
	}
	return removed
}

// remove returns whether a word ended at the terminal and whether n is now
// empty. The caller detaches empty children; the root is never detached.
func (t *Trie) remove(n *node, path []int) (removed, empty bool) {
	if len(path) == 0 {
		n.frequency = 0
		removed = n.wordEnd
		n.wordEnd = false
		n.updateShortest()
		return removed, n.empty()
	}
	if child := n.children[path[0]]; child != nil {
		var prune bool
		removed, prune = t.remove(child, path[1:])
		if prune {
			n.children[path[0]] = nil
			n.childCount--
			t.nodes--
		}
	}
	n.updateShortest()
	return removed, n.empty()
}

// find returns the node reached by consuming key, or nil.
func (t *Trie) find(key string) *node {
	n := t.root
	for i := 0; i < len(key) && n != nil; i++ {
		idx, ok := t.alphabet.Index(key[i])
		if !ok {
			return nil
		}
		n = n.children[idx]
	}
	return n
}

// Contains reports whether key was inserted and not removed since.
func (t *Trie) Contains(key string) bool {
	if key == "" {
		return false
	}
	n := t.find(key)
	return n != nil && n.wordEnd
}

// Frequency returns how many times key has been inserted, 0 if it is not stored.
func (t *Trie) Frequency(key string) int {
	if key == "" {
		return 0
	}
	if n := t.find(key); n != nil && n.wordEnd {
		return n.frequency
	}
	return 0
}

func (t *Trie) Stats() Stats {
	return Stats{
		Nodes:        t.nodes,
		Words:        t.words,
		AlphabetSize: t.alphabet.Len(),
	}
}

// BulkLoad inserts every key produced by keys, in order. Rejected keys are
// skipped; the returned error joins the first few rejections.
func (t *Trie) BulkLoad(keys iter.Seq[string]) (inserted int, err error) {
	var errs []error
	rejected := 0
	for key := range keys {
		if key == "" {
			continue
		}
		if ierr := t.Insert(key); ierr != nil {
			rejected++
			if len(errs) < maxBulkErrors {
				errs = append(errs, ierr)
			}
			continue
		}
		inserted++
	}
	if rejected > len(errs) {
		errs = append(errs, fmt.Errorf("%d more keys rejected", rejected-len(errs)))
	}
	return inserted, errors.Join(errs...)
}

// Destroy releases every node bottom-up. The trie is empty and reusable afterwards.
func (t *Trie) Destroy() {
	if t.root != nil {
		t.free(t.root)
		t.root = nil
	}
	t.words = 0
}

func (t *Trie) free(n *node) {
	for i, c := range n.children {
		if c != nil {
			t.free(c)
			n.children[i] = nil
		}
	}
	n.childCount = 0
	t.nodes--
}
