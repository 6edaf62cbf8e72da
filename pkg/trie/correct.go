package trie

// Autocorrect reports, through visit, every stored word of the same length
// as key that differs from it in at most maxMismatches positions. Words are
// reported in depth-first, lowest-index-first order and the count is returned.
// A symbol of key outside the alphabet always costs one mismatch.
func (t *Trie) Autocorrect(key string, maxMismatches int, visit func(word string)) int {
	if t.root == nil || key == "" || maxMismatches < 0 {
		return 0
	}
	if visit == nil {
		visit = func(string) {}
	}
	c := corrector{
		t:     t,
		key:   key,
		word:  make([]byte, len(key)),
		visit: visit,
	}
	return c.walk(t.root, 0, maxMismatches)
}

// Corrections collects the words Autocorrect finds. A nil slice means none.
func (t *Trie) Corrections(key string, maxMismatches int) []string {
	var words []string
	t.Autocorrect(key, maxMismatches, func(w string) {
		words = append(words, w)
	})
	return words
}

type corrector struct {
	t     *Trie
	key   string
	word  []byte
	visit func(string)
}

func (c *corrector) walk(n *node, depth, budget int) int {
	remaining := len(c.key) - depth
	if remaining == 0 {
		if n.wordEnd {
			c.visit(string(c.word))
			return 1
		}
		return 0
	}
	// no word ends within the remaining depth
	if n.shortest > remaining {
		return 0
	}
	want, known := c.t.alphabet.Index(c.key[depth])
	found := 0
	for i, child := range n.children {
		if child == nil {
			continue
		}
		left := budget
		if !known || i != want {
			left--
		}
		if left < 0 {
			continue
		}
		c.word[depth] = c.t.alphabet.Symbol(i)
		found += c.walk(child, depth+1, left)
	}
	return found
}
