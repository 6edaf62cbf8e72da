package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bastiangx/wordtrie/pkg/trie"
)

// NoWordsFound is printed for every query without an answer.
const NoWordsFound = "No words found"

// output buffers protocol results; Session flushes it after every command.
type output struct {
	w   *bufio.Writer
	err error
}

func newOutput(w io.Writer) *output {
	return &output{w: bufio.NewWriter(w)}
}

func (o *output) line(s string) {
	if o.err != nil {
		return
	}
	if _, err := o.w.WriteString(s); err != nil {
		o.err = err
		return
	}
	o.err = o.w.WriteByte('\n')
}

func (o *output) word(w string) { o.line(w) }

func (o *output) noWords() { o.line(NoWordsFound) }

func (o *output) completion(c trie.Completion) {
	if !c.Found {
		o.noWords()
		return
	}
	o.line(c.Word)
}

func (o *output) stats(st trie.Stats) {
	o.line(fmt.Sprintf("nodes %d words %d alphabet %d", st.Nodes, st.Words, st.AlphabetSize))
}

func (o *output) flush() error {
	if o.err != nil {
		return o.err
	}
	return o.w.Flush()
}
