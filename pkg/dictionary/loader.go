// Package dictionary reads word lists and feeds them to a trie, one
// insertion per token.
package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"fortio.org/safecast"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// maxTokenBuffer bounds a single whitespace token read from a text list.
const maxTokenBuffer = 1 << 20

// Loader resolves word list files and bulk loads their tokens.
type Loader struct {
	maxKey      int
	normalize   bool
	searchPaths []string
	log         *log.Logger
}

// Result summarizes one Load.
type Result struct {
	File     string
	Format   FileFormat
	Tokens   int // tokens read, counting repeats
	Distinct int // distinct tokens read
	Inserted int
	Skipped  int // too long or rejected by the trie
}

// NewLoader creates a loader dropping tokens longer than maxKey bytes.
// With normalize set, tokens are case and accent folded first.
func NewLoader(maxKey int, normalize bool, searchPaths []string) *Loader {
	return &Loader{
		maxKey:      maxKey,
		normalize:   normalize,
		searchPaths: searchPaths,
		log:         logger.New("dict"),
	}
}

// Normalize applies the loader's token policy to key.
func (l *Loader) Normalize(key string) string {
	if l.normalize {
		return utils.FoldToken(key)
	}
	return key
}

// Load inserts every token of filename into t. Only failures to find or
// read the file are errors; bad tokens are counted in Result.Skipped.
func (l *Loader) Load(t *trie.Trie, filename string) (Result, error) {
	res := Result{File: filename}
	path, err := utils.FindFile(filename, l.searchPaths)
	if err != nil {
		return res, fmt.Errorf("cannot open word list: %w", err)
	}
	res.File = path
	res.Format, err = DetectFileFormat(path)
	if err != nil {
		return res, err
	}
	file, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("cannot open word list: %w", err)
	}
	defer file.Close()

	var tokens iter.Seq[string]
	var readErr error
	switch res.Format {
	case FormatChunk:
		tokens = l.chunkTokens(bufio.NewReader(file), &readErr)
	default:
		tokens = textTokens(file, &readErr)
	}

	vocab := patricia.NewTrie()
	filtered := func(yield func(string) bool) {
		for tok := range tokens {
			res.Tokens++
			tok = l.Normalize(tok)
			if len(tok) > l.maxKey {
				l.log.Debugf("Skipping %d byte token, limit is %d", len(tok), l.maxKey)
				continue
			}
			if vocab.Insert(patricia.Prefix(tok), struct{}{}) {
				res.Distinct++
			}
			if !yield(tok) {
				return
			}
		}
	}
	inserted, insertErr := t.BulkLoad(filtered)
	res.Inserted = inserted
	res.Skipped = res.Tokens - inserted
	if insertErr != nil {
		l.log.Warnf("%s: %d tokens skipped: %v", path, res.Skipped, insertErr)
	}
	if readErr != nil {
		return res, fmt.Errorf("reading %s: %w", path, readErr)
	}
	l.log.Debug("Loaded word list", "file", path, "format", res.Format,
		"tokens", res.Tokens, "distinct", res.Distinct, "inserted", res.Inserted)
	return res, nil
}

// textTokens yields whitespace separated tokens of r.
func textTokens(r io.Reader, errp *error) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), maxTokenBuffer)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
		*errp = scanner.Err()
	}
}

// chunkTokens yields the words of a binary chunk; an entry with count n is
// yielded n times (at least once).
func (l *Loader) chunkTokens(r io.Reader, errp *error) iter.Seq[string] {
	return func(yield func(string) bool) {
		total, err := readChunkHeader(r)
		if err != nil {
			*errp = err
			return
		}
		for i := 0; i < total; i++ {
			word, count, err := readChunkEntry(r)
			if err != nil {
				if errors.Is(err, io.EOF) {
					l.log.Warnf("Chunk ended after %d of %d entries", i, total)
					return
				}
				*errp = err
				return
			}
			for range max(int(count), 1) {
				if !yield(word) {
					return
				}
			}
		}
	}
}

func readChunkEntry(r io.Reader) (string, uint16, error) {
	var wordLen uint16
	if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
		return "", 0, err
	}
	word := make([]byte, wordLen)
	if _, err := io.ReadFull(r, word); err != nil {
		return "", 0, fmt.Errorf("failed to read word: %w", err)
	}
	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return "", 0, fmt.Errorf("failed to read count: %w", err)
	}
	return string(word), count, nil
}

// WriteChunk encodes words and their counts in the binary chunk format.
func WriteChunk(w io.Writer, words []string, counts []uint16) error {
	if len(words) != len(counts) {
		return fmt.Errorf("%d words but %d counts", len(words), len(counts))
	}
	if len(words) > maxChunkEntries {
		return fmt.Errorf("too many entries: %d", len(words))
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for i, word := range words {
		wordLen, err := safecast.Convert[uint16](len(word))
		if err != nil {
			return fmt.Errorf("word %d: %w", i, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, wordLen); err != nil {
			return err
		}
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, counts[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
