// Package cli runs the command protocol: a stream of whitespace separated
// tokens read from stdin, dispatched to the trie, with results on stdout.
//
//	INSERT <key>
//	LOAD <filename>
//	REMOVE <key>
//	AUTOCORRECT <key> <max_mismatches>
//	AUTOCOMPLETE <prefix> <criterion 0..3>
//	STATS
//	EXIT
//
// Tokens are read like scanf's %s, so a command may span several lines.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"fortio.org/sets"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

// errExit stops Run without reporting a failure.
var errExit = errors.New("exit")

// Limits bounds operand lengths; longer operands drop the command.
type Limits struct {
	MaxKey      int
	MaxFilename int
}

// Session owns the trie for the lifetime of one command stream.
type Session struct {
	trie     *trie.Trie
	loader   *dictionary.Loader
	out      *output
	limits   Limits
	commands int
	unknown  sets.Set[string] // verbs already warned about
	log      *log.Logger
}

// command is a verb handler and the number of operands it takes. Operands
// are always consumed in full, so a rejected operand never shifts the
// token stream.
type command struct {
	arity int
	run   func(s *Session, args []string) error
}

var commands = map[string]command{
	"INSERT":       {1, (*Session).insert},
	"LOAD":         {1, (*Session).load},
	"REMOVE":       {1, (*Session).remove},
	"AUTOCORRECT":  {2, (*Session).autocorrect},
	"AUTOCOMPLETE": {2, (*Session).autocomplete},
	"STATS":        {0, (*Session).stats},
	"EXIT":         {0, func(*Session, []string) error { return errExit }},
}

// NewSession creates a session writing results to out.
func NewSession(t *trie.Trie, loader *dictionary.Loader, out io.Writer, limits Limits) *Session {
	return &Session{
		trie:    t,
		loader:  loader,
		out:     newOutput(out),
		limits:  limits,
		unknown: sets.New[string](),
		log:     logger.New("cli"),
	}
}

// Run processes commands from in until EXIT or end of input.
// Only read and write failures are returned.
func (s *Session) Run(in io.Reader) error {
	sc := newTokenScanner(in)
	for {
		verb, ok := sc.next()
		if !ok {
			break
		}
		cmd, known := commands[verb]
		if !known {
			if !s.unknown.Has(verb) {
				s.unknown.Add(verb)
				s.log.Warnf("Unknown command %q, skipping", verb)
			} else {
				s.log.Debugf("Unknown command %q, skipping", verb)
			}
			continue
		}
		s.commands++
		args, ok := sc.take(cmd.arity)
		if !ok {
			s.log.Warnf("Input ended in the middle of %s", verb)
			break
		}
		start := time.Now()
		err := cmd.run(s, args)
		s.log.Debugf("%s took [ %v ]", verb, time.Since(start))
		if flushErr := s.out.flush(); flushErr != nil {
			return fmt.Errorf("writing results: %w", flushErr)
		}
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			s.log.Error(err)
		}
	}
	if err := sc.err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

// Commands returns how many known commands were dispatched.
func (s *Session) Commands() int { return s.commands }

// operand enforces limit on an already consumed token.
func operand(tok, name string, limit int) (string, error) {
	if len(tok) > limit {
		return "", fmt.Errorf("%s of %d bytes exceeds limit %d", name, len(tok), limit)
	}
	return tok, nil
}

func (s *Session) key(tok string) (string, error) {
	key, err := operand(tok, "key", s.limits.MaxKey)
	if err != nil {
		return "", err
	}
	return s.loader.Normalize(key), nil
}

func (s *Session) insert(args []string) error {
	key, err := s.key(args[0])
	if err != nil {
		return err
	}
	if err := s.trie.Insert(key); err != nil {
		return fmt.Errorf("INSERT: %w", err)
	}
	return nil
}

func (s *Session) remove(args []string) error {
	key, err := s.key(args[0])
	if err != nil {
		return err
	}
	if !s.trie.Remove(key) {
		s.log.Debugf("REMOVE %q: not stored", key)
	}
	return nil
}

func (s *Session) load(args []string) error {
	name, err := operand(args[0], "filename", s.limits.MaxFilename)
	if err != nil {
		return err
	}
	res, err := s.loader.Load(s.trie, name)
	if err != nil {
		return fmt.Errorf("LOAD: %w", err)
	}
	s.log.Infof("Loaded %d of %d tokens from %s", res.Inserted, res.Tokens, res.File)
	return nil
}

func (s *Session) autocorrect(args []string) error {
	key, err := s.key(args[0])
	if err != nil {
		return err
	}
	budget, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("AUTOCORRECT %s: bad mismatch count %q", key, args[1])
	}
	found := s.trie.Autocorrect(key, budget, s.out.word)
	if found == 0 {
		s.out.noWords()
	}
	return nil
}

func (s *Session) autocomplete(args []string) error {
	prefix, err := s.key(args[0])
	if err != nil {
		return err
	}
	criterion, err := trie.ParseCriterion(args[1])
	if err != nil {
		return fmt.Errorf("AUTOCOMPLETE %s: %w", prefix, err)
	}
	for _, c := range s.trie.Autocomplete(prefix, criterion) {
		s.out.completion(c)
	}
	return nil
}

func (s *Session) stats([]string) error {
	s.out.stats(s.trie.Stats())
	return nil
}

// tokenScanner splits input on whitespace, one token per call.
type tokenScanner struct {
	sc *bufio.Scanner
}

func newTokenScanner(r io.Reader) *tokenScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	sc.Split(bufio.ScanWords)
	return &tokenScanner{sc: sc}
}

func (t *tokenScanner) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	return t.sc.Text(), true
}

// take reads the next n tokens; ok is false if the input ends first.
func (t *tokenScanner) take(n int) ([]string, bool) {
	args := make([]string, 0, n)
	for range n {
		tok, ok := t.next()
		if !ok {
			return nil, false
		}
		args = append(args, tok)
	}
	return args, true
}

func (t *tokenScanner) err() error { return t.sc.Err() }
