package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers msgpack requests against one trie.
type Server struct {
	trie     *trie.Trie
	loader   *dictionary.Loader
	maxKey   int
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
	out      *bufio.Writer
	requests int
	log      *log.Logger
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(t *trie.Trie, loader *dictionary.Loader, r io.Reader, w io.Writer, maxKey int) *Server {
	out := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(out)
	enc.SetOmitEmpty(true)
	return &Server{
		trie:   t,
		loader: loader,
		maxKey: maxKey,
		dec:    msgpack.NewDecoder(bufio.NewReader(r)),
		enc:    enc,
		out:    out,
		log:    logger.New("ipc"),
	}
}

// Start announces readiness and serves requests until the input ends or an
// exit request arrives.
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")
	if err := s.send(Response{Status: StatusReady}); err != nil {
		return err
	}
	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			_ = s.send(Response{Status: StatusError, Error: "invalid msgpack request"})
			return fmt.Errorf("decoding request: %w", err)
		}
		s.requests++
		resp, exit := s.handle(req)
		if err := s.send(resp); err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

// Requests returns how many requests were decoded.
func (s *Server) Requests() int { return s.requests }

func (s *Server) send(resp Response) error {
	if err := s.enc.Encode(&resp); err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (s *Server) handle(req Request) (Response, bool) {
	start := time.Now()
	resp := Response{ID: req.ID, Status: StatusOK}
	var err error
	exit := false
	switch req.Op {
	case "insert":
		err = s.insert(req)
	case "remove":
		err = s.remove(req, &resp)
	case "complete":
		err = s.complete(req, &resp)
	case "correct":
		err = s.correct(req, &resp)
	case "load":
		err = s.load(req, &resp)
	case "stats":
		st := s.trie.Stats()
		resp.Stats = &StatsResult{Nodes: st.Nodes, Words: st.Words, AlphabetSize: st.AlphabetSize}
	case "exit":
		resp.Status = StatusBye
		exit = true
	default:
		err = fmt.Errorf("unknown op %q", req.Op)
	}
	if err != nil {
		s.log.Debugf("Request %s failed: %v", req.ID, err)
		resp.Status = StatusError
		resp.Error = err.Error()
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp, exit
}

// key applies the length limit and normalization. An empty key is valid
// and yields an empty result from every op.
func (s *Server) key(req Request) (string, error) {
	if len(req.Key) > s.maxKey {
		return "", fmt.Errorf("key of %d bytes exceeds limit %d", len(req.Key), s.maxKey)
	}
	return s.loader.Normalize(req.Key), nil
}

func (s *Server) insert(req Request) error {
	key, err := s.key(req)
	if err != nil {
		return err
	}
	return s.trie.Insert(key)
}

func (s *Server) remove(req Request, resp *Response) error {
	key, err := s.key(req)
	if err != nil {
		return err
	}
	resp.Removed = s.trie.Remove(key)
	return nil
}

func (s *Server) complete(req Request, resp *Response) error {
	prefix, err := s.key(req)
	if err != nil {
		return err
	}
	c := trie.Criterion(req.Criterion)
	if !c.Valid() {
		return fmt.Errorf("%w: %d", trie.ErrUnknownCriterion, req.Criterion)
	}
	for _, r := range s.trie.Autocomplete(prefix, c) {
		resp.Completions = append(resp.Completions, CompletionResult{
			Criterion: r.Criterion.String(),
			Word:      r.Word,
			Found:     r.Found,
		})
		if r.Found {
			resp.Count++
		}
	}
	return nil
}

func (s *Server) correct(req Request, resp *Response) error {
	key, err := s.key(req)
	if err != nil {
		return err
	}
	if req.MaxMismatches < 0 {
		return fmt.Errorf("negative mismatch budget %d", req.MaxMismatches)
	}
	resp.Words = s.trie.Corrections(key, req.MaxMismatches)
	resp.Count = len(resp.Words)
	return nil
}

func (s *Server) load(req Request, resp *Response) error {
	if req.File == "" {
		return nil
	}
	res, err := s.loader.Load(s.trie, req.File)
	if err != nil {
		return err
	}
	resp.Load = &LoadResult{
		File:     res.File,
		Format:   res.Format.String(),
		Tokens:   res.Tokens,
		Inserted: res.Inserted,
		Skipped:  res.Skipped,
	}
	resp.Count = res.Inserted
	return nil
}
