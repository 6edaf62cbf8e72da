package server

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/vmihailenco/msgpack/v5"
)

func serve(t *testing.T, input []byte) ([]Response, *Server, error) {
	t.Helper()
	tr := trie.New(trie.MustAlphabet(trie.DefaultAlphabet))
	t.Cleanup(tr.Destroy)
	var out bytes.Buffer
	s := NewServer(tr, dictionary.NewLoader(32, false, nil), bytes.NewReader(input), &out, 32)
	runErr := s.Start()

	var responses []Response
	dec := msgpack.NewDecoder(&out)
	for {
		var resp Response
		if err := dec.Decode(&resp); err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("decoding response: %v", err)
			}
			break
		}
		responses = append(responses, resp)
	}
	return responses, s, runErr
}

func encode(t *testing.T, reqs ...Request) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, r := range reqs {
		if err := enc.Encode(&r); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestServerReadyFirst(t *testing.T) {
	responses, _, err := serve(t, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(responses) != 1 || responses[0].Status != StatusReady {
		t.Fatalf("responses = %+v, want a single ready message", responses)
	}
}

func TestServerOps(t *testing.T) {
	input := encode(t,
		Request{ID: "1", Op: "insert", Key: "cat"},
		Request{ID: "2", Op: "insert", Key: "car"},
		Request{ID: "3", Op: "insert", Key: "cart"},
		Request{ID: "4", Op: "insert", Key: "cat"},
		Request{ID: "5", Op: "complete", Key: "ca", Criterion: 0},
		Request{ID: "6", Op: "correct", Key: "cap", MaxMismatches: 1},
		Request{ID: "7", Op: "remove", Key: "car"},
		Request{ID: "8", Op: "stats"},
		Request{ID: "9", Op: "complete", Key: "do", Criterion: 1},
	)
	responses, s, err := serve(t, input)
	if err != nil {
		t.Fatal(err)
	}
	if len(responses) != 10 || s.Requests() != 9 {
		t.Fatalf("got %d responses for %d requests", len(responses), s.Requests())
	}
	for i, resp := range responses[1:] {
		if resp.Status != StatusOK {
			t.Errorf("response %d: %+v", i+1, resp)
		}
	}

	complete := responses[5]
	want := []CompletionResult{
		{Criterion: "lexicographic", Word: "car", Found: true},
		{Criterion: "shortest", Word: "car", Found: true},
		{Criterion: "most-frequent", Word: "cat", Found: true},
	}
	if complete.ID != "5" || !slices.Equal(complete.Completions, want) || complete.Count != 3 {
		t.Errorf("complete = %+v", complete)
	}

	correct := responses[6]
	if !slices.Equal(correct.Words, []string{"car", "cat"}) || correct.Count != 2 {
		t.Errorf("correct = %+v", correct)
	}
	if !responses[7].Removed {
		t.Errorf("remove = %+v", responses[7])
	}
	if st := responses[8].Stats; st == nil || st.Words != 2 || st.Nodes != 6 || st.AlphabetSize != 26 {
		t.Errorf("stats = %+v", st)
	}
	miss := responses[9]
	if len(miss.Completions) != 1 || miss.Completions[0].Found || miss.Count != 0 {
		t.Errorf("complete on missing prefix = %+v", miss)
	}
}

func TestServerErrors(t *testing.T) {
	input := encode(t,
		Request{ID: "a", Op: "frob"},
		Request{ID: "c", Op: "insert", Key: "Cat"},
		Request{ID: "d", Op: "complete", Key: "ca", Criterion: 9},
		Request{ID: "e", Op: "correct", Key: "ca", MaxMismatches: -1},
		Request{ID: "f", Op: "load", File: "/no/such/words.txt"},
		Request{ID: "g", Op: "insert", Key: "abcdefghijklmnopqrstuvwxyzabcdefghij"},
		Request{ID: "h", Op: "remove", Key: "dog"},
	)
	responses, s, err := serve(t, input)
	if err != nil {
		t.Fatal(err)
	}
	for _, resp := range responses[1 : len(responses)-1] {
		if resp.Status != StatusError || resp.Error == "" {
			t.Errorf("request %s: %+v, want an error", resp.ID, resp)
		}
	}
	last := responses[len(responses)-1]
	if last.ID != "h" || last.Status != StatusOK || last.Removed {
		t.Errorf("remove of absent key = %+v", last)
	}
	if s.trie.Stats().Words != 0 {
		t.Error("failed requests mutated the trie")
	}
}

func TestServerEmptyKeyIsIgnored(t *testing.T) {
	responses, s, err := serve(t, encode(t,
		Request{ID: "1", Op: "insert"},
		Request{ID: "2", Op: "remove"},
		Request{ID: "3", Op: "complete"},
		Request{ID: "4", Op: "correct", MaxMismatches: 1},
		Request{ID: "5", Op: "load"},
	))
	if err != nil {
		t.Fatal(err)
	}
	if len(responses) != 6 {
		t.Fatalf("got %d responses", len(responses))
	}
	for _, resp := range responses[1:] {
		if resp.Status != StatusOK || resp.Error != "" || resp.Count != 0 ||
			resp.Removed || len(resp.Completions) != 0 || len(resp.Words) != 0 || resp.Load != nil {
			t.Errorf("request %s: %+v, want an empty ok response", resp.ID, resp)
		}
	}
	if st := s.trie.Stats(); st.Nodes != 0 || st.Words != 0 {
		t.Errorf("empty key mutated the trie: %+v", st)
	}
}

func TestServerExit(t *testing.T) {
	input := encode(t,
		Request{ID: "1", Op: "insert", Key: "cat"},
		Request{ID: "2", Op: "exit"},
		Request{ID: "3", Op: "insert", Key: "dog"},
	)
	responses, s, err := serve(t, input)
	if err != nil {
		t.Fatal(err)
	}
	if len(responses) != 3 || responses[2].Status != StatusBye {
		t.Fatalf("responses = %+v", responses)
	}
	if s.trie.Contains("dog") {
		t.Error("request after exit was served")
	}
}

func TestServerLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("dog door dog"), 0o644); err != nil {
		t.Fatal(err)
	}
	responses, _, err := serve(t, encode(t,
		Request{ID: "1", Op: "load", File: path},
		Request{ID: "2", Op: "complete", Key: "do", Criterion: 3},
	))
	if err != nil {
		t.Fatal(err)
	}
	load := responses[1].Load
	if load == nil || load.Tokens != 3 || load.Inserted != 3 || load.Format != "Plain Text Word List" {
		t.Errorf("load = %+v", load)
	}
	if c := responses[2].Completions; len(c) != 1 || c[0].Word != "dog" {
		t.Errorf("complete = %+v", c)
	}
}

func TestServerGarbage(t *testing.T) {
	responses, _, err := serve(t, []byte{0xc1})
	if err == nil {
		t.Fatal("undecodable input did not end the server with an error")
	}
	if len(responses) != 2 || responses[1].Status != StatusError {
		t.Errorf("responses = %+v", responses)
	}
}
