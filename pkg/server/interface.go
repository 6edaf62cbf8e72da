/*
Package server implements msgpack IPC for the trie dictionary.

Clients write a stream of msgpack encoded requests to stdin and read one
msgpack encoded response per request from stdout. Before the first request
the server announces itself with a response whose status is "ready".

# IPC

Every request carries an ID, echoed back in its response, and an op:

	{"id": "1", "op": "insert", "k": "cat"}
	{"id": "2", "op": "remove", "k": "cat"}
	{"id": "3", "op": "complete", "k": "ca", "c": 0}
	{"id": "4", "op": "correct", "k": "cap", "m": 1}
	{"id": "5", "op": "load", "f": "words.txt"}
	{"id": "6", "op": "stats"}
	{"id": "7", "op": "exit"}

Criterion 0 asks for all three completions, 1 for the lexicographically
smallest, 2 for the shortest and 3 for the most frequent word.

A completion response lists one result per criterion:

	{"id": "3", "status": "ok", "s": [{"c": "lexicographic", "w": "car", "ok": true}], "t": 12}

Corrections come back as a word list in traversal order:

	{"id": "4", "status": "ok", "w": ["cat"], "n": 1, "t": 9}

Failed requests have status "error" and a message in "e". The stream keeps
going after a failed request; only an undecodable message ends it. An
empty key or file name is not a failure: the response is "ok" and empty.

TimeTaken is reported in microseconds.
*/
package server

// Request is a single client message.
type Request struct {
	ID            string `msgpack:"id"`
	Op            string `msgpack:"op"`
	Key           string `msgpack:"k,omitempty"`
	Criterion     int    `msgpack:"c,omitempty"`
	MaxMismatches int    `msgpack:"m,omitempty"`
	File          string `msgpack:"f,omitempty"`
}

// CompletionResult is the answer for one criterion.
type CompletionResult struct {
	Criterion string `msgpack:"c"`
	Word      string `msgpack:"w,omitempty"`
	Found     bool   `msgpack:"ok"`
}

// StatsResult mirrors trie.Stats.
type StatsResult struct {
	Nodes        int `msgpack:"nodes"`
	Words        int `msgpack:"words"`
	AlphabetSize int `msgpack:"alphabet"`
}

// LoadResult summarises a dictionary load.
type LoadResult struct {
	File     string `msgpack:"file"`
	Format   string `msgpack:"format"`
	Tokens   int    `msgpack:"tokens"`
	Inserted int    `msgpack:"inserted"`
	Skipped  int    `msgpack:"skipped"`
}

// Response answers exactly one Request.
type Response struct {
	ID          string             `msgpack:"id"`
	Status      string             `msgpack:"status"`
	Error       string             `msgpack:"e,omitempty"`
	Completions []CompletionResult `msgpack:"s,omitempty"`
	Words       []string           `msgpack:"w,omitempty"`
	Count       int                `msgpack:"n,omitempty"`
	Removed     bool               `msgpack:"removed,omitempty"`
	Stats       *StatsResult       `msgpack:"stats,omitempty"`
	Load        *LoadResult        `msgpack:"load,omitempty"`
	TimeTaken   int64              `msgpack:"t"`
}

// Response statuses.
const (
	StatusReady = "ready"
	StatusOK    = "ok"
	StatusError = "error"
	StatusBye   = "bye"
)
