package utils

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestFoldToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"cat", "cat"},
		{"Cat", "cat"},
		{"Café", "cafe"},
		{"NAÏVE", "naive"},
		{"über", "uber"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := FoldToken(tc.in); got != tc.want {
			t.Errorf("FoldToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	content := `
[trie]
alphabet = "abc"
normalize = true

[protocol]
max_key = 64

[dict]
search_paths = ["a", 3, "b"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	raw, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatal(err)
	}
	trie, ok := ExtractSection(raw, "trie")
	if !ok {
		t.Fatal("missing trie section")
	}
	if s, ok := ExtractString(trie, "alphabet"); !ok || s != "abc" {
		t.Errorf("alphabet = %q, %v", s, ok)
	}
	if b, ok := ExtractBool(trie, "normalize"); !ok || !b {
		t.Errorf("normalize = %v, %v", b, ok)
	}
	if _, ok := ExtractInt64(trie, "alphabet"); ok {
		t.Error("ExtractInt64 accepted a string")
	}
	proto, _ := ExtractSection(raw, "protocol")
	if n, ok := ExtractInt64(proto, "max_key"); !ok || n != 64 {
		t.Errorf("max_key = %d, %v", n, ok)
	}
	if _, ok := ExtractSection(raw, "missing"); ok {
		t.Error("found a missing section")
	}
}

func TestParseTOMLWithRecoveryMixedArray(t *testing.T) {
	raw := map[string]any{"search_paths": []any{"a", int64(3), "b"}}
	got, ok := ExtractStrings(raw, "search_paths")
	if !ok || !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("ExtractStrings = %v, %v", got, ok)
	}
	if _, ok := ExtractStrings(raw, "nope"); ok {
		t.Error("ExtractStrings found a missing key")
	}
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	name := "words.txt"
	if err := os.WriteFile(filepath.Join(other, name), []byte("cat"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FindFile(name, []string{dir, other})
	if err != nil || got != filepath.Join(other, name) {
		t.Errorf("FindFile = %q, %v", got, err)
	}
	if _, err := FindFile("absent.txt", []string{dir}); !IsNotFound(err) {
		t.Errorf("FindFile(absent) error = %v", err)
	}
	if _, err := FindFile(filepath.Join(dir, name), []string{other}); !IsNotFound(err) {
		t.Errorf("absolute names must not be searched: %v", err)
	}
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cfg")
	res := CheckDirStatus(dir)
	if !res.Exists || !res.Writable || res.Error != nil {
		t.Errorf("CheckDirStatus = %+v", res)
	}
	if FileExists(dir) {
		t.Error("FileExists reports a directory")
	}
}
