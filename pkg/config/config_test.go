package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bastiangx/wordtrie/internal/utils"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !utils.FileExists(path) {
		t.Fatal("config file was not created")
	}
	if cfg.Protocol.MaxKey != 256 || cfg.Trie.Alphabet != "abcdefghijklmnopqrstuvwxyz" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	again, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Protocol != cfg.Protocol || again.Trie != cfg.Trie || again.Log != cfg.Log {
		t.Errorf("round trip changed config: %+v vs %+v", again, cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeFile(t, `
[trie]
alphabet = "abc"
normalize = true

[dict]
search_paths = ["/usr/share/dict"]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trie.Alphabet != "abc" || !cfg.Trie.Normalize {
		t.Errorf("trie section = %+v", cfg.Trie)
	}
	if cfg.Protocol.MaxKey != 256 {
		t.Errorf("omitted max_key = %d, want default", cfg.Protocol.MaxKey)
	}
	if !slices.Equal(cfg.Dict.SearchPaths, []string{"/usr/share/dict"}) {
		t.Errorf("search_paths = %v", cfg.Dict.SearchPaths)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// max_key has the wrong type, so the typed decode fails as a whole.
	path := writeFile(t, `
[trie]
alphabet = "xyz"

[protocol]
max_key = "big"
max_filename = 99

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trie.Alphabet != "xyz" {
		t.Errorf("alphabet = %q", cfg.Trie.Alphabet)
	}
	if cfg.Protocol.MaxKey != 256 || cfg.Protocol.MaxFilename != 99 {
		t.Errorf("protocol = %+v", cfg.Protocol)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadConfigGarbage(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "this is [not toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trie.Alphabet != DefaultConfig().Trie.Alphabet {
		t.Errorf("garbage did not fall back to defaults: %+v", cfg)
	}
}

func TestInitConfigRejectsInvalid(t *testing.T) {
	tests := []string{
		"[trie]\nalphabet = \"aa\"\n",
		"[protocol]\nmax_key = 0\n",
		"[log]\nlevel = \"loud\"\n",
	}
	for _, content := range tests {
		if _, err := InitConfig(writeFile(t, content)); err == nil {
			t.Errorf("InitConfig accepted %q", content)
		}
	}
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	cfg, used, err := LoadConfigWithPriority(path)
	if err != nil || used != path || cfg == nil {
		t.Fatalf("LoadConfigWithPriority = %v, %q, %v", cfg, used, err)
	}
	if GetActiveConfigPath("") != "builtin defaults" {
		t.Error("unexpected label for empty path")
	}
}
