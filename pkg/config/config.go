/*
Package config manages the TOML config for wordtrie.

The file is created with defaults on first use. A file that fails to decode
is salvaged section by section, and anything still missing falls back to the
built-in defaults:

	[trie]
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	normalize = false

	[protocol]
	max_key = 256
	max_filename = 1024

	[dict]
	search_paths = []

	[log]
	level = "warn"
*/
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

const appName = "wordtrie"

// Config holds the entire config structure
type Config struct {
	Trie     TrieConfig     `toml:"trie"`
	Protocol ProtocolConfig `toml:"protocol"`
	Dict     DictConfig     `toml:"dict"`
	Log      LogConfig      `toml:"log"`
}

// TrieConfig fixes the index alphabet. Normalize folds case and accents of
// loaded and inserted tokens before they reach the trie.
type TrieConfig struct {
	Alphabet  string `toml:"alphabet"`
	Normalize bool   `toml:"normalize"`
}

// ProtocolConfig bounds operand sizes accepted from the command stream.
type ProtocolConfig struct {
	MaxKey      int `toml:"max_key"`
	MaxFilename int `toml:"max_filename"`
}

// DictConfig lists directories searched by LOAD for relative file names.
type DictConfig struct {
	SearchPaths []string `toml:"search_paths"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Trie: TrieConfig{
			Alphabet:  trie.DefaultAlphabet,
			Normalize: false,
		},
		Protocol: ProtocolConfig{
			MaxKey:      256,
			MaxFilename: 1024,
		},
		Dict: DictConfig{
			SearchPaths: []string{},
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate rejects values the rest of the program cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := trie.NewAlphabet(c.Trie.Alphabet); err != nil {
		errs = append(errs, fmt.Errorf("trie.alphabet: %w", err))
	}
	if c.Protocol.MaxKey < 1 {
		errs = append(errs, fmt.Errorf("protocol.max_key must be positive, got %d", c.Protocol.MaxKey))
	}
	if c.Protocol.MaxFilename < 1 {
		errs = append(errs, fmt.Errorf("protocol.max_filename must be positive, got %d", c.Protocol.MaxFilename))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// GetConfigDir returns the config directory with fallback priority:
// 1. platform user config dir (XDG on Linux)
// 2. executable dir
func GetConfigDir() (string, error) {
	primary, err := utils.UserConfigDir(appName)
	if err == nil {
		if result := utils.CheckDirStatus(primary); result.Writable {
			return primary, nil
		}
	} else {
		log.Warnf("Failed to get user config directory: %v", err)
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag or WORDTRIE_CONFIG (created if missing)
// 2. Default path: [UserConfigDir]/wordtrie/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		config, err := InitConfig(customConfigPath)
		if err != nil {
			return nil, "", err
		}
		log.Debugf("Loaded config from custom path: %s", customConfigPath)
		return config, customConfigPath, nil
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load config at %s: %v. Using built-in defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates it with defaults if missing.
// Only an invalid result is an error; I/O trouble degrades to defaults.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}
	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return config, nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

// LoadConfig loads from a TOML file on top of the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed value it can find.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()
	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}
	if section, ok := utils.ExtractSection(raw, "trie"); ok {
		extractTrieConfig(section, &config.Trie)
	}
	if section, ok := utils.ExtractSection(raw, "protocol"); ok {
		extractProtocolConfig(section, &config.Protocol)
	}
	if section, ok := utils.ExtractSection(raw, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(raw, "log"); ok {
		extractLogConfig(section, &config.Log)
	}
	return config, nil
}

func extractTrieConfig(data map[string]any, c *TrieConfig) {
	if val, ok := utils.ExtractString(data, "alphabet"); ok {
		c.Alphabet = val
	}
	if val, ok := utils.ExtractBool(data, "normalize"); ok {
		c.Normalize = val
	}
}

func extractProtocolConfig(data map[string]any, c *ProtocolConfig) {
	if val, ok := utils.ExtractInt64(data, "max_key"); ok {
		c.MaxKey = val
	}
	if val, ok := utils.ExtractInt64(data, "max_filename"); ok {
		c.MaxFilename = val
	}
}

func extractDictConfig(data map[string]any, c *DictConfig) {
	if val, ok := utils.ExtractStrings(data, "search_paths"); ok {
		c.SearchPaths = val
	}
}

func extractLogConfig(data map[string]any, c *LogConfig) {
	if val, ok := utils.ExtractString(data, "level"); ok {
		c.Level = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
