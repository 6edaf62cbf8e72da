// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Wordtrie keeps a dictionary of words in a trie and answers completion and
correction queries about it.

It reads whitespace separated commands from stdin and writes results to
stdout, one word per line. Logs go to stderr.

# Usage

	wordtrie < commands.txt

	INSERT cat
	INSERT car
	LOAD words.txt
	AUTOCOMPLETE ca 0
	AUTOCORRECT cap 1
	REMOVE car
	STATS
	EXIT

AUTOCOMPLETE takes a criterion: 1 picks the lexicographically smallest
completion, 2 the one with the shortest suffix, 3 the most frequent one and
0 prints all three in that order. AUTOCORRECT prints every stored word of
the same length within the given number of mismatching positions. A query
without an answer prints "No words found".

With -ipc the same operations are served as msgpack messages instead, see
package server.

# Configuration

The TOML config is created with defaults on first run:

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

WORDTRIE_CONFIG, WORDTRIE_ALPHABET and WORDTRIE_LOG_LEVEL override the
file; flags override both. Run with -env-help to print them.

# Command Line Flags

	-config string
	    Path to the config file
	-alphabet string
	    Symbols accepted in keys, in index order
	-ipc
	    Serve msgpack requests instead of text commands
	-d  Enable debug logging
	-version
	    Show current version
	-env-help
	    Show supported environment variables
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fortio.org/struct2env"
	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version   = "0.3.0"
	AppName   = "wordtrie"
	envPrefix = "WORDTRIE_"
	gh        = "https://github.com/bastiangx/wordtrie"
)

// Env lists the settings read from WORDTRIE_* variables.
type Env struct {
	Config   string
	Alphabet string
	LogLevel string
}

var env = Env{}

// EnvHelp prints the supported environment variables as shell exports.
func EnvHelp(w io.Writer) {
	res, _ := struct2env.StructToEnvVars(env)
	str := struct2env.ToShellWithPrefix(envPrefix, res, true)
	fmt.Fprintln(w, "# Wordtrie environment variables:")
	fmt.Fprint(w, str)
}

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()
	os.Exit(Main())
}

// Main wires config, trie and the selected front end, and returns the exit code.
func Main() int {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)

	configPath := flag.String("config", "", "Path to the config `file` (default: user config dir)")
	alphabet := flag.String("alphabet", "", "Symbols accepted in keys, in index order (default from config)")
	ipcMode := flag.Bool("ipc", false, "Serve msgpack requests on stdin/stdout instead of text commands")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	showVersion := flag.Bool("version", false, "Show current version")
	envHelp := flag.Bool("env-help", false, "Show supported environment variables")
	flag.Parse()

	if errs := struct2env.SetFromEnv(envPrefix, &env); len(errs) > 0 {
		log.Errorf("Error setting config from env: %v", errs)
	}

	if *showVersion {
		printVersion()
		return 0
	}
	if *envHelp {
		EnvHelp(os.Stdout)
		return 0
	}
	if flag.NArg() > 0 {
		log.Errorf("Unexpected arguments %q; commands are read from stdin", flag.Args())
		return 1
	}

	if *configPath == "" {
		*configPath = env.Config
	}
	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		return 1
	}

	level := cfg.Log.Level
	if env.LogLevel != "" {
		level = env.LogLevel
	}
	if *debugMode {
		level = "debug"
	}
	if _, err := logger.SetLevel(level); err != nil {
		log.Errorf("Bad log level %q: %v", level, err)
		return 1
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(activePath))

	symbols := cfg.Trie.Alphabet
	if env.Alphabet != "" {
		symbols = env.Alphabet
	}
	if *alphabet != "" {
		symbols = *alphabet
	}
	abc, err := trie.NewAlphabet(symbols)
	if err != nil {
		log.Errorf("Cannot use alphabet %q: %v", symbols, err)
		return 1
	}

	t := trie.New(abc)
	defer t.Destroy()
	loader := dictionary.NewLoader(cfg.Protocol.MaxKey, cfg.Trie.Normalize, cfg.Dict.SearchPaths)

	if *ipcMode {
		log.Debug("spawning IPC")
		srv := server.NewServer(t, loader, os.Stdin, os.Stdout, cfg.Protocol.MaxKey)
		showStartupInfo(abc)
		if err := srv.Start(); err != nil {
			log.Errorf("Server error: %v", err)
			return 1
		}
		return 0
	}

	session := cli.NewSession(t, loader, os.Stdout, cli.Limits{
		MaxKey:      cfg.Protocol.MaxKey,
		MaxFilename: cfg.Protocol.MaxFilename,
	})
	if err := session.Run(os.Stdin); err != nil {
		log.Errorf("CLI error: %v", err)
		return 1
	}
	log.Debug("Session done", "commands", session.Commands(), "words", t.Stats().Words)
	return 0
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ Wordtrie ] Trie backed completion and correction")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo logs what the IPC client is talking to.
func showStartupInfo(abc trie.Alphabet) {
	log.Debugf("Version: %s", Version)
	log.Debugf("Process ID: [ %d ]", os.Getpid())
	log.Debugf("alphabet: ( %s )", abc)
	log.Debug("status: ready")
}
