// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"namescan/internal/config"
	"namescan/internal/core"
	"namescan/internal/help"
	"namescan/internal/observability"
	"namescan/internal/preprocessors"
	"namescan/internal/version"

	"namescan/internal/formatters"
	_ "namescan/internal/formatters/csv"
	_ "namescan/internal/formatters/json"
	_ "namescan/internal/formatters/text"
	_ "namescan/internal/formatters/yaml"
)

// Exit codes
const (
	exitClean = 0
	exitFound = 1
	exitError = 2
)

// configFlags holds command line flag values
type configFlags struct {
	configFile      string
	profileName     string
	outputFormat    string
	entities        string
	names           string
	minScore        float64
	nerURL          string
	prose           bool
	explain         bool
	showMatch       bool
	verbose         bool
	debug           bool
	noColor         bool
	listRecognizers bool
	helpRecognizer  string
	showVersion     bool
}

func newFlagSet(flags *configFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("namescan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flags.configFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&flags.profileName, "profile", "", "Profile name to use from config file")
	fs.StringVar(&flags.outputFormat, "format", "", "Output format: text, json, yaml, csv (default: text)")
	fs.StringVar(&flags.entities, "entities", "", "Comma-separated entity kinds to report, or 'all'")
	fs.StringVar(&flags.names, "names", "", "Comma-separated literal names to always detect")
	fs.Float64Var(&flags.minScore, "min-score", 0, "Drop spans scoring below this value")
	fs.StringVar(&flags.nerURL, "ner-url", "", "Base URL of an NER sidecar exposing /analyze")
	fs.BoolVar(&flags.prose, "prose", false, "Enable the in-process statistical NER recognizer")
	fs.BoolVar(&flags.explain, "explain", false, "Print the analysis report instead of spans")
	fs.BoolVar(&flags.showMatch, "show-match", false, "Display the matched text (otherwise [HIDDEN])")
	fs.BoolVar(&flags.verbose, "verbose", false, "Display surrounding context for each span")
	fs.BoolVar(&flags.debug, "debug", false, "Log every analysis step to stderr")
	fs.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&flags.listRecognizers, "list-recognizers", false, "List available recognizers")
	fs.StringVar(&flags.helpRecognizer, "help-recognizer", "", "Show detailed help for one recognizer")
	fs.BoolVar(&flags.showVersion, "version", false, "Show version information")
	return fs
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// loadConfiguration loads the configuration file, then layers the
// environment, the profile and finally the command line on top
func loadConfiguration(fs *flag.FlagSet, flags *configFlags, stderr io.Writer) (*config.Config, error) {
	configPath := flags.configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if flags.configFile != "" {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
		cfg = config.Default()
	}

	if err := config.ApplyEnvironment(cfg, config.LoadEnvironment(".env")); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if flags.profileName != "" {
		if err := cfg.ApplyProfile(flags.profileName); err != nil {
			return nil, err
		}
	}

	applyFlags(fs, flags, cfg)
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides cfg with explicitly set flags
func applyFlags(fs *flag.FlagSet, flags *configFlags, cfg *config.Config) {
	if isFlagSet(fs, "format") && flags.outputFormat != "" {
		cfg.Defaults.Format = strings.ToLower(flags.outputFormat)
	}
	if isFlagSet(fs, "entities") {
		cfg.Defaults.Entities = splitList(flags.entities)
	}
	if isFlagSet(fs, "names") {
		cfg.Recognizers.Literal.Names = append(cfg.Recognizers.Literal.Names, splitList(flags.names)...)
	}
	if isFlagSet(fs, "min-score") {
		cfg.Defaults.MinScore = flags.minScore
	}
	if flags.nerURL != "" {
		cfg.Recognizers.NER.URL = flags.nerURL
		cfg.Recognizers.NER.Enabled = true
	}
	if isFlagSet(fs, "prose") {
		cfg.Recognizers.Prose.Enabled = flags.prose
	}
	cfg.Defaults.Verbose = cfg.Defaults.Verbose || flags.verbose
	cfg.Defaults.ShowMatch = cfg.Defaults.ShowMatch || flags.showMatch
	cfg.Defaults.NoColor = cfg.Defaults.NoColor || flags.noColor
	cfg.Defaults.Debug = cfg.Defaults.Debug || flags.debug
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// explainEntry is one chunk of -explain output
type explainEntry struct {
	File   string       `json:"file" yaml:"file"`
	Page   int          `json:"page,omitempty" yaml:"page,omitempty"`
	Report *core.Report `json:"report" yaml:"report"`
}

func formatExplain(format string, results []*core.ScanResult) (string, error) {
	var entries []explainEntry
	for _, r := range results {
		for _, c := range r.Chunks {
			entries = append(entries, explainEntry{File: r.Filename, Page: c.Page, Report: c.Report})
		}
	}

	if format == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		return string(data), err
	}
	data, err := yaml.Marshal(entries)
	return string(data), err
}

func toFormatterResults(results []*core.ScanResult) []formatters.Result {
	var out []formatters.Result
	for _, r := range results {
		for _, c := range r.Chunks {
			out = append(out, formatters.Result{
				Filename: r.Filename,
				Page:     c.Page,
				Text:     c.Text,
				Spans:    c.Spans,
			})
		}
	}
	return out
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := &configFlags{}
	fs := newFlagSet(flags, stderr)

	helpSystem := help.NewSystem(stdout, !isTerminal(stdout))
	for _, provider := range core.HelpProviders() {
		helpSystem.RegisterProvider(provider)
	}
	fs.Usage = helpSystem.ShowGeneralHelp

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitClean
		}
		return exitError
	}

	switch {
	case flags.showVersion:
		fmt.Fprintln(stdout, version.Info())
		return exitClean
	case flags.listRecognizers:
		helpSystem.ShowRecognizersHelp()
		return exitClean
	case flags.helpRecognizer != "":
		if !helpSystem.ShowRecognizerHelp(flags.helpRecognizer) {
			return exitError
		}
		return exitClean
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		if isTerminal(stdin) {
			helpSystem.ShowGeneralHelp()
			return exitError
		}
		inputs = []string{"-"}
	}

	cfg, err := loadConfiguration(fs, flags, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	observer := observability.NewStandardObserver(observability.ObservabilityOff, stderr)
	if cfg.Defaults.Debug {
		observer = observability.NewDebugObserver(stderr).StandardObserver
	}

	engine, err := core.NewEngineFromConfig(cfg, observer)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	scanner := core.NewScanner(engine, preprocessors.NewDefaultManager(observer))

	exitCode := exitClean
	var results []*core.ScanResult
	for _, input := range inputs {
		result, err := scanner.ScanFile(ctx, core.ScanConfig{
			FilePath: input,
			Input:    stdin,
			Explain:  flags.explain,
		})
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", input, err)
			exitCode = exitError
			if ctx.Err() != nil {
				return exitError
			}
			continue
		}
		results = append(results, result)
	}

	var output string
	if flags.explain {
		output, err = formatExplain(cfg.Defaults.Format, results)
	} else {
		output, err = formatters.Export(cfg.Defaults.Format, toFormatterResults(results), formatters.FormatterOptions{
			Verbose:   cfg.Defaults.Verbose,
			NoColor:   cfg.Defaults.NoColor || !isTerminal(stdout),
			ShowMatch: cfg.Defaults.ShowMatch,
		})
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error formatting output: %v\n", err)
		return exitError
	}
	fmt.Fprintln(stdout, strings.TrimRight(output, "\n"))

	if exitCode == exitClean && formatters.SpanCount(toFormatterResults(results)) > 0 {
		exitCode = exitFound
	}
	return exitCode
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
