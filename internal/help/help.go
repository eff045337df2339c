// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// RecognizerInfo contains standardized information about a recognizer
type RecognizerInfo struct {
	Name                string        // Recognizer identifier (e.g., "tabular_name")
	ShortDescription    string        // Short description for the recognizers list
	DetailedDescription string        // What the recognizer does
	Patterns            []string      // Shapes the recognizer looks for
	ScoreFactors        []ScoreFactor // Fixed scores the recognizer assigns
	ConfigurationInfo   string        // How to configure the recognizer
	Examples            []string      // Usage examples
}

// ScoreFactor describes one source of a span score
type ScoreFactor struct {
	Name        string
	Description string
	Score       float64
}

// Provider defines the interface for help content providers
type Provider interface {
	GetRecognizerInfo() RecognizerInfo
}

// System manages help content for the application
type System struct {
	out       io.Writer
	providers map[string]Provider
	colors    map[string]*color.Color
}

// NewSystem creates a new help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	return &System{
		out:       out,
		providers: make(map[string]Provider),
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"error":    color.New(color.FgRed),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetRecognizerInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// Names returns the registered recognizer names in sorted order
func (h *System) Names() []string {
	names := make([]string, 0, len(h.providers))
	for _, p := range h.providers {
		names = append(names, p.GetRecognizerInfo().Name)
	}
	sort.Strings(names)
	return names
}

// ShowGeneralHelp displays usage information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Fprintln(h.out, "namescan - person name span detection for free and tabular text")
	fmt.Fprintln(h.out, "================================================================")
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "USAGE:")
	fmt.Fprintln(h.out, "  namescan [options] [file]   # reads stdin when file is omitted or '-'")
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "OPTIONS:")

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  -config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  -profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  -format\t<format>\tOutput format: text, json, yaml, csv (default: text)")
	fmt.Fprintln(w, "  -entities\t<kinds>\tEntity kinds to report, e.g. PERSON (default: all)")
	fmt.Fprintln(w, "  -names\t<names>\tComma-separated literal names to always detect")
	fmt.Fprintln(w, "  -min-score\t<score>\tDrop spans scoring below this value")
	fmt.Fprintln(w, "  -ner-url\t<url>\tBase URL of an NER sidecar exposing /analyze")
	fmt.Fprintln(w, "  -prose\t\tEnable the in-process statistical NER recognizer")
	fmt.Fprintln(w, "  -explain\t\tPrint the analysis report instead of spans")
	fmt.Fprintln(w, "  -show-match\t\tInclude matched text in output (otherwise [HIDDEN])")
	fmt.Fprintln(w, "  -verbose\t\tShow surrounding context for each span")
	fmt.Fprintln(w, "  -debug\t\tLog every analysis step to stderr")
	fmt.Fprintln(w, "  -no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  -list-recognizers\t\tList available recognizers")
	fmt.Fprintln(w, "  -help-recognizer\t<name>\tShow detailed help for one recognizer")
	fmt.Fprintln(w, "  -version\t\tShow version information")
	w.Flush()

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "EXAMPLES:")
	h.colors["example"].Fprintln(h.out, "  namescan customers.csv")
	h.colors["example"].Fprintln(h.out, "  namescan -format json -show-match report.pdf")
	h.colors["example"].Fprintln(h.out, "  cat notes.txt | namescan -names \"Ann Lee,Bo Chen\" -verbose")
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
	fmt.Fprintln(h.out, "  Project config: namescan.yaml or .namescan.yaml (in current directory)")
	fmt.Fprintln(h.out, "  User config: $XDG_CONFIG_HOME/namescan/config.yaml")
	fmt.Fprintln(h.out, "  Environment: NAMESCAN_NER_URL, NAMESCAN_NER_ENABLED, NAMESCAN_FORMAT (.env honored)")
}

// ShowRecognizersHelp lists every registered recognizer
func (h *System) ShowRecognizersHelp() {
	h.colors["title"].Fprintln(h.out, "Available Recognizers")
	fmt.Fprintln(h.out, "=====================")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  RECOGNIZER\tDESCRIPTION")
	fmt.Fprintln(w, "  ----------\t-----------")
	for _, name := range h.Names() {
		info := h.providers[strings.ToLower(name)].GetRecognizerInfo()
		fmt.Fprintf(w, "  %s\t%s\n", info.Name, info.ShortDescription)
	}
	w.Flush()
}

// ShowRecognizerHelp displays detailed help for one recognizer
func (h *System) ShowRecognizerHelp(name string) bool {
	provider, exists := h.providers[strings.ToLower(name)]
	if !exists {
		h.colors["error"].Fprintf(h.out, "Error: recognizer '%s' not found.\n", name)
		fmt.Fprintln(h.out, "Use 'namescan -list-recognizers' to see available recognizers.")
		return false
	}

	info := provider.GetRecognizerInfo()

	h.colors["title"].Fprintf(h.out, "%s Recognizer\n", info.Name)
	fmt.Fprintln(h.out, strings.Repeat("=", len(info.Name)+11))
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, info.DetailedDescription)
	fmt.Fprintln(h.out)

	if len(info.Patterns) > 0 {
		h.colors["header"].Fprintln(h.out, "PATTERNS DETECTED:")
		for _, pattern := range info.Patterns {
			fmt.Fprint(h.out, "  - ")
			h.colors["item"].Fprintln(h.out, pattern)
		}
		fmt.Fprintln(h.out)
	}

	if len(info.ScoreFactors) > 0 {
		h.colors["header"].Fprintln(h.out, "SCORES:")
		for _, factor := range info.ScoreFactors {
			fmt.Fprint(h.out, "  - ")
			h.colors["emphasis"].Fprintf(h.out, "%s ", factor.Name)
			fmt.Fprintf(h.out, "(%.2f): %s\n", factor.Score, factor.Description)
		}
		fmt.Fprintln(h.out)
	}

	if info.ConfigurationInfo != "" {
		h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
		fmt.Fprintln(h.out, info.ConfigurationInfo)
		fmt.Fprintln(h.out)
	}

	if len(info.Examples) > 0 {
		h.colors["header"].Fprintln(h.out, "EXAMPLES:")
		for _, example := range info.Examples {
			fmt.Fprint(h.out, "  ")
			h.colors["example"].Fprintln(h.out, example)
		}
	}

	return true
}
