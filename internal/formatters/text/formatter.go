// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"namescan/internal/detector"
	"namescan/internal/formatters"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors    map[string]*color.Color
	extractor *detector.ContextExtractor
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"blue":    color.New(color.FgBlue),
			"white":   color.New(color.FgWhite, color.Bold),
		},
		extractor: detector.NewContextExtractor(),
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and columns"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(results []formatters.Result, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	if formatters.SpanCount(results) == 0 {
		return "No names found.", nil
	}

	var builder strings.Builder
	if !options.Verbose {
		f.appendHeaders(&builder, results, options)
	}

	for _, r := range results {
		for _, span := range r.Spans {
			if options.Verbose {
				f.appendDetailedSpan(&builder, r, span, options)
				continue
			}
			f.appendSummaryLine(&builder, r, span, results, options)
		}
	}

	return builder.String(), nil
}

// scoreLevel buckets a score for coloring
func scoreLevel(score float64) string {
	switch {
	case score >= 0.85:
		return "HIGH"
	case score >= 0.7:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func (f *Formatter) levelColor(level string) *color.Color {
	switch level {
	case "HIGH":
		return f.colors["red"]
	case "MEDIUM":
		return f.colors["yellow"]
	default:
		return f.colors["green"]
	}
}

// paint applies c unless colors are disabled
func (f *Formatter) paint(c *color.Color, options formatters.FormatterOptions, format string, args ...any) string {
	if options.NoColor {
		return fmt.Sprintf(format, args...)
	}
	return c.Sprintf(format, args...)
}

// appendHeaders adds column headers to the string builder
func (f *Formatter) appendHeaders(builder *strings.Builder, results []formatters.Result, options formatters.FormatterOptions) {
	matchWidth := f.calculateMatchColumnWidth(results, options)
	builder.WriteString(f.paint(f.colors["white"], options, "%-8s %-14s %-8s %-6s %-10s %-13s %-*s %s\n",
		"LEVEL", "SOURCE", "ENTITY", "SCORE", "LINE", "SPAN", matchWidth, "MATCH", "FILE"))

	totalWidth := 8 + 1 + 14 + 1 + 8 + 1 + 6 + 1 + 10 + 1 + 13 + 1 + matchWidth + 1 + 10
	builder.WriteString(f.paint(f.colors["white"], options, "%s\n", strings.Repeat("-", totalWidth)))
}

// calculateMatchColumnWidth calculates the width of the match column
func (f *Formatter) calculateMatchColumnWidth(results []formatters.Result, options formatters.FormatterOptions) int {
	maxWidth := len(formatters.HiddenText)
	if !options.ShowMatch {
		return maxWidth
	}
	for _, r := range results {
		for _, span := range r.Spans {
			if n := runewidth.StringWidth(flatten(span.Text(r.Text))); n > maxWidth {
				maxWidth = n
			}
		}
	}
	// Cap at 30 characters for readability
	return min(maxWidth, 30)
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

// appendSummaryLine adds a single line summary to the string builder
func (f *Formatter) appendSummaryLine(builder *strings.Builder, r formatters.Result, span detector.Span, all []formatters.Result, options formatters.FormatterOptions) {
	level := scoreLevel(span.Score)
	info := f.extractor.ExtractContext(r.Text, span)

	source := string(span.Source)
	if len(source) > 14 {
		source = source[:11] + "..."
	}

	targetWidth := f.calculateMatchColumnWidth(all, options)
	// Display width, so wide scripts stay aligned
	matchText := runewidth.Truncate(flatten(formatters.MatchText(r, span, options)), targetWidth, "...")
	matchText = runewidth.FillRight(matchText, targetWidth)

	fmt.Fprintf(builder, "%s %s %s %s %s %s %s %s\n",
		f.paint(f.levelColor(level), options, "[%-6s]", level),
		f.paint(f.colors["green"], options, "%-14s", source),
		f.paint(f.colors["cyan"], options, "%-8s", span.Entity),
		f.paint(f.colors["blue"], options, "%6.2f", span.Score),
		f.paint(f.colors["magenta"], options, "line %5d", info.LineNumber),
		fmt.Sprintf("%-13s", fmt.Sprintf("[%d,%d)", span.Start, span.End)),
		matchText,
		f.paint(f.colors["white"], options, "%s", displayName(r)))
}

// appendDetailedSpan adds detailed span information to the string builder
func (f *Formatter) appendDetailedSpan(builder *strings.Builder, r formatters.Result, span detector.Span, options formatters.FormatterOptions) {
	level := scoreLevel(span.Score)
	info := f.extractor.ExtractContext(r.Text, span)

	builder.WriteString(f.paint(f.colors["white"], options, "=== Span Details ===\n"))
	fmt.Fprintf(builder, "%s %s on %s: %s\n",
		f.paint(f.colors["cyan"], options, "Name found in"),
		f.paint(f.colors["white"], options, "%s", displayName(r)),
		f.paint(f.colors["magenta"], options, "line %d", info.LineNumber),
		formatters.MatchText(r, span, options))
	fmt.Fprintf(builder, "%s [%d,%d)\n", f.paint(f.colors["cyan"], options, "Offsets:"), span.Start, span.End)
	fmt.Fprintf(builder, "%s %s\n", f.paint(f.colors["cyan"], options, "Entity:"), span.Entity)
	fmt.Fprintf(builder, "%s %s\n", f.paint(f.colors["cyan"], options, "Recognizer:"), span.Source)
	if span.Pattern != "" {
		fmt.Fprintf(builder, "%s %s\n", f.paint(f.colors["cyan"], options, "Pattern:"), span.Pattern)
	}
	fmt.Fprintf(builder, "%s %.2f %s\n",
		f.paint(f.colors["cyan"], options, "Score:"),
		span.Score,
		f.paint(f.levelColor(level), options, "(%s)", level))

	if options.ShowMatch {
		builder.WriteString(f.paint(f.colors["cyan"], options, "Context:\n"))
		fmt.Fprintf(builder, "  %s%s%s\n",
			info.BeforeText,
			f.paint(f.colors["red"], options, "%s", span.Text(r.Text)),
			info.AfterText)
	}
	builder.WriteString("\n")
}

func displayName(r formatters.Result) string {
	name := r.Filename
	if name == "" {
		name = "stdin"
	}
	if r.Page > 0 {
		return fmt.Sprintf("%s#%d", name, r.Page)
	}
	return name
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
