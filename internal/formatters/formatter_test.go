// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"namescan/internal/detector"
	"namescan/internal/formatters"
	_ "namescan/internal/formatters/csv"
	"namescan/internal/formatters/shared"
	_ "namescan/internal/formatters/json"
	_ "namescan/internal/formatters/text"
	_ "namescan/internal/formatters/yaml"
)

func sampleResults() []formatters.Result {
	text := "Header\nCall Jane Doe today"
	return []formatters.Result{{
		Filename: "notes.txt",
		Text:     text,
		Spans: []detector.Span{{
			Start:   12,
			End:     20,
			Entity:  detector.EntityPerson,
			Score:   0.75,
			Source:  "pattern_name",
			Pattern: "standard_name",
		}},
	}}
}

func TestRegistryListsBuiltins(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "text", "yaml"}, formatters.List())

	_, err := formatters.Export("sarif", nil, formatters.FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available formats: csv, json, text, yaml")
}

func TestJSONHidesMatchByDefault(t *testing.T) {
	out, err := formatters.Export("json", sampleResults(), formatters.FormatterOptions{})
	require.NoError(t, err)

	var resp shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 1)
	got := resp.Results[0]
	assert.Equal(t, formatters.HiddenText, got.Text)
	assert.Equal(t, 12, got.Start)
	assert.Equal(t, 20, got.End)
	assert.Equal(t, "PERSON", got.EntityType)
	assert.Equal(t, 2, got.LineNumber)
	assert.Empty(t, got.FullLine)
}

func TestJSONVerboseWithMatch(t *testing.T) {
	out, err := formatters.Export("json", sampleResults(), formatters.FormatterOptions{Verbose: true, ShowMatch: true})
	require.NoError(t, err)

	var resp shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	got := resp.Results[0]
	assert.Equal(t, "Jane Doe", got.Text)
	assert.Equal(t, "Call Jane Doe today", got.FullLine)
	assert.Equal(t, "Call ", got.BeforeText)
	assert.Equal(t, " today", got.AfterText)
}

func TestJSONEmpty(t *testing.T) {
	out, err := formatters.Export("json", nil, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"results": []}`, out)
}

func TestYAMLMatchesJSONShape(t *testing.T) {
	out, err := formatters.Export("yaml", sampleResults(), formatters.FormatterOptions{ShowMatch: true})
	require.NoError(t, err)

	var resp shared.JSONResponse
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Jane Doe", resp.Results[0].Text)
	assert.Equal(t, "pattern_name", resp.Results[0].Source)

	empty, err := formatters.Export("yaml", nil, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "results: []\n", empty)
}

func TestCSVRows(t *testing.T) {
	out, err := formatters.Export("csv", sampleResults(), formatters.FormatterOptions{ShowMatch: true})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Filename,Page,Start,End,Entity,Score,Source,Line Number,Text", lines[0])
	assert.Equal(t, "notes.txt,0,12,20,PERSON,0.75,pattern_name,2,Jane Doe", lines[1])
}

func TestTextSummaryAndVerbose(t *testing.T) {
	opts := formatters.FormatterOptions{NoColor: true}

	out, err := formatters.Export("text", sampleResults(), opts)
	require.NoError(t, err)
	assert.Contains(t, out, "LEVEL")
	assert.Contains(t, out, "[MEDIUM]")
	assert.Contains(t, out, "[12,20)")
	assert.Contains(t, out, formatters.HiddenText)
	assert.NotContains(t, out, "Jane Doe")

	opts.Verbose = true
	opts.ShowMatch = true
	out, err = formatters.Export("text", sampleResults(), opts)
	require.NoError(t, err)
	assert.Contains(t, out, "=== Span Details ===")
	assert.Contains(t, out, "Name found in notes.txt on line 2: Jane Doe")
	assert.Contains(t, out, "Pattern: standard_name")
	assert.Contains(t, out, "  Call Jane Doe today")

	out, err = formatters.Export("text", nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "No names found.", out)
}
