// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardObserverLevels(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityOff, &buf)
	obs.StartTiming("engine", "analyze", "stdin")(true, nil)
	assert.Empty(t, buf.String(), "successful operations are silent when off")

	obs.Warn("ner", "sidecar unreachable", "attempts", 3)
	assert.Contains(t, buf.String(), "sidecar unreachable")

	buf.Reset()
	obs = NewStandardObserver(ObservabilityMetrics, &buf)
	obs.LogOperation(StandardObservabilityData{
		Component: "engine",
		Operation: "analyze",
		Success:   true,
		SpanCount: 2,
		Metadata:  map[string]any{"recognizers": 3},
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "engine", record["component"])
	assert.Equal(t, float64(2), record["span_count"])
	assert.Equal(t, float64(3), record["recognizers"])
}

func TestStandardObserverFailureIsWarn(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityMetrics, &buf)
	obs.LogOperation(StandardObservabilityData{Component: "ner", Operation: "analyze", Error: "timeout"})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "timeout", record["error"])
}

func TestNopObserver(t *testing.T) {
	obs := NewNopObserver()
	obs.Error("engine", "dropped span")
	assert.Nil(t, obs.DebugObserver)
}

func TestDebugObserverSteps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)
	require.Same(t, d, d.StandardObserver.DebugObserver)

	done := d.StartStep("engine", "merge", "stdin")
	d.LogMetric("engine", "raw_spans", 4)
	done(true, "2 spans kept")

	out := buf.String()
	assert.Contains(t, out, "step started")
	assert.Contains(t, out, "step=merge")
	assert.Contains(t, out, "metric=raw_spans")
	assert.Contains(t, out, "step completed")
	assert.Equal(t, 3, strings.Count(out, "component=engine"))
}
