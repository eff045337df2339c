// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namescan/internal/detector"
	"namescan/internal/resilience"
)

func fastRetry(n int) resilience.RetryConfig {
	return resilience.RetryConfig{MaxRetries: n, InitialInterval: time.Millisecond, Multiplier: 2.0}
}

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req analyzeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Jane Doe called", req.Text)
		assert.Equal(t, "en", req.Language)
		assert.Equal(t, []string{"PERSON"}, req.Entities)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"entity_type":"PERSON","start":0,"end":8,"score":0.85},{"entity_type":"location","start":9,"end":15,"score":0.4}]`))
	}))
	defer server.Close()

	client := New(server.URL + "/")
	spans, err := client.Analyze(context.Background(), "Jane Doe called")
	require.NoError(t, err)
	assert.Equal(t, []detector.Span{
		{Start: 0, End: 8, Entity: detector.EntityPerson, Score: 0.85, Source: RecognizerName, Pattern: "ner"},
		{Start: 9, End: 15, Entity: detector.EntityKind("LOCATION"), Score: 0.4, Source: RecognizerName, Pattern: "ner"},
	}, spans)
}

func TestAnalyzeConvertsCodePointOffsets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"entity_type":"PERSON","start":8,"end":16,"score":0.85},{"entity_type":"PERSON","start":12,"end":40,"score":0.85}]`))
	}))
	defer server.Close()

	text := "Zoë met Jane Doe"
	spans, err := New(server.URL).Analyze(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, 9, spans[0].Start)
	assert.Equal(t, 17, spans[0].End)
	assert.Equal(t, "Jane Doe", spans[0].Text(text))
	assert.NoError(t, detector.CheckSpan(text, spans[0]))
}

func TestByteOffsets(t *testing.T) {
	assert.Equal(t, []int{0}, byteOffsets(""))
	assert.Equal(t, []int{0, 1, 2, 4, 5}, byteOffsets("Zoë!"))
	assert.Equal(t, []int{0, 1, 2}, byteOffsets("\xffa"))
}

func TestAnalyzeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	spans, err := New(server.URL, WithRetry(fastRetry(2))).Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.Empty(t, spans)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAnalyzeDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "missing language", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := New(server.URL, WithRetry(fastRetry(3))).Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing language")
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnalyzeRejectsMalformedReply(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"not":"a list"`))
	}))
	defer server.Close()

	_, err := New(server.URL, WithRetry(fastRetry(3))).Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnalyzeOpensCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, WithRetry(fastRetry(0)))
	for i := 0; i < 4; i++ {
		_, err := client.Analyze(context.Background(), "page text")
		require.Error(t, err)
	}
	assert.Equal(t, int32(3), calls.Load(), "the fourth page must skip the sidecar")
	assert.Equal(t, resilience.StateOpen, client.breaker.GetState())
}

func TestAnalyzeHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL).Analyze(ctx, "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptions(t *testing.T) {
	client := New("http://ner:3000", WithTimeout(time.Second), WithEntities(detector.EntityPerson, "NRP"))
	assert.Equal(t, "http://ner:3000/analyze", client.url)
	assert.Equal(t, time.Second, client.http.Timeout)
	assert.Equal(t, []detector.EntityKind{detector.EntityPerson, "NRP"}, client.SupportedEntities())
	assert.Equal(t, "ner_sidecar", client.GetRecognizerInfo().Name)
}

func TestRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	assert.Nil(t, New(server.URL, WithRateLimit(0, 1)).limiter)

	client := New(server.URL, WithRateLimit(1, 1))
	require.NotNil(t, client.limiter)

	_, err := client.Analyze(context.Background(), "Jane Doe called")
	require.NoError(t, err)

	// The bucket is empty now; a second call cannot get a token before the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Analyze(ctx, "Jane Doe called")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
