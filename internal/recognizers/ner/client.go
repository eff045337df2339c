// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ner adapts an external entity-recognition sidecar to the
// detector.Recognizer interface. The sidecar exposes POST /analyze taking
// {"text", "language", "entities"} and answering with a list of
// {"entity_type", "start", "end", "score"} results. Result offsets count
// code points and are converted to byte offsets before spans are built.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"namescan/internal/detector"
	"namescan/internal/observability"
	"namescan/internal/resilience"
)

// RecognizerName identifies spans produced by the sidecar
const RecognizerName detector.RecognizerID = "ner_sidecar"

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Client calls the sidecar's /analyze endpoint. It is safe for concurrent use.
type Client struct {
	url      string
	http     *http.Client
	entities []detector.EntityKind
	language string
	retry    resilience.RetryConfig
	breaker  *resilience.CircuitBreaker
	limiter  *rate.Limiter
	observer *observability.StandardObserver
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetry sets the retry policy for transient failures
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithEntities sets the entity kinds requested from the sidecar
func WithEntities(kinds ...detector.EntityKind) Option {
	return func(c *Client) {
		if len(kinds) > 0 {
			c.entities = kinds
		}
	}
}

// WithRateLimit caps requests per second sent to the sidecar, retries
// included. A non-positive rps leaves calls unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithObserver sets where degraded calls are reported
func WithObserver(o *observability.StandardObserver) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a Client for the sidecar at baseURL (e.g. "http://ner:3000")
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		url:      strings.TrimRight(baseURL, "/") + "/analyze",
		http:     &http.Client{Timeout: defaultTimeout},
		entities: []detector.EntityKind{detector.EntityPerson},
		language: "en",
		retry:    resilience.SidecarRetryConfig(2),
		observer: observability.NewNopObserver(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cbConfig := resilience.DefaultCircuitBreakerConfig(string(RecognizerName))
	cbConfig.OnStateChange = func(name string, from, to resilience.CircuitBreakerState) {
		c.observer.Warn(name, "circuit breaker state changed", "from", from.String(), "to", to.String())
	}
	c.breaker = resilience.NewCircuitBreaker(cbConfig)
	return c
}

func (c *Client) Name() detector.RecognizerID {
	return RecognizerName
}

func (c *Client) SupportedEntities() []detector.EntityKind {
	return c.entities
}

type analyzeRequest struct {
	Text     string   `json:"text"`
	Language string   `json:"language"`
	Entities []string `json:"entities,omitempty"`
}

type analyzeResult struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"`
}

// Analyze sends text to the sidecar. Transient failures are retried; the
// error returned after that lets the caller skip this recognizer.
func (c *Client) Analyze(ctx context.Context, text string) ([]detector.Span, error) {
	body, err := json.Marshal(analyzeRequest{
		Text:     text,
		Language: c.language,
		Entities: c.entityNames(),
	})
	if err != nil {
		return nil, fmt.Errorf("ner: marshal: %w", err)
	}

	results, err := resilience.RetryWithResult(ctx, c.retry, func(ctx context.Context) ([]analyzeResult, error) {
		var out []analyzeResult
		err := c.breaker.Execute(ctx, func(ctx context.Context) error {
			var callErr error
			out, callErr = c.call(ctx, body)
			return callErr
		})
		return out, err
	})
	if err != nil {
		return nil, fmt.Errorf("ner: analyze via %s: %w", c.url, err)
	}

	offsets := byteOffsets(text)
	spans := make([]detector.Span, 0, len(results))
	for _, r := range results {
		// Skip empty results and those outside the text
		if r.Start < 0 || r.End <= r.Start || r.End >= len(offsets) {
			continue
		}
		spans = append(spans, detector.Span{
			Start:   offsets[r.Start],
			End:     offsets[r.End],
			Entity:  detector.ParseEntityKind(r.EntityType),
			Score:   r.Score,
			Source:  RecognizerName,
			Pattern: "ner",
		})
	}
	return spans, nil
}

func (c *Client) call(ctx context.Context, body []byte) ([]analyzeResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, resilience.NewPermanentError("ner: rate limit", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, resilience.NewPermanentError("ner: request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &resilience.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var results []analyzeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, resilience.NewPermanentError(fmt.Sprintf("ner: decode: %v", err), err)
	}
	return results, nil
}

// byteOffsets maps each code point index of text, plus the end, to its byte offset
func byteOffsets(text string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := 0; i < len(text); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return append(offsets, len(text))
}

func (c *Client) entityNames() []string {
	names := make([]string, len(c.entities))
	for i, e := range c.entities {
		names[i] = string(e)
	}
	return names
}
