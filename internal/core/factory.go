// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"

	"namescan/internal/config"
	"namescan/internal/detector"
	"namescan/internal/help"
	"namescan/internal/observability"
	"namescan/internal/recognizers/literal"
	"namescan/internal/recognizers/ner"
	"namescan/internal/recognizers/personname"
	"namescan/internal/recognizers/prose"
	"namescan/internal/recognizers/tabular"
	"namescan/internal/resilience"
)

// BuildRecognizerSet constructs the recognizers enabled in cfg, in the
// order literal, tabular, pattern, prose, sidecar.
func BuildRecognizerSet(cfg *config.Config, observer *observability.StandardObserver) ([]detector.Recognizer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	rc := cfg.Recognizers

	var result []detector.Recognizer

	if len(rc.Literal.Names) > 0 {
		result = append(result, literal.NewRecognizer(rc.Literal.Names, rc.Literal.Score))
	}
	if rc.Tabular.Enabled {
		anchor, err := tabular.ParseAnchorMode(rc.Tabular.Anchor)
		if err != nil {
			return nil, err
		}
		result = append(result, tabular.NewRecognizer().WithAnchor(anchor))
	}
	if rc.Patterns.Enabled {
		result = append(result, personname.NewRecognizer())
	}
	if rc.Prose.Enabled {
		result = append(result, prose.NewRecognizer())
	}
	if rc.NER.Enabled {
		if rc.NER.URL == "" {
			return nil, fmt.Errorf("ner recognizer enabled without url")
		}
		entities := make([]detector.EntityKind, 0, len(rc.NER.Entities))
		for _, name := range rc.NER.Entities {
			if kind := detector.ParseEntityKind(name); kind != "" {
				entities = append(entities, kind)
			}
		}
		result = append(result, ner.New(rc.NER.URL,
			ner.WithTimeout(rc.NER.Timeout),
			ner.WithRetry(resilience.SidecarRetryConfig(rc.NER.MaxRetries)),
			ner.WithEntities(entities...),
			ner.WithRateLimit(rc.NER.RateLimit, 1),
			ner.WithObserver(observer),
		))
	}

	return result, nil
}

// OptionsFromConfig derives engine options from the defaults section
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		MinScore: cfg.Defaults.MinScore,
		Strict:   cfg.Defaults.Strict,
	}
	opts.Entities = ParseEntities(cfg.Defaults.Entities)
	return opts
}

// ParseEntities normalizes entity names. "all" or an empty list selects
// every kind.
func ParseEntities(names []string) []detector.EntityKind {
	var kinds []detector.EntityKind
	for _, name := range names {
		kind := detector.ParseEntityKind(name)
		if kind == "ALL" {
			return nil
		}
		if kind != "" {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// HelpProviders returns a help card source for every recognizer kind,
// enabled or not.
func HelpProviders() []help.Provider {
	return []help.Provider{
		literal.NewRecognizer(nil, literal.DefaultScore),
		tabular.NewRecognizer(),
		personname.NewRecognizer(),
		prose.NewRecognizer(),
		ner.New("http://localhost:3000"),
	}
}

// NewEngineFromConfig builds the recognizer set and engine described by cfg
func NewEngineFromConfig(cfg *config.Config, observer *observability.StandardObserver) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	recognizers, err := BuildRecognizerSet(cfg, observer)
	if err != nil {
		return nil, fmt.Errorf("failed to build recognizers: %w", err)
	}
	return NewEngine(recognizers, OptionsFromConfig(cfg), observer), nil
}
