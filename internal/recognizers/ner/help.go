// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ner

import "namescan/internal/help"

// GetRecognizerInfo returns standardized information about the sidecar recognizer
func (c *Client) GetRecognizerInfo() help.RecognizerInfo {
	return help.RecognizerInfo{
		Name:             string(RecognizerName),
		ShortDescription: "Delegates to an external NER service over HTTP",
		DetailedDescription: `The sidecar recognizer posts the text to an entity-recognition service and
reports the spans it returns with the service's own scores. Transient failures
(timeouts, connection errors, 429 and 5xx responses) are retried with backoff.
After repeated failures a circuit breaker skips the service for 30 seconds.
When the service cannot be reached the analysis continues without it.`,
		ConfigurationInfo: `recognizers:
  ner:
    enabled: true
    url: http://localhost:3000
    timeout: 10s
    max_retries: 2

Environment: NAMESCAN_NER_URL, NAMESCAN_NER_ENABLED`,
		Examples: []string{
			"namescan -ner-url http://localhost:3000 letter.txt",
		},
	}
}
