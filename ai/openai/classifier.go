// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/lyrica/ai"
	"github.com/poiesic/lyrica/providers"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// EmotionClassifier implements ai.EmotionClassifier using OpenAI-compatible
// chat APIs. The model is prompted to score the text against the emotion
// vocabulary and return a JSON object of per-class probabilities.
type EmotionClassifier struct {
	client    llms.Model
	timeout   time.Duration
	baseDelay time.Duration
	logger    *slog.Logger
}

// scores is the wrapper structure for the LLM's JSON response.
type scores struct {
	Emotions map[string]float32 `json:"emotions"`
}

// newEmotionClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmotionClassifier(config *ai.Config) (*EmotionClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/classification
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &EmotionClassifier{
		client:    client,
		timeout:   defaultTimeout,
		baseDelay: defaultBaseDelay,
		logger:    slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewEmotionClassifier creates a new emotion classifier using the provided configuration.
//
// Returns ai.EmotionClassifier interface to enforce abstraction.
func NewEmotionClassifier(config *ai.Config) (ai.EmotionClassifier, error) {
	return newEmotionClassifier(config)
}

// Classify scores text against ai.EmotionLabels using an LLM.
// Missing labels are scored 0; unknown labels in the response are dropped.
func (c *EmotionClassifier) Classify(ctx context.Context, text string) ([]float32, error) {
	text = scrubString(text)

	systemPrompt := buildClassifierPrompt()
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result scores
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := c.generate(ctx, content)
		if err != nil {
			c.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			c.logger.Debug("no choices returned from model")
			return make([]float32, len(ai.EmotionLabels)), nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			c.logger.Warn("error parsing classifier response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return distributionFromScores(result.Emotions), nil
	}

	c.logger.Error("classifier returned malformed JSON after retries", "err", lastErr)
	return nil, lastErr
}

// generate runs one bounded model call: each attempt carries its own
// timeout, and transient failures are retried with backoff.
func (c *EmotionClassifier) generate(ctx context.Context, content []llms.MessageContent) (*llms.ContentResponse, error) {
	var response *llms.ContentResponse
	err := providers.RetryWithBackoff(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var genErr error
		response, genErr = c.client.GenerateContent(callCtx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		return genErr
	}, defaultMaxAttempts, c.baseDelay)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// distributionFromScores maps a label->probability object onto a dense vector
// in EmotionLabels order, clamping values into [0, 1].
func distributionFromScores(emotions map[string]float32) []float32 {
	dist := make([]float32, len(ai.EmotionLabels))
	for label, p := range emotions {
		idx := ai.EmotionIndex(strings.ToLower(strings.TrimSpace(label)))
		if idx < 0 {
			continue
		}
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		dist[idx] = p
	}
	return dist
}
