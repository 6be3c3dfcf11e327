// Package analysis calls the external language-model provider that turns
// normalized property data into a diagnostic analysis document.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/config"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/httpclient"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

const maxResponseBytes = 1 << 20

// Client is the HTTP client for the analysis provider.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *httpclient.Client
	logger  logger.Logger
	schema  *gojsonschema.Schema
}

func NewClient(cfg config.AnalysisConfig, log logger.Logger) (*Client, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(analysisSchema))
	if err != nil {
		return nil, fmt.Errorf("compile analysis schema: %w", err)
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    httpclient.NewClient(time.Duration(cfg.Timeout) * time.Second),
		logger:  log.WithFields(map[string]interface{}{"component": "analysis-client"}),
		schema:  schema,
	}, nil
}

type completionRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type completionResponse struct {
	Output string `json:"output"`
}

// Analyze sends the property facts to the provider and returns the
// validated analysis document. A response that cannot be parsed or does
// not match the expected shape is a hard failure that must not be
// retried: the provider answered, it just answered badly.
func (c *Client) Analyze(ctx context.Context, data *models.ProcessedPropertyData, score models.HealthScore, insight models.MarketInsight) (json.RawMessage, error) {
	prompt := BuildPrompt(data, score, insight)

	body, err := json.Marshal(completionRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return nil, errors.NewAnalysisFailedError(fmt.Errorf("encode completion request: %w", err))
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewAnalysisFailedError(fmt.Errorf("build completion request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewAnalysisTimeoutError()
		}
		return nil, errors.NewAnalysisFailedError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.NewAnalysisFailedError(fmt.Errorf("read completion response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAnalysisFailedError(fmt.Errorf("provider status %d", resp.StatusCode))
	}

	var completion completionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, errors.NewAnalysisFailedError(fmt.Errorf("decode completion envelope: %w", err))
	}

	document, err := c.extractDocument(completion.Output)
	if err != nil {
		return nil, err
	}

	c.logger.Info("analysis completed", map[string]interface{}{
		"model": c.model,
		"bytes": len(document),
	})
	return document, nil
}

// extractDocument strips markdown fences the model may wrap the JSON in,
// parses it and validates it against the document schema.
func (c *Client) extractDocument(output string) (json.RawMessage, error) {
	cleaned := StripCodeFences(output)

	var parsed interface{}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, errors.NewAnalysisParseError(fmt.Errorf("response is not valid JSON: %w", err))
	}

	result, err := c.schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, errors.NewAnalysisParseError(fmt.Errorf("schema validation: %w", err))
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, errors.NewAnalysisParseError(fmt.Errorf("document does not match expected shape: %s", strings.Join(problems, "; ")))
	}

	return json.RawMessage(cleaned), nil
}

// StripCodeFences removes a surrounding markdown code fence, with or
// without a language tag, and trims whitespace.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 && !strings.HasPrefix(trimmed, "{") {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
