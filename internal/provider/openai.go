// Package provider implements the LLM invocation boundary on top of the
// OpenAI responses API with schema-guided generation.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"

	"github.com/cinemood/cinemood/internal/recommend"
)

const defaultMaxOutputTokens = 2500

// Client invokes the provider with a rendered prompt and a strict JSON schema
// and returns the raw payload. It performs no retries: a failed invocation
// surfaces immediately and the caller decides whether to re-run the flow.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient wraps an OpenAI client for a fixed model.
func NewClient(api *openai.Client, model string) (*Client, error) {
	if api == nil {
		return nil, errors.New("provider: openai client is nil")
	}
	if model == "" {
		return nil, errors.New("provider: model is empty")
	}
	return &Client{api: api, model: model}, nil
}

// Invoke satisfies recommend.Invoker. The returned payload has already been
// checked to be a decodable JSON document; structural field validation against
// the declared schema happens in the orchestrator's typed decode.
func (c *Client) Invoke(ctx context.Context, prompt string, schema recommend.OutputSchema) (json.RawMessage, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        schema.Name,
			Schema:      schema.Definition,
			Strict:      openai.Bool(true),
			Description: openai.String(schema.Description),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(defaultMaxOutputTokens),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := c.api.Responses.New(ctx, params)
	if err != nil {
		return nil, &recommend.ProviderError{Kind: classifyProviderError(err), Err: err}
	}

	var payload json.RawMessage
	if err := decodeModelJSON(resp.OutputText(), &payload); err != nil {
		return nil, &recommend.OutputSchemaViolation{Schema: schema.Name, Err: err}
	}
	return payload, nil
}

func classifyProviderError(err error) recommend.ProviderErrorKind {
	if isRateLimitError(err) {
		return recommend.ProviderRateLimited
	}
	if isServerError(err) {
		return recommend.ProviderServerError
	}
	return recommend.ProviderTransport
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}

// decodeModelJSON unmarshals JSON from a model response, with a small amount
// of robustness for cases where the model wraps the JSON in extra text or
// returns leading/trailing whitespace.
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	// Fast path: valid JSON as-is.
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	// Fallback: attempt to extract the first top-level JSON object.
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}

	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("failed to unmarshal extracted JSON (len=%d): %w", len(sub), err)
	}
	return nil
}
