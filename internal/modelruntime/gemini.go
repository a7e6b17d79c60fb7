package modelruntime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/saywise/saywise-ai-platform/internal/schema"
)

// GeminiRuntime implements Runtime using Google's Gemini API. Gemini supports
// structured output natively, so the schema constraint is translated into a
// genai.Schema and enforced during decoding rather than by prompt text alone.
type GeminiRuntime struct {
	client  *genai.Client
	modelID string
}

// NewGeminiRuntime creates a Gemini-backed runtime.
func NewGeminiRuntime(ctx context.Context, apiKey, modelID string) (*GeminiRuntime, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("modelruntime: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("modelruntime: failed to create gemini client: %w", err)
	}

	return &GeminiRuntime{
		client:  client,
		modelID: modelID,
	}, nil
}

// Decode sends one prompt under the schema constraint and returns raw text.
func (r *GeminiRuntime) Decode(ctx context.Context, prompt string, grammar *schema.Schema, opts DecodeOptions) (string, error) {
	model := r.client.GenerativeModel(r.modelID)

	if opts.Temperature >= 0 {
		model.SetTemperature(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxTokens)
	}
	if grammar != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = geminiSchema(grammar.Root)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("modelruntime: gemini generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("modelruntime: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("modelruntime: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", errors.New("modelruntime: gemini returned no text parts")
	}
	return text.String(), nil
}

// Close releases resources held by the Gemini client.
func (r *GeminiRuntime) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// geminiSchema translates our schema description into Gemini's native schema
// type so the same declaration drives decode-time constraint and validation.
func geminiSchema(f schema.Field) *genai.Schema {
	out := &genai.Schema{Description: f.Description}
	switch f.Kind {
	case schema.KindString:
		out.Type = genai.TypeString
		if len(f.Enum) > 0 {
			out.Enum = f.Enum
		}
	case schema.KindInt:
		out.Type = genai.TypeInteger
	case schema.KindBool:
		out.Type = genai.TypeBoolean
	case schema.KindObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(f.Fields))
		out.Required = make([]string, 0, len(f.Fields))
		for _, child := range f.Fields {
			out.Properties[child.Name] = geminiSchema(child)
			out.Required = append(out.Required, child.Name)
		}
	case schema.KindArray:
		out.Type = genai.TypeArray
		if f.Elem != nil {
			out.Items = geminiSchema(*f.Elem)
		}
	}
	return out
}
