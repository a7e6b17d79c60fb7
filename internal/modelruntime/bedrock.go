package modelruntime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/saywise/saywise-ai-platform/internal/schema"
)

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockRuntime implements Runtime using the Bedrock Converse API. Bedrock has
// no native structured-output mode, so the schema constraint is rendered into a
// system block that steers decoding toward the target shape.
type BedrockRuntime struct {
	api     bedrockConverseAPI
	modelID string
}

// NewBedrockRuntime creates a Bedrock-backed runtime.
func NewBedrockRuntime(api bedrockConverseAPI, modelID string) *BedrockRuntime {
	if api == nil {
		panic("modelruntime: bedrock converse client cannot be nil")
	}
	if strings.TrimSpace(modelID) == "" {
		panic("modelruntime: bedrock model id is required")
	}
	return &BedrockRuntime{api: api, modelID: modelID}
}

// Decode sends one prompt under the schema constraint and returns raw text.
func (r *BedrockRuntime) Decode(ctx context.Context, prompt string, grammar *schema.Schema, opts DecodeOptions) (string, error) {
	var systemBlocks []brtypes.SystemContentBlock
	if grammar != nil {
		systemBlocks = append(systemBlocks, &brtypes.SystemContentBlockMemberText{
			Value: grammar.Instruction(),
		})
	}

	inference := &brtypes.InferenceConfiguration{}
	if opts.MaxTokens > 0 {
		inference.MaxTokens = aws.Int32(opts.MaxTokens)
	}
	if opts.Temperature >= 0 {
		inference.Temperature = aws.Float32(opts.Temperature)
	}

	out, err := r.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(r.modelID),
		System:  systemBlocks,
		Messages: []brtypes.Message{
			{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		InferenceConfig: inference,
	})
	if err != nil {
		return "", fmt.Errorf("modelruntime: bedrock converse failed: %w", err)
	}

	return bedrockExtractOutputText(out)
}

func bedrockExtractOutputText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil {
		return "", errors.New("modelruntime: bedrock response is nil")
	}
	msgOut, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("modelruntime: bedrock response did not include a message output")
	}
	if len(msgOut.Value.Content) == 0 {
		return "", errors.New("modelruntime: bedrock response message was empty")
	}

	var builder strings.Builder
	for _, block := range msgOut.Value.Content {
		if textBlock, ok := block.(*brtypes.ContentBlockMemberText); ok {
			builder.WriteString(textBlock.Value)
		}
	}
	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("modelruntime: bedrock response contained no text content blocks")
	}
	return text, nil
}
