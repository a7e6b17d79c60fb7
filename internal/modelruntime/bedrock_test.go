package modelruntime

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/saywise/saywise-ai-platform/internal/schema"
)

type stubConverseAPI struct {
	lastInput *bedrockruntime.ConverseInput
	output    *bedrockruntime.ConverseOutput
	err       error
}

func (s *stubConverseAPI) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	s.lastInput = params
	return s.output, s.err
}

func converseTextOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{
			Value: brtypes.Message{
				Role: brtypes.ConversationRoleAssistant,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: text},
				},
			},
		},
	}
}

func TestBedrockDecodeRendersSchemaIntoSystemBlock(t *testing.T) {
	api := &stubConverseAPI{output: converseTextOutput(`{"primary":"x"}`)}
	rt := NewBedrockRuntime(api, "anthropic.claude-3-haiku")

	sch := schema.Object("intent",
		schema.Field{Name: "primary", Kind: schema.KindString, NonEmpty: true},
	)
	text, err := rt.Decode(context.Background(), "analyze this", sch, DecodeOptions{Temperature: 0.2, MaxTokens: 256})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != `{"primary":"x"}` {
		t.Errorf("unexpected text %q", text)
	}

	in := api.lastInput
	if aws.ToString(in.ModelId) != "anthropic.claude-3-haiku" {
		t.Errorf("unexpected model id %q", aws.ToString(in.ModelId))
	}
	if len(in.System) != 1 {
		t.Fatalf("expected one system block, got %d", len(in.System))
	}
	sys, ok := in.System[0].(*brtypes.SystemContentBlockMemberText)
	if !ok {
		t.Fatal("system block is not text")
	}
	if !strings.Contains(sys.Value, `"primary"`) {
		t.Errorf("system block missing schema skeleton: %q", sys.Value)
	}
	if got := aws.ToInt32(in.InferenceConfig.MaxTokens); got != 256 {
		t.Errorf("max tokens = %d, want 256", got)
	}
}

func TestBedrockDecodeErrors(t *testing.T) {
	apiErr := errors.New("throttled")
	rt := NewBedrockRuntime(&stubConverseAPI{err: apiErr}, "model")

	if _, err := rt.Decode(context.Background(), "p", nil, DecodeOptions{}); !errors.Is(err, apiErr) {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
}

func TestBedrockExtractOutputText(t *testing.T) {
	if _, err := bedrockExtractOutputText(nil); err == nil {
		t.Error("nil output should error")
	}
	if _, err := bedrockExtractOutputText(&bedrockruntime.ConverseOutput{}); err == nil {
		t.Error("missing message output should error")
	}
	if _, err := bedrockExtractOutputText(converseTextOutput("   ")); err == nil {
		t.Error("blank text should error")
	}
	text, err := bedrockExtractOutputText(converseTextOutput("hello"))
	if err != nil || text != "hello" {
		t.Errorf("got %q err=%v", text, err)
	}
}
