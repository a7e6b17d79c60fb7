package modelruntime

import (
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/saywise/saywise-ai-platform/internal/schema"
)

func TestGeminiSchemaTranslation(t *testing.T) {
	sch := schema.Object("tone",
		schema.Field{Name: "summary", Kind: schema.KindString, NonEmpty: true, Description: "one sentence"},
		schema.Field{Name: "emotions", Kind: schema.KindArray, MinItems: 1, Elem: &schema.Field{
			Kind: schema.KindObject,
			Fields: []schema.Field{
				{Name: "text", Kind: schema.KindString},
				{Name: "sentiment", Kind: schema.KindString, Enum: []string{"positive", "neutral", "negative"}},
				{Name: "score", Kind: schema.KindInt},
				{Name: "primary", Kind: schema.KindBool},
			},
		}},
	)

	got := geminiSchema(sch.Root)
	if got.Type != genai.TypeObject {
		t.Fatalf("root type = %v, want object", got.Type)
	}
	if len(got.Required) != 2 {
		t.Errorf("required = %v, want both fields", got.Required)
	}

	summary := got.Properties["summary"]
	if summary == nil || summary.Type != genai.TypeString {
		t.Fatalf("summary schema = %+v", summary)
	}
	if summary.Description != "one sentence" {
		t.Errorf("summary description = %q", summary.Description)
	}

	emotions := got.Properties["emotions"]
	if emotions == nil || emotions.Type != genai.TypeArray || emotions.Items == nil {
		t.Fatalf("emotions schema = %+v", emotions)
	}
	item := emotions.Items
	if item.Type != genai.TypeObject {
		t.Fatalf("emotions item type = %v", item.Type)
	}
	if got := item.Properties["sentiment"]; got == nil || len(got.Enum) != 3 {
		t.Errorf("sentiment enum not carried: %+v", got)
	}
	if got := item.Properties["score"]; got == nil || got.Type != genai.TypeInteger {
		t.Errorf("score type not integer: %+v", got)
	}
	if got := item.Properties["primary"]; got == nil || got.Type != genai.TypeBoolean {
		t.Errorf("primary type not boolean: %+v", got)
	}
}

func TestNewGeminiRuntimeRequiresKey(t *testing.T) {
	if _, err := NewGeminiRuntime(t.Context(), "  ", "model"); err == nil {
		t.Fatal("expected error for blank api key")
	}
}
