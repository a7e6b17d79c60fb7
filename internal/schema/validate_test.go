package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func metricSchema() *Schema {
	return Object("impact",
		Field{Name: "metrics", Kind: KindArray, ExactItems: 2, Elem: &Field{
			Kind: KindObject,
			Fields: []Field{
				{Name: "name", Kind: KindString, Enum: []string{"Emotional Friction", "Relationship Strain"}},
				{Name: "value", Kind: KindInt, HasRange: true, Min: 0, Max: 100},
				{Name: "category", Kind: KindString, Enum: []string{"low", "medium", "high"}},
			},
		}},
		Field{Name: "recipientResponse", Kind: KindString, NonEmpty: true},
	)
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return v
}

func TestValidateAccepted(t *testing.T) {
	sch := metricSchema()
	v := decode(t, `{
		"metrics": [
			{"name": "Emotional Friction", "value": 42, "category": "medium"},
			{"name": "Relationship Strain", "value": 10, "category": "low"}
		],
		"recipientResponse": "Likely to comply but annoyed."
	}`)
	if errs := sch.Validate(v); errs != nil {
		t.Fatalf("expected valid, got: %s", JoinFieldErrors(errs))
	}
}

func TestValidateFieldErrors(t *testing.T) {
	sch := metricSchema()
	tests := []struct {
		name     string
		raw      string
		wantCode string
		wantPath string
	}{
		{
			name:     "missing field",
			raw:      `{"metrics": [{"name": "Emotional Friction", "value": 5, "category": "low"}, {"name": "Relationship Strain", "category": "low"}], "recipientResponse": "x"}`,
			wantCode: CodeMissing,
			wantPath: "$.metrics[1].value",
		},
		{
			name:     "empty string",
			raw:      `{"metrics": [{"name": "Emotional Friction", "value": 5, "category": "low"}, {"name": "Relationship Strain", "value": 5, "category": "low"}], "recipientResponse": "  "}`,
			wantCode: CodeEmptyString,
			wantPath: "$.recipientResponse",
		},
		{
			name:     "enum violation",
			raw:      `{"metrics": [{"name": "Patience", "value": 5, "category": "low"}, {"name": "Relationship Strain", "value": 5, "category": "low"}], "recipientResponse": "x"}`,
			wantCode: CodeEnum,
			wantPath: "$.metrics[0].name",
		},
		{
			name:     "range violation",
			raw:      `{"metrics": [{"name": "Emotional Friction", "value": 140, "category": "high"}, {"name": "Relationship Strain", "value": 5, "category": "low"}], "recipientResponse": "x"}`,
			wantCode: CodeRange,
			wantPath: "$.metrics[0].value",
		},
		{
			name:     "empty array",
			raw:      `{"metrics": [], "recipientResponse": "x"}`,
			wantCode: CodeEmptyArray,
			wantPath: "$.metrics",
		},
		{
			name:     "item count",
			raw:      `{"metrics": [{"name": "Emotional Friction", "value": 5, "category": "low"}], "recipientResponse": "x"}`,
			wantCode: CodeItemCount,
			wantPath: "$.metrics",
		},
		{
			name:     "wrong type",
			raw:      `{"metrics": [{"name": "Emotional Friction", "value": "five", "category": "low"}, {"name": "Relationship Strain", "value": 5, "category": "low"}], "recipientResponse": "x"}`,
			wantCode: CodeWrongType,
			wantPath: "$.metrics[0].value",
		},
		{
			name:     "non-integral number",
			raw:      `{"metrics": [{"name": "Emotional Friction", "value": 5.5, "category": "low"}, {"name": "Relationship Strain", "value": 5, "category": "low"}], "recipientResponse": "x"}`,
			wantCode: CodeWrongType,
			wantPath: "$.metrics[0].value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := sch.Validate(decode(t, tt.raw))
			if len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
			found := false
			for _, e := range errs {
				if e.Code == tt.wantCode && e.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s at %s, got: %s", tt.wantCode, tt.wantPath, JoinFieldErrors(errs))
			}
		})
	}
}

func TestValidateRootNotObject(t *testing.T) {
	sch := metricSchema()
	errs := sch.Validate(decode(t, `[1, 2, 3]`))
	if len(errs) != 1 || errs[0].Code != CodeWrongType {
		t.Fatalf("expected single wrong_type error at root, got: %v", errs)
	}
}

func TestInstructionMentionsConstraints(t *testing.T) {
	text := metricSchema().Instruction()
	for _, want := range []string{"recipientResponse", "low|medium|high", "0-100", "exactly 2 items"} {
		if !strings.Contains(text, want) {
			t.Errorf("instruction missing %q:\n%s", want, text)
		}
	}
}
