// Package analysis implements the structured-generation pipeline: it prompts
// the model under a schema constraint, validates and repairs the output,
// retries with corrective feedback, and joins the four per-message analyses
// into one bundle.
package analysis

import "github.com/saywise/saywise-ai-platform/internal/schema"

// Kind tags one of the four analysis axes. It drives which schema, which
// post-processor, and which sampling options are used.
type Kind string

const (
	KindIntent       Kind = "intent"
	KindTone         Kind = "tone"
	KindImpact       Kind = "impact"
	KindAlternatives Kind = "alternatives"
)

// Kinds lists all analysis kinds in canonical order.
func Kinds() []Kind {
	return []Kind{KindIntent, KindTone, KindImpact, KindAlternatives}
}

// Sentiment labels for emotions.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Impact categories.
const (
	CategoryLow    = "low"
	CategoryMedium = "medium"
	CategoryHigh   = "high"
)

// Canonical impact metric names. The impact schema accepts exactly these four,
// one each.
const (
	MetricCooperation = "Cooperation Likelihood"
	MetricFriction    = "Emotional Friction"
	MetricStrain      = "Relationship Strain"
	MetricUrgency     = "Perceived Urgency"
)

// MetricNames lists the canonical metric names in canonical order.
func MetricNames() []string {
	return []string{MetricCooperation, MetricFriction, MetricStrain, MetricUrgency}
}

// IntentResult describes communicative intent at increasing levels of
// indirection.
type IntentResult struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Implicit  string `json:"implicit"`
}

// Emotion is one detected emotional note with its lexical valence.
type Emotion struct {
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
}

// ToneResult summarizes the emotional register of the message.
type ToneResult struct {
	Summary  string    `json:"summary"`
	Emotions []Emotion `json:"emotions"`
	Details  string    `json:"details"`
}

// ImpactMetric is one scored prediction of recipient impact.
type ImpactMetric struct {
	Name     string `json:"name"`
	Value    int    `json:"value"`
	Category string `json:"category"`
}

// ImpactResult predicts how the recipient will experience the message.
type ImpactResult struct {
	Metrics           []ImpactMetric `json:"metrics"`
	RecipientResponse string         `json:"recipientResponse"`
}

// Metric returns the named metric, or nil when absent.
func (r *ImpactResult) Metric(name string) *ImpactMetric {
	for i := range r.Metrics {
		if r.Metrics[i].Name == name {
			return &r.Metrics[i]
		}
	}
	return nil
}

// AlternativeTag labels a quality of a rewritten phrasing.
type AlternativeTag struct {
	Text       string `json:"text"`
	IsPositive bool   `json:"isPositive"`
}

// Alternative is one suggested rephrasing of the message.
type Alternative struct {
	Badge  string           `json:"badge"`
	Text   string           `json:"text"`
	Reason string           `json:"reason"`
	Tags   []AlternativeTag `json:"tags"`
}

// alternativesPayload is the wire shape for the alternatives generation.
type alternativesPayload struct {
	Alternatives []Alternative `json:"alternatives"`
}

// Bundle aggregates all four analyses for one message. It is the unit stored
// as one conversational turn.
type Bundle struct {
	Intent       IntentResult  `json:"intent"`
	Tone         ToneResult    `json:"tone"`
	Impact       ImpactResult  `json:"impact"`
	Alternatives []Alternative `json:"alternatives"`
}

// Schemas, one per kind. Each schema drives both the decode-time constraint
// and post-hoc validation.

func intentSchema() *schema.Schema {
	return schema.Object("intent",
		schema.Field{Name: "primary", Kind: schema.KindString, NonEmpty: true,
			Description: "the surface-level communicative intent"},
		schema.Field{Name: "secondary", Kind: schema.KindString, NonEmpty: true,
			Description: "a secondary, less direct intent"},
		schema.Field{Name: "implicit", Kind: schema.KindString, NonEmpty: true,
			Description: "what the sender implies without saying"},
	)
}

func toneSchema() *schema.Schema {
	return schema.Object("tone",
		schema.Field{Name: "summary", Kind: schema.KindString, NonEmpty: true,
			Description: "one-sentence tone summary"},
		schema.Field{Name: "emotions", Kind: schema.KindArray, MinItems: 1, Elem: &schema.Field{
			Kind: schema.KindObject,
			Fields: []schema.Field{
				{Name: "text", Kind: schema.KindString, NonEmpty: true,
					Description: "short emotion label"},
				{Name: "sentiment", Kind: schema.KindString,
					Enum: []string{SentimentPositive, SentimentNeutral, SentimentNegative}},
			},
		}},
		schema.Field{Name: "details", Kind: schema.KindString, NonEmpty: true,
			Description: "supporting explanation"},
	)
}

func impactSchema() *schema.Schema {
	return schema.Object("impact",
		schema.Field{Name: "metrics", Kind: schema.KindArray, ExactItems: 4, Elem: &schema.Field{
			Kind: schema.KindObject,
			Fields: []schema.Field{
				{Name: "name", Kind: schema.KindString, Enum: MetricNames()},
				{Name: "value", Kind: schema.KindInt, HasRange: true, Min: 0, Max: 100},
				{Name: "category", Kind: schema.KindString,
					Enum: []string{CategoryLow, CategoryMedium, CategoryHigh}},
			},
		}},
		schema.Field{Name: "recipientResponse", Kind: schema.KindString, NonEmpty: true,
			Description: "how the recipient is likely to respond"},
	)
}

func alternativesSchema() *schema.Schema {
	return schema.Object("alternatives",
		schema.Field{Name: "alternatives", Kind: schema.KindArray, MinItems: 1, Elem: &schema.Field{
			Kind: schema.KindObject,
			Fields: []schema.Field{
				{Name: "badge", Kind: schema.KindString, NonEmpty: true,
					Description: "short style label, e.g. Softer or More Direct"},
				{Name: "text", Kind: schema.KindString, NonEmpty: true,
					Description: "the full rewritten message"},
				{Name: "reason", Kind: schema.KindString, NonEmpty: true,
					Description: "why this phrasing lands better"},
				{Name: "tags", Kind: schema.KindArray, MinItems: 1, Elem: &schema.Field{
					Kind: schema.KindObject,
					Fields: []schema.Field{
						{Name: "text", Kind: schema.KindString, NonEmpty: true},
						{Name: "isPositive", Kind: schema.KindBool},
					},
				}},
			},
		}},
	)
}

// SchemaFor returns the output schema for an analysis kind.
func SchemaFor(kind Kind) *schema.Schema {
	switch kind {
	case KindIntent:
		return intentSchema()
	case KindTone:
		return toneSchema()
	case KindImpact:
		return impactSchema()
	case KindAlternatives:
		return alternativesSchema()
	default:
		return nil
	}
}
