package analysis

import (
	"fmt"
	"strings"

	"github.com/saywise/saywise-ai-platform/internal/schema"
)

// PromptBuilder turns a message and optional prior conversation context into
// a full prompt for one analysis kind.
type PromptBuilder func(message, priorContext string) string

// RetryPromptBuilder rewrites a failed prompt with corrective guidance. The
// failure is the structured error from the previous attempt.
type RetryPromptBuilder func(originalPrompt string, failure error) string

// Prompts bundles the prompt builders the pipeline needs. The core treats
// them as opaque pure functions; DefaultPrompts supplies a working set.
type Prompts struct {
	Intent       PromptBuilder
	Tone         PromptBuilder
	Impact       PromptBuilder
	Alternatives PromptBuilder
	Retry        RetryPromptBuilder
}

// For returns the prompt builder for an analysis kind.
func (p Prompts) For(kind Kind) PromptBuilder {
	switch kind {
	case KindIntent:
		return p.Intent
	case KindTone:
		return p.Tone
	case KindImpact:
		return p.Impact
	case KindAlternatives:
		return p.Alternatives
	default:
		return nil
	}
}

// DefaultPrompts returns the built-in prompt set.
func DefaultPrompts() Prompts {
	return Prompts{
		Intent:       taskPrompt("Identify the communicative intent of the message: the primary surface-level intent, a secondary less direct intent, and what the sender implies without saying."),
		Tone:         taskPrompt("Describe the emotional tone of the message: a one-sentence summary, the individual emotions present with their sentiment, and a short supporting explanation."),
		Impact:       taskPrompt(fmt.Sprintf("Predict how the recipient will experience the message. Score each of these metrics from 0 to 100 with a low/medium/high category: %s. Then describe the likely recipient response.", strings.Join(MetricNames(), ", "))),
		Alternatives: taskPrompt("Suggest 3 alternative phrasings of the message that would land better. For each give a short style badge, the full rewritten text, the reason it works, and quality tags."),
		Retry:        BuildRetryPrompt,
	}
}

func taskPrompt(task string) PromptBuilder {
	return func(message, priorContext string) string {
		var b strings.Builder
		b.WriteString("You are a communication analyst reviewing a draft message before it is sent.\n\n")
		if strings.TrimSpace(priorContext) != "" {
			b.WriteString(priorContext)
			b.WriteString("\n\n")
		}
		b.WriteString(task)
		b.WriteString("\n\nMessage:\n\"")
		b.WriteString(message)
		b.WriteString("\"")
		return b.String()
	}
}

// correction identifies which corrective instruction block to inject into a
// retry prompt. Selection is a deterministic dispatch on the structured error
// taxonomy, not on error message wording.
type correction int

const (
	correctFormat correction = iota
	correctEmptyList
	correctEmptyString
	correctMetricNames
	correctRange
	correctTruncation
)

var correctionInstructions = map[correction]string{
	correctFormat:      "Your previous response was not a single valid JSON object of the required shape. Respond with only the JSON object, no surrounding prose and no markdown fences.",
	correctEmptyList:   "Your previous response left a required list empty or incomplete. Every list in the schema must contain the required number of fully populated entries.",
	correctEmptyString: "Your previous response left one or more required text fields empty. Every text field must contain a meaningful, non-empty value.",
	correctMetricNames: "Your previous response used a metric name outside the allowed set. Use each of the canonical metric names exactly once, spelled exactly as given.",
	correctRange:       "Your previous response contained a value outside its allowed numeric range. Keep every score within the stated bounds.",
	correctTruncation:  "Your previous response was cut off before completion. Produce the complete JSON object, keeping each text value concise enough to finish within the token budget.",
}

// classifyFailure maps a structured generation error to a correction tag.
func classifyFailure(err error) correction {
	genErr, ok := retryable(err)
	if !ok {
		return correctFormat
	}
	switch genErr.Kind {
	case FailureTruncation:
		return correctTruncation
	case FailureParse:
		return correctFormat
	case FailureValidation:
		return classifyFieldErrors(genErr.Fields)
	default:
		return correctFormat
	}
}

// classifyFieldErrors picks the dominant correction for a set of field
// errors. Enum violations on metric names outrank emptiness, which outranks
// range problems; anything else falls back to the generic format correction.
func classifyFieldErrors(fields []schema.FieldError) correction {
	var sawEmpty, sawRange, sawEnum bool
	for _, fe := range fields {
		switch fe.Code {
		case schema.CodeEnum:
			if strings.HasSuffix(fe.Path, ".name") {
				return correctMetricNames
			}
			sawEnum = true
		case schema.CodeEmptyArray, schema.CodeItemCount:
			return correctEmptyList
		case schema.CodeEmptyString, schema.CodeMissing:
			sawEmpty = true
		case schema.CodeRange:
			sawRange = true
		}
	}
	switch {
	case sawEmpty:
		return correctEmptyString
	case sawRange:
		return correctRange
	case sawEnum:
		return correctFormat
	default:
		return correctFormat
	}
}

// BuildRetryPrompt is the default retry prompt builder: the original prompt,
// a category-specific corrective instruction, and the exact error text from
// the failed attempt.
func BuildRetryPrompt(originalPrompt string, failure error) string {
	var b strings.Builder
	b.WriteString(originalPrompt)
	b.WriteString("\n\nIMPORTANT - your previous attempt was rejected.\n")
	b.WriteString(correctionInstructions[classifyFailure(failure)])
	if failure != nil {
		b.WriteString("\nThe exact problem was: ")
		b.WriteString(failure.Error())
	}
	return b.String()
}
