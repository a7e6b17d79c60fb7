package analysis

import (
	"strings"
	"unicode"
)

const (
	neutralFiller = "Neutral"
	fallbackLabel = "Unclear"

	// Emotion labels longer than this are treated as decoding artifacts.
	maxEmotionLabelLen = 40
)

// Trailing parenthetical qualifiers collapse to a three-word strength
// vocabulary so equivalent labels compare equal across generations.
var qualifierSynonyms = map[string]string{
	"mild":             "mild",
	"mildly":           "mild",
	"slight":           "mild",
	"slightly":         "mild",
	"low":              "mild",
	"low intensity":    "mild",
	"somewhat":         "mild",
	"a bit":            "mild",
	"faint":            "mild",
	"moderate":         "moderate",
	"moderately":       "moderate",
	"medium":           "moderate",
	"medium intensity": "moderate",
	"quite":            "moderate",
	"fairly":           "moderate",
	"rather":           "moderate",
	"strong":           "strong",
	"strongly":         "strong",
	"very":             "strong",
	"extreme":          "strong",
	"extremely":        "strong",
	"intense":          "strong",
	"intensely":        "strong",
	"high":             "strong",
	"high intensity":   "strong",
	"deep":             "strong",
	"deeply":           "strong",
}

// Emotion words with an unambiguous valence. When a label contains one of
// these, the lexicon wins over whatever sentiment the model attached.
var (
	negativeLexicon = []string{
		"frustrated", "frustration", "angry", "anger", "annoyed", "annoyance",
		"passive-aggressive", "dismissive", "hostile", "resentful", "resentment",
		"impatient", "impatience", "demanding", "sarcastic", "anxious", "anxiety",
		"worried", "upset", "disappointed", "disappointment", "accusatory",
		"condescending", "defensive", "irritated", "irritation",
	}
	positiveLexicon = []string{
		"grateful", "gratitude", "appreciative", "appreciation", "warm", "warmth",
		"friendly", "supportive", "encouraging", "enthusiastic", "enthusiasm",
		"hopeful", "hope", "excited", "excitement", "polite", "respectful",
		"empathetic", "empathy", "reassuring",
	}
	neutralLexicon = []string{
		"calm", "neutral", "matter-of-fact", "direct", "formal", "professional",
		"curious", "measured", "detached",
	}
)

// CleanTone repairs a tone result in place: it strips truncated fragments
// from emotion labels, substitutes the fallback label for decoding artifacts,
// normalizes trailing parenthetical qualifiers, title-cases labels, and
// reconciles each label's sentiment against the valence lexicons. Neutral
// filler entries are dropped unless that would empty the list. Cleaning
// substitutes rather than drops, so the list length only changes through the
// filler rule.
func CleanTone(r *ToneResult) {
	if r == nil {
		return
	}
	r.Summary = trimArtifacts(r.Summary)
	r.Details = trimArtifacts(r.Details)

	cleaned := make([]Emotion, 0, len(r.Emotions))
	for _, e := range r.Emotions {
		label := cleanEmotionLabel(e.Text)
		cleaned = append(cleaned, Emotion{
			Text:      label,
			Sentiment: reconcileSentiment(label, e.Sentiment),
		})
	}

	// Neutral filler carries no information next to real emotions.
	kept := make([]Emotion, 0, len(cleaned))
	for _, e := range cleaned {
		if e.Text == neutralFiller && e.Sentiment == SentimentNeutral {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > 0 {
		cleaned = kept
	}

	if len(cleaned) == 0 {
		cleaned = []Emotion{{Text: fallbackLabel, Sentiment: SentimentNeutral}}
	}
	r.Emotions = cleaned
}

// cleanEmotionLabel normalizes one raw emotion label. Unusable labels are
// replaced by the fallback label rather than dropped, so the caller's list
// keeps its shape.
func cleanEmotionLabel(raw string) string {
	label := trimArtifacts(raw)
	if label == "" || looksLikeArtifact(label) {
		return fallbackLabel
	}

	main, qualifier := splitQualifier(label)
	main = titleCase(main)
	if qualifier != "" {
		main += " (" + qualifier + ")"
	}
	return main
}

// looksLikeArtifact reports whether a label is schema leakage rather than an
// emotion: structural JSON characters, digit runs, or implausible length.
func looksLikeArtifact(label string) bool {
	if strings.ContainsAny(label, "{}[]\":") {
		return true
	}
	if len([]rune(label)) > maxEmotionLabelLen {
		return true
	}
	return hasDigitRun(label)
}

func hasDigitRun(s string) bool {
	run := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			run++
			if run >= 2 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// splitQualifier detaches a trailing parenthetical qualifier and maps it to
// the canonical strength vocabulary. Qualifiers that are unrecognized, or
// redundant with the main phrase, are dropped.
func splitQualifier(label string) (string, string) {
	if !strings.HasSuffix(label, ")") {
		return label, ""
	}
	open := strings.LastIndex(label, "(")
	if open <= 0 {
		return label, ""
	}
	main := strings.TrimSpace(label[:open])
	if main == "" {
		return label, ""
	}

	raw := strings.ToLower(strings.TrimSpace(label[open+1 : len(label)-1]))
	canon, ok := qualifierSynonyms[raw]
	if !ok {
		return main, ""
	}
	if strings.Contains(strings.ToLower(main), canon) {
		return main, ""
	}
	return main, canon
}

// trimArtifacts removes whitespace and dangling structural characters a
// truncated generation leaves at the end of a string.
func trimArtifacts(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "{[]\\,")
	return strings.TrimSpace(s)
}

// reconcileSentiment checks the label against the valence lexicons; a match
// overrides the model-supplied sentiment. Negative matches outrank positive,
// which outrank neutral. Without a match the model's sentiment stands, and an
// unrecognized sentiment value degrades to neutral.
func reconcileSentiment(label, modelSentiment string) string {
	lower := strings.ToLower(label)
	for _, w := range negativeLexicon {
		if strings.Contains(lower, w) {
			return SentimentNegative
		}
	}
	for _, w := range positiveLexicon {
		if strings.Contains(lower, w) {
			return SentimentPositive
		}
	}
	for _, w := range neutralLexicon {
		if strings.Contains(lower, w) {
			return SentimentNeutral
		}
	}
	switch modelSentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return modelSentiment
	default:
		return SentimentNeutral
	}
}

// titleCase uppercases the first letter of each word, treating hyphens as
// word boundaries so compounds like "passive-aggressive" render as
// "Passive-Aggressive".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-':
			upperNext = true
			b.WriteRune(r)
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
