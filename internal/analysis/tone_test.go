package analysis

import "testing"

func TestCleanToneLexiconOverridesSentiment(t *testing.T) {
	r := &ToneResult{
		Summary: "Tense but professional.",
		Emotions: []Emotion{
			{Text: "frustrated", Sentiment: SentimentPositive},
			{Text: "grateful", Sentiment: SentimentNegative},
			{Text: "calm", Sentiment: SentimentNegative},
		},
		Details: "Short sentences and a deadline reference.",
	}
	CleanTone(r)

	want := []Emotion{
		{Text: "Frustrated", Sentiment: SentimentNegative},
		{Text: "Grateful", Sentiment: SentimentPositive},
		{Text: "Calm", Sentiment: SentimentNeutral},
	}
	if len(r.Emotions) != len(want) {
		t.Fatalf("got %d emotions, want %d: %+v", len(r.Emotions), len(want), r.Emotions)
	}
	for i, e := range r.Emotions {
		if e != want[i] {
			t.Errorf("emotion %d = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestCleanToneKeepsModelSentimentWithoutLexiconMatch(t *testing.T) {
	r := &ToneResult{
		Summary:  "Hard to read.",
		Emotions: []Emotion{{Text: "wistful", Sentiment: SentimentPositive}},
		Details:  "d",
	}
	CleanTone(r)

	if r.Emotions[0].Sentiment != SentimentPositive {
		t.Fatalf("sentiment = %q, want model's %q kept", r.Emotions[0].Sentiment, SentimentPositive)
	}
}

func TestCleanToneQualifierNormalization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Frustrated (very)", "Frustrated (strong)"},
		{"Annoyed (low intensity)", "Annoyed (mild)"},
		{"hopeful (somewhat)", "Hopeful (mild)"},
		{"formal (medium)", "Formal (moderate)"},
		{"Hopeful (kinda)", "Hopeful"},
		{"Mild Irritation (mildly)", "Mild Irritation"},
		{"passive-aggressive", "Passive-Aggressive"},
	}
	for _, tc := range cases {
		r := &ToneResult{
			Summary:  "s",
			Emotions: []Emotion{{Text: tc.in, Sentiment: SentimentNeutral}},
			Details:  "d",
		}
		CleanTone(r)
		if got := r.Emotions[0].Text; got != tc.want {
			t.Errorf("CleanTone(%q) label = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanToneDropsNeutralFillerNextToRealEmotions(t *testing.T) {
	r := &ToneResult{
		Summary: "s",
		Emotions: []Emotion{
			{Text: "Neutral", Sentiment: SentimentNeutral},
			{Text: "impatient", Sentiment: SentimentNeutral},
		},
		Details: "d",
	}
	CleanTone(r)

	if len(r.Emotions) != 1 || r.Emotions[0].Text != "Impatient" {
		t.Fatalf("emotions = %+v, want only Impatient", r.Emotions)
	}
}

func TestCleanToneKeepsLoneNeutral(t *testing.T) {
	r := &ToneResult{
		Summary:  "s",
		Emotions: []Emotion{{Text: "neutral", Sentiment: SentimentNeutral}},
		Details:  "d",
	}
	CleanTone(r)

	if len(r.Emotions) != 1 || r.Emotions[0].Text != "Neutral" {
		t.Fatalf("emotions = %+v, want lone Neutral kept", r.Emotions)
	}
}

func TestCleanToneSubstitutesFallbackForArtifacts(t *testing.T) {
	r := &ToneResult{
		Summary: "s",
		Emotions: []Emotion{
			{Text: `{"text": "urgency`, Sentiment: SentimentNeutral},
			{Text: "an emotion label that rambles on far past any plausible single emotion word", Sentiment: SentimentNeutral},
			{Text: "error 503", Sentiment: SentimentNeutral},
			{Text: "urgent", Sentiment: SentimentNeutral},
		},
		Details: "d",
	}
	CleanTone(r)

	want := []string{fallbackLabel, fallbackLabel, fallbackLabel, "Urgent"}
	if len(r.Emotions) != len(want) {
		t.Fatalf("got %d emotions, want %d: %+v", len(r.Emotions), len(want), r.Emotions)
	}
	for i, e := range r.Emotions {
		if e.Text != want[i] {
			t.Errorf("emotion %d = %q, want %q", i, e.Text, want[i])
		}
	}
}

func TestCleanToneFallbackForBlankLabel(t *testing.T) {
	r := &ToneResult{
		Summary:  "s",
		Emotions: []Emotion{{Text: "   ", Sentiment: SentimentNeutral}},
		Details:  "d",
	}
	CleanTone(r)

	if len(r.Emotions) != 1 || r.Emotions[0].Text != fallbackLabel {
		t.Fatalf("emotions = %+v, want fallback %q", r.Emotions, fallbackLabel)
	}
	if r.Emotions[0].Sentiment != SentimentNeutral {
		t.Fatalf("fallback sentiment = %q, want neutral", r.Emotions[0].Sentiment)
	}
}

func TestCleanToneRecoversTruncatedLabel(t *testing.T) {
	r := &ToneResult{
		Summary: "s",
		Emotions: []Emotion{
			{Text: "hopeful[", Sentiment: SentimentPositive},
			{Text: "{[", Sentiment: SentimentNeutral},
		},
		Details: "d",
	}
	CleanTone(r)

	if len(r.Emotions) != 2 {
		t.Fatalf("got %d emotions, want 2: %+v", len(r.Emotions), r.Emotions)
	}
	if r.Emotions[0].Text != "Hopeful" {
		t.Errorf("recoverable label = %q, want Hopeful", r.Emotions[0].Text)
	}
	if r.Emotions[1].Text != fallbackLabel {
		t.Errorf("unrecoverable label = %q, want %q", r.Emotions[1].Text, fallbackLabel)
	}
}

func TestCleanToneTrimsTruncatedSummary(t *testing.T) {
	r := &ToneResult{
		Summary:  "The message reads as urgent {",
		Emotions: []Emotion{{Text: "urgent", Sentiment: SentimentNeutral}},
		Details:  "d",
	}
	CleanTone(r)

	if r.Summary != "The message reads as urgent" {
		t.Fatalf("summary = %q, want dangling brace stripped", r.Summary)
	}
}

func TestCleanToneNilSafe(t *testing.T) {
	CleanTone(nil)
}
