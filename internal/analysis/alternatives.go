package analysis

import "strings"

// FilterAlternatives drops alternatives that are unusable as suggestions: a
// blank rewritten text, a blank reason, or a text that appears cut off. Tags
// with blank labels are pruned from survivors. Filtering only removes, it
// never rejects the generation; an empty result is a valid outcome.
func FilterAlternatives(alts []Alternative) []Alternative {
	kept := make([]Alternative, 0, len(alts))
	for _, alt := range alts {
		alt.Badge = strings.TrimSpace(alt.Badge)
		alt.Text = strings.TrimSpace(alt.Text)
		alt.Reason = strings.TrimSpace(alt.Reason)
		if alt.Text == "" || alt.Reason == "" {
			continue
		}
		if strings.HasSuffix(alt.Text, "{") || strings.HasSuffix(alt.Text, "[") {
			continue
		}
		if alt.Badge == "" {
			alt.Badge = "Alternative"
		}

		tags := make([]AlternativeTag, 0, len(alt.Tags))
		for _, tag := range alt.Tags {
			tag.Text = strings.TrimSpace(tag.Text)
			if tag.Text == "" {
				continue
			}
			tags = append(tags, tag)
		}
		alt.Tags = tags
		kept = append(kept, alt)
	}
	return kept
}
