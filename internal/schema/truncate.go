package schema

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Truncation identifies a string leaf that appears cut off mid-generation.
type Truncation struct {
	Path     string
	Fragment string
}

// DetectTruncation walks every string leaf of a decoded JSON value (recursing
// through objects and arrays) and reports the first one that looks cut off.
// Returns nil when no leaf is suspect. Object keys are visited in sorted order
// so detection is deterministic.
func DetectTruncation(value any) *Truncation {
	return detectTruncation(value, "$")
}

func detectTruncation(value any, path string) *Truncation {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if t := detectTruncation(v[k], path+"."+k); t != nil {
				return t
			}
		}
	case []any:
		for i, item := range v {
			if t := detectTruncation(item, fmt.Sprintf("%s[%d]", path, i)); t != nil {
				return t
			}
		}
	case string:
		if looksTruncated(v) {
			return &Truncation{Path: path, Fragment: tailFragment(v)}
		}
	}
	return nil
}

// looksTruncated flags a string when it ends with a letter immediately
// followed by a dangling bracket character, or when its brace/bracket counts
// are unbalanced and it trails an open character.
func looksTruncated(s string) bool {
	trimmed := strings.TrimRight(s, " \t\n")
	if trimmed == "" {
		return false
	}
	runes := []rune(trimmed)
	last := runes[len(runes)-1]

	if isDanglingBracket(last) && len(runes) >= 2 && unicode.IsLetter(runes[len(runes)-2]) {
		return true
	}

	opens := strings.Count(trimmed, "{") + strings.Count(trimmed, "[")
	closes := strings.Count(trimmed, "}") + strings.Count(trimmed, "]")
	if opens != closes && (last == '{' || last == '[') {
		return true
	}
	return false
}

func isDanglingBracket(r rune) bool {
	return r == '{' || r == '[' || r == ']'
}

func tailFragment(s string) string {
	const max = 40
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return "..." + string(runes[len(runes)-max:])
}
