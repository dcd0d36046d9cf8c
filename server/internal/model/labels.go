package model

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatLabel trims s and returns it with the first character upper-cased and
// the rest lower-cased. Blank input yields "".
func FormatLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// CanonicalLabels formats every label, drops blanks and removes duplicates
// case-insensitively. First occurrence order is kept.
func CanonicalLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		f := FormatLabel(l)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedLabelSet canonicalizes labels and returns them sorted.
func SortedLabelSet(labels []string) []string {
	out := CanonicalLabels(labels)
	if out == nil {
		return []string{}
	}
	sort.Strings(out)
	return out
}
