package template

import (
	"regexp"
	"sort"
	"strings"
)

// Separator joins the subject and body parts of a combined template.
// It is part of the persisted format and must not change.
const Separator = "\n---\n"

// placeholderPattern matches a single {name} placeholder. The name is any
// non-empty run of characters excluding the closing brace. Double braces are
// not treated specially.
var placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)

// FindVariables returns the distinct placeholder names referenced in the
// template, in order of first occurrence. A template without placeholders
// yields an empty slice.
func FindVariables(tpl string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(tpl, -1)

	variables := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		variables = append(variables, name)
	}
	return variables
}

// Render substitutes row values into the template. Every occurrence of
// {key} is replaced with the row's value for key; placeholders without a
// matching key pass through unchanged. Keys are applied in sorted order so
// the result is deterministic for a fixed row.
func Render(tpl string, row map[string]string) string {
	if len(row) == 0 {
		return tpl
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := tpl
	for _, k := range keys {
		out = strings.ReplaceAll(out, "{"+k+"}", row[k])
	}
	return out
}

// Split separates a combined template into its subject and body parts.
// When the separator is absent the whole string is treated as the body and
// the subject is empty, matching how templates authored before the combined
// format are interpreted.
func Split(combined string) (subject, body string) {
	subject, body, found := strings.Cut(combined, Separator)
	if !found {
		return "", combined
	}
	return subject, body
}

// Join builds the combined wire format from a subject and body pair.
func Join(subject, body string) string {
	return subject + Separator + body
}
