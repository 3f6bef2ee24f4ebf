// Package summary partitions the model-written assessment markdown into its
// named sections. The model is instructed to emit a fixed structure, but
// generated text drifts, so parsing is deliberately forgiving: headers are
// matched case-insensitively with one legacy alias per section, and anything
// that cannot be located degrades to an empty string. Parsing never fails;
// partial feedback beats a hard error after a paid generation call.
package summary

import (
	"strings"
)

type Sections struct {
	Approach  string `json:"approach"`
	DeepDive  string `json:"deep_dive"`
	Strengths string `json:"strengths"`
	Growth    string `json:"growth"`
	NextSteps string `json:"next_steps"`
}

type sectionID int

const (
	sectionNone sectionID = iota
	sectionApproach
	sectionDeepDive
	sectionStrengths
	sectionGrowth
	sectionNextSteps
)

// Canonical headers in preferred order, each with one tolerated legacy
// alias from older prompt revisions.
var sectionHeaders = map[string]sectionID{
	"summary of your approach": sectionApproach,
	"overall approach":         sectionApproach,
	"deep dive: how you showed up on the four dimensions": sectionDeepDive,
	"four-dimension deep dive":                            sectionDeepDive,
	"what you did well":                                   sectionStrengths,
	"strengths":                                           sectionStrengths,
	"areas for growth":                                    sectionGrowth,
	"growth areas":                                        sectionGrowth,
	"suggested next practice steps":                       sectionNextSteps,
	"next steps":                                          sectionNextSteps,
}

// Parse splits the summary text into sections. Text before the first
// recognized header, or under an unrecognized header, is discarded.
func Parse(text string) Sections {
	var out Sections
	buffers := map[sectionID]*strings.Builder{
		sectionApproach:  {},
		sectionDeepDive:  {},
		sectionStrengths: {},
		sectionGrowth:    {},
		sectionNextSteps: {},
	}

	current := sectionNone
	for _, line := range strings.Split(text, "\n") {
		if id, isHeader := matchHeader(line); isHeader {
			current = id
			continue
		}
		if current == sectionNone {
			continue
		}
		buf := buffers[current]
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
	}

	out.Approach = strings.TrimSpace(buffers[sectionApproach].String())
	out.DeepDive = strings.TrimSpace(buffers[sectionDeepDive].String())
	out.Strengths = strings.TrimSpace(buffers[sectionStrengths].String())
	out.Growth = strings.TrimSpace(buffers[sectionGrowth].String())
	out.NextSteps = strings.TrimSpace(buffers[sectionNextSteps].String())
	return out
}

// matchHeader reports whether the line is a markdown heading, and if so
// which known section it opens. Unknown headings return sectionNone so the
// text below them is discarded rather than glued onto the previous section.
func matchHeader(line string) (sectionID, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return sectionNone, false
	}
	trimmed = strings.TrimLeft(trimmed, "#")
	key := normalizeHeader(trimmed)
	if id, ok := sectionHeaders[key]; ok {
		return id, true
	}
	return sectionNone, true
}

func normalizeHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_")
	s = strings.TrimSuffix(s, ":")
	return strings.ToLower(strings.TrimSpace(s))
}

// DimensionRationale finds the deep-dive line written for the named
// dimension and returns the prose after the dimension name. Empty string
// when no line matches; the caller falls back to the scoring rationale.
func DimensionRationale(deepDive, dimensionName string) string {
	want := strings.ToLower(strings.TrimSpace(dimensionName))
	if want == "" {
		return ""
	}
	for _, line := range strings.Split(deepDive, "\n") {
		stripped := strings.TrimSpace(line)
		stripped = strings.TrimLeft(stripped, "-*• \t")
		stripped = strings.TrimSpace(stripped)
		lower := strings.ToLower(stripped)
		if !strings.HasPrefix(lower, want) {
			continue
		}
		rest := stripped[len(want):]
		rest = strings.TrimLeft(rest, "*_")
		rest = strings.TrimSpace(rest)
		rest = strings.TrimPrefix(rest, ":")
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return rest
		}
	}
	return ""
}
