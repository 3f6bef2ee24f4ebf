package summary

import "testing"

const sampleSummary = `### Summary of your approach
You started by measuring the incline angle and worked carefully from there.
You revised your plan after the first hint.

### Deep dive: how you showed up on the four dimensions
Conceptual Foundation: leans on first-principles reasoning.
Strategic Insight: you outlined the full path before computing.
Mathematical Execution: you stayed symbolic until the last step.
Reflective Intuition: you sanity-checked the final value against the angle.

### What you did well
- You asked for measurements before guessing.
- You kept the friction condition symbolic.

### Areas for growth
- Try estimating the answer before computing it.

### Suggested next practice steps
Given how this session went, try these:
1. Practice incline problems with friction.
2. Rehearse outlining a full plan first.`

func TestParseAllSections(t *testing.T) {
	s := Parse(sampleSummary)
	if s.Approach == "" || s.DeepDive == "" || s.Strengths == "" || s.Growth == "" || s.NextSteps == "" {
		t.Fatalf("expected every section populated, got %+v", s)
	}
	if want := "You started by measuring the incline angle and worked carefully from there.\nYou revised your plan after the first hint."; s.Approach != want {
		t.Fatalf("Approach = %q, want %q", s.Approach, want)
	}
	if want := "- Try estimating the answer before computing it."; s.Growth != want {
		t.Fatalf("Growth = %q, want %q", s.Growth, want)
	}
}

func TestParseMissingHeadersYieldEmptySections(t *testing.T) {
	s := Parse("just some prose with no headings at all")
	if s != (Sections{}) {
		t.Fatalf("expected all-empty sections, got %+v", s)
	}

	s = Parse("### Summary of your approach\nonly this one")
	if s.Approach != "only this one" {
		t.Fatalf("Approach = %q", s.Approach)
	}
	if s.DeepDive != "" || s.NextSteps != "" {
		t.Fatalf("missing sections should stay empty, got %+v", s)
	}
}

func TestParseLegacyAliases(t *testing.T) {
	text := `## Overall approach
alias approach text

## Four-dimension deep dive
Conceptual Foundation: alias deep dive line.

## Strengths
alias strengths

## Growth areas
alias growth

## Next steps
alias next`
	s := Parse(text)
	if s.Approach != "alias approach text" {
		t.Fatalf("Approach = %q", s.Approach)
	}
	if s.Strengths != "alias strengths" {
		t.Fatalf("Strengths = %q", s.Strengths)
	}
	if s.Growth != "alias growth" {
		t.Fatalf("Growth = %q", s.Growth)
	}
	if s.NextSteps != "alias next" {
		t.Fatalf("NextSteps = %q", s.NextSteps)
	}
}

func TestParseReorderedAndUnknownHeadings(t *testing.T) {
	text := `### Suggested next practice steps
steps first

### Archetype assignment
this section is not recognized and its text is dropped

### Summary of your approach
approach last`
	s := Parse(text)
	if s.NextSteps != "steps first" {
		t.Fatalf("NextSteps = %q", s.NextSteps)
	}
	if s.Approach != "approach last" {
		t.Fatalf("Approach = %q", s.Approach)
	}
	if s.DeepDive != "" {
		t.Fatalf("unknown heading text must be discarded, got %q", s.DeepDive)
	}
}

func TestParseHeaderCaseInsensitive(t *testing.T) {
	s := Parse("# SUMMARY OF YOUR APPROACH\nupper case header")
	if s.Approach != "upper case header" {
		t.Fatalf("Approach = %q", s.Approach)
	}
}

func TestDimensionRationale(t *testing.T) {
	deepDive := `Conceptual Foundation: leans on first-principles reasoning.
- Strategic Insight: you planned the whole path.
**Mathematical Execution**: stayed symbolic throughout.
Reflective Intuition you checked plausibility.`

	cases := []struct {
		name      string
		dimension string
		want      string
	}{
		{
			name:      "plain_line",
			dimension: "Conceptual Foundation",
			want:      "leans on first-principles reasoning.",
		},
		{
			name:      "bulleted_line",
			dimension: "Strategic Insight",
			want:      "you planned the whole path.",
		},
		{
			name:      "bold_markers",
			dimension: "Mathematical Execution",
			want:      "stayed symbolic throughout.",
		},
		{
			name:      "case_insensitive",
			dimension: "conceptual foundation",
			want:      "leans on first-principles reasoning.",
		},
		{
			name:      "no_colon",
			dimension: "Reflective Intuition",
			want:      "you checked plausibility.",
		},
		{
			name:      "unmatched",
			dimension: "Creative Flair",
			want:      "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DimensionRationale(deepDive, tc.dimension)
			if got != tc.want {
				t.Fatalf("DimensionRationale(%q)=%q, want %q", tc.dimension, got, tc.want)
			}
		})
	}
}
