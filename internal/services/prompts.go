package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schrodchat/schrodchat-backend/internal/clients/openai"
	"github.com/schrodchat/schrodchat-backend/internal/game"
	"github.com/schrodchat/schrodchat-backend/internal/rubric"
)

func mustJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// decodeObject round-trips a decoded JSON object into a typed struct.
func decodeObject(obj map[string]any, out any) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func transcriptMessages(transcript []game.Message) []openai.Message {
	out := make([]openai.Message, 0, len(transcript))
	for _, m := range transcript {
		role := openai.RoleUser
		if m.Speaker == game.SpeakerAssistant {
			role = openai.RoleAssistant
		}
		out = append(out, openai.Message{Role: role, Content: m.Content})
	}
	return out
}

func promptTutorTurn(state *game.State) string {
	return fmt.Sprintf(`You are a physics tutor gamemaster.
The student is solving the following problem: %s
The current state of the environment is: %s

Based on the student's latest action, provide a helpful response (you may use markdown and LaTeX formatting ($$...$$ for display; $...$ for inline math) if helpful). If the student is measuring something, provide the value from the environment.
If the student is stuck, provide a Socratic hint: a hint that prompts the student to think about which step comes next. NEVER explicitly suggest a step or reveal the correct answer.
Keep the conversation student-led, don't provide any information that is not explicitly asked for.

Respond as JSON with two fields:
- "reply": your message to the student.
- "final_answer": true only when the student's latest message proposes a final numeric answer to the problem, otherwise false. Asking for a measurement or describing intermediate work is not a final answer.
Never state in the reply whether a proposed final answer is correct; the environment checks it.`,
		state.Problem, mustJSON(state.Params))
}

func schemaTutorTurn() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{
				"type":        "string",
				"description": "Tutor message shown to the student.",
			},
			"final_answer": map[string]any{
				"type":        "boolean",
				"description": "True when the latest student message proposes a final numeric answer.",
			},
		},
		"required":             []string{"reply", "final_answer"},
		"additionalProperties": false,
	}
}

func promptScoreTranscript(r *rubric.Rubric) string {
	var b strings.Builder
	b.WriteString("You are an expert physics educator. You will see a full transcript of an interaction between a student (role: user) and an AI tutor (role: assistant) working on a physics problem.\n")
	b.WriteString(fmt.Sprintf("Score the student on the dimensions below using a balanced, value-neutral Likert scale from %d to %d, where %d is the first endpoint, %d is the second endpoint, and 0 is balanced/mixed.\n\n", rubric.ScaleMin, rubric.ScaleMax, rubric.ScaleMin, rubric.ScaleMax))
	b.WriteString("Dimensions (in order):\n")
	for i, d := range r.Dimensions {
		b.WriteString(fmt.Sprintf("%d) %s — low: %s, high: %s. %s\n", i+1, d.Name, d.LowLabel, d.HighLabel, d.Criteria))
	}
	b.WriteString("\nReturn exactly one entry per dimension, in this order, with the names unchanged. Rationale is 1-2 sentences with evidence from the transcript. Neither endpoint is better; describe the tendency observed.")
	return b.String()
}

func schemaScoreTranscript(r *rubric.Rubric) map[string]any {
	names := make([]string, 0, len(r.Dimensions))
	for _, d := range r.Dimensions {
		names = append(names, d.Name)
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dimensions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type": "string",
							"enum": names,
						},
						"scale": map[string]any{
							"type":    "integer",
							"minimum": rubric.ScaleMin,
							"maximum": rubric.ScaleMax,
						},
						"rationale": map[string]any{
							"type": "string",
						},
					},
					"required":             []string{"name", "scale", "rationale"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"dimensions"},
		"additionalProperties": false,
	}
}

func scoreLines(scores []LikertScore) string {
	lines := make([]string, 0, len(scores))
	for _, s := range scores {
		lines = append(lines, fmt.Sprintf("- %s: scale %d (low='%s', high='%s'). Rationale: %s", s.Name, s.Scale, s.LowLabel, s.HighLabel, s.Rationale))
	}
	return strings.Join(lines, "\n")
}

func promptStudentSummary(r *rubric.Rubric, scores []LikertScore) string {
	var dims strings.Builder
	for i, d := range r.Dimensions {
		dims.WriteString(fmt.Sprintf("%d. **%s**:\n   - %s ↔ %s\n   - %s\n", i+1, d.Name, d.LowLabel, d.HighLabel, d.Criteria))
	}
	var dimLines strings.Builder
	for _, d := range r.Dimensions {
		dimLines.WriteString(fmt.Sprintf("%s: 2-3 sentences in second person describing the qualitative tendency (%s vs %s) with specific examples from the transcript.\n",
			d.Name, strings.ToLower(d.LowLabel), strings.ToLower(d.HighLabel)))
	}
	return fmt.Sprintf(`You are an expert physics educator and learning scientist.
You will see a full transcript of an interaction between a **student** (role: user) and an **AI tutor** (role: assistant) working on a physics problem.

Your task is to write **brief, supportive, student-facing feedback** that helps the student understand their problem-solving and critical-thinking approach and how to improve it.

**Problem-Solving Lens (value-neutral):**
Assess the student along these dimensions using a balanced Likert scale from %d to %d, where %d is the first endpoint, %d is the second endpoint, and 0 is balanced/mixed:

%s
Focus on:
- How the student approached understanding the problem and gathering information.
- How they reasoned through the physics concepts and equations.
- How they used feedback from the tutor to refine their thinking.
- Any misconceptions or fragile understandings that showed up.

Write your response **directly to the student**, not about them in the third person.
Be specific, kind, and actionable. Avoid jargon where possible.

Structure your response in this format:

### Summary of your approach
4-5 sentences summarizing how you tackled the problem and how your thinking evolved.

### Deep dive: how you showed up on the four dimensions
For each dimension, write 2-3 sentences in second person (addressing the student as "you") describing where they landed qualitatively. Do NOT mention the numeric scale value in the text. Write each dimension description as a complete sentence starting with the dimension name followed by a colon, not as a bullet point. Always use "you" and "your" throughout.
%s
### What you did well
2-3 bullets on concrete strengths shown in this session, with evidence from the transcript.

### Areas for growth
2-3 bullets on habits or gaps to work on, phrased supportively.

### Suggested next practice steps
Begin with a lead-in sentence that ties the next steps to what was observed in this session. Then provide 2-4 very concrete suggestions for what you could practice next (e.g., kinds of problems, specific strategies to rehearse, or reflection prompts), tied to what happened in this transcript.

Use the precomputed Likert scores below for consistency across views; do not change them. Align your text descriptions to these values:
%s

Do not include any JSON in the output. Neither endpoint is "better"; just describe the tendency observed.`,
		rubric.ScaleMin, rubric.ScaleMax, rubric.ScaleMin, rubric.ScaleMax,
		dims.String(), dimLines.String(), scoreLines(scores))
}

func promptTutorInsights(r *rubric.Rubric, scores []LikertScore) string {
	var dims strings.Builder
	for i, d := range r.Dimensions {
		dims.WriteString(fmt.Sprintf("%d) %s — %s ↔ %s\n", i+1, d.Name, d.LowLabel, d.HighLabel))
	}
	var snapshot strings.Builder
	for _, d := range r.Dimensions {
		snapshot.WriteString(fmt.Sprintf("- %s: placement with evidence and the %d..%d value.\n", d.Name, rubric.ScaleMin, rubric.ScaleMax))
	}
	return fmt.Sprintf(`You are an expert physics educator analyzing a tutoring session transcript.
You will see a full transcript of an interaction between a **student** (role: user) and an **AI tutor** (role: assistant) working on a physics problem.

Provide **tutor-facing insights** across the dimensions below, using a balanced Likert scale from %d to %d (value-neutral: %d = first endpoint, %d = second endpoint, 0 = balanced/mixed).

**Rubric (value-neutral):**
%s
Structure your response as:

### Four-dimension snapshot
%s
### Key observations from this session
- 2-4 bullets on notable behaviors, misconceptions, or turning points.

### Suggested tutor moves
- 2-4 bullets on targeted interventions or scaffolds to try next time, tied to the observed dimensions.

Use the precomputed Likert scores below for consistency across views; do not change them. Align your text descriptions to these values:
%s

Do not include any JSON in the output. Neither endpoint is "better"; just describe the tendency observed.`,
		rubric.ScaleMin, rubric.ScaleMax, rubric.ScaleMin, rubric.ScaleMax,
		dims.String(), snapshot.String(), scoreLines(scores))
}
