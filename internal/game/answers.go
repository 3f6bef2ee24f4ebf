package game

import (
	"regexp"
	"strconv"
)

var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// ExtractNumericAnswers pulls every numeric value out of free text, in
// order of appearance. Used when the tutor flags a turn as a final answer
// attempt: each candidate is checked against the environment.
func ExtractNumericAnswers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	var values []float64
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}
