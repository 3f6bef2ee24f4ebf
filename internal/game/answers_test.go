package game

import "testing"

func TestExtractNumericAnswers(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []float64
	}{
		{
			name: "single_decimal",
			text: "I think the answer is 0.45",
			want: []float64{0.45},
		},
		{
			name: "negative_and_integer",
			text: "maybe -3 or 12",
			want: []float64{-3, 12},
		},
		{
			name: "embedded_in_sentence",
			text: "the period should be about 2.84 seconds",
			want: []float64{2.84},
		},
		{
			name: "trailing_dot",
			text: "it's 5.",
			want: []float64{5},
		},
		{
			name: "no_numbers",
			text: "can I measure the angle?",
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractNumericAnswers(tc.text)
			if len(got) != len(tc.want) {
				t.Fatalf("ExtractNumericAnswers(%q)=%v, want %v", tc.text, got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("ExtractNumericAnswers(%q)[%d]=%v, want %v", tc.text, i, got[i], tc.want[i])
				}
			}
		})
	}
}
