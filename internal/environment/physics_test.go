package environment

import (
	"math"
	"strings"
	"testing"
)

func TestGenerateParamRanges(t *testing.T) {
	for i := 0; i < 50; i++ {
		p := generateIncline()
		if p["mass"] < 2 || p["mass"] > 20 {
			t.Fatalf("incline mass out of range: %v", p["mass"])
		}
		if p["coeff_static_friction"] < 0.2 || p["coeff_static_friction"] > 0.8 {
			t.Fatalf("incline mu out of range: %v", p["coeff_static_friction"])
		}
		if p["incline_angle"] < 5 || p["incline_angle"] > 50 {
			t.Fatalf("incline angle out of range: %v", p["incline_angle"])
		}
	}
	for i := 0; i < 50; i++ {
		p := generatePendulum()
		want := 2 * math.Pi * math.Sqrt(p["length"]/gravity)
		if math.Abs(p["period"]-want) > 0.001 {
			t.Fatalf("pendulum period %v inconsistent with length %v", p["period"], p["length"])
		}
	}
	for i := 0; i < 50; i++ {
		p := generateRocket()
		if p["final_mass"] >= p["initial_mass"] {
			t.Fatalf("rocket final mass %v >= initial mass %v", p["final_mass"], p["initial_mass"])
		}
		want := p["exhaust_velocity"] * math.Log(p["initial_mass"]/p["final_mass"])
		if math.Abs(p["delta_v"]-want) > 0.01 {
			t.Fatalf("rocket delta_v %v inconsistent, want %v", p["delta_v"], want)
		}
	}
}

func TestValidateAnswerIncline(t *testing.T) {
	env := &Environment{
		Type:   TypeBlockOnIncline,
		Params: map[string]float64{"coeff_static_friction": 0.45},
	}
	cases := []struct {
		name   string
		answer float64
		want   bool
	}{
		{name: "exact", answer: 0.45, want: true},
		{name: "within_tolerance", answer: 0.455, want: true},
		{name: "at_boundary", answer: 0.46, want: false},
		{name: "far_off", answer: 0.9, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, feedback := env.ValidateAnswer(tc.answer)
			if got != tc.want {
				t.Fatalf("ValidateAnswer(%v)=%v, want %v", tc.answer, got, tc.want)
			}
			if feedback == "" {
				t.Fatalf("expected feedback text")
			}
		})
	}
}

func TestValidateAnswerPendulumRelativeTolerance(t *testing.T) {
	env := &Environment{
		Type:   TypePendulum,
		Params: map[string]float64{"period": 2.0},
	}
	if ok, _ := env.ValidateAnswer(2.09); !ok {
		t.Fatalf("answer within 5%% should validate")
	}
	if ok, _ := env.ValidateAnswer(2.11); ok {
		t.Fatalf("answer beyond 5%% should not validate")
	}
}

func TestValidateAnswerProjectileAcceptsAnyQuantity(t *testing.T) {
	env := &Environment{
		Type: TypeProjectileMotion,
		Params: map[string]float64{
			"range":          52.34,
			"max_height":     11.02,
			"time_of_flight": 3.27,
		},
	}
	for _, answer := range []float64{52.34, 11.02, 3.27, 3.21} {
		ok, feedback := env.ValidateAnswer(answer)
		if answer == 3.21 {
			if ok {
				t.Fatalf("answer %v should be incorrect", answer)
			}
			if !strings.Contains(feedback, "range=") {
				t.Fatalf("incorrect feedback should list expected values, got %q", feedback)
			}
			continue
		}
		if !ok {
			t.Fatalf("answer %v should validate, got %q", answer, feedback)
		}
	}
}

func TestValidateAnswerRocket(t *testing.T) {
	env := &Environment{
		Type:   TypeRocketEquation,
		Params: map[string]float64{"delta_v": 3000},
	}
	if ok, _ := env.ValidateAnswer(3050); !ok {
		t.Fatalf("answer within 2%% should validate")
	}
	if ok, _ := env.ValidateAnswer(3070); ok {
		t.Fatalf("answer beyond 2%% should not validate")
	}
}

func TestValidateAnswerUnknownType(t *testing.T) {
	env := &Environment{Type: "bogus", Params: map[string]float64{}}
	if ok, _ := env.ValidateAnswer(1); ok {
		t.Fatalf("unknown type should never validate")
	}
}
