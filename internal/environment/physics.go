package environment

import (
	"fmt"
	"math"
	"math/rand"
)

const gravity = 9.81

// Environment is one instantiated problem: catalog metadata plus the drawn
// parameters. Params is a flat map so the whole value serializes with the
// game state.
type Environment struct {
	Type      string             `json:"type"`
	Title     string             `json:"title"`
	Statement string             `json:"statement"`
	Probes    map[string]bool    `json:"probes"`
	Params    map[string]float64 `json:"params"`
}

func generateParams(problemType string) map[string]float64 {
	switch problemType {
	case TypeBlockOnIncline:
		return generateIncline()
	case TypePendulum:
		return generatePendulum()
	case TypeProjectileMotion:
		return generateProjectile()
	case TypeRocketEquation:
		return generateRocket()
	}
	return nil
}

func generateIncline() map[string]float64 {
	mass := float64(2 + rand.Intn(19))
	mu := round2(0.2 + rand.Float64()*0.6)

	// Bias the incline angle around the critical angle arctan(mu) so the
	// block is sometimes on the verge of slipping.
	thetaCritical := radToDeg(math.Atan(mu))
	var offset float64
	switch rand.Intn(3) {
	case 0:
		offset = -rand.Float64() * 5
	case 1:
		offset = 0
	default:
		offset = 0.1 + rand.Float64()*4.9
	}
	angle := round1(thetaCritical + offset)
	angle = math.Max(5, math.Min(angle, 50))

	return map[string]float64{
		"mass":                  mass,
		"incline_angle":         angle,
		"coeff_static_friction": mu,
		"gravity":               gravity,
	}
}

func generatePendulum() map[string]float64 {
	length := round2(0.5 + rand.Float64()*1.5)
	mass := round2(0.1 + rand.Float64()*1.9)
	amplitude := round1(5 + rand.Float64()*25)
	period := 2 * math.Pi * math.Sqrt(length/gravity)

	return map[string]float64{
		"length":        length,
		"mass":          mass,
		"initial_angle": amplitude,
		"gravity":       gravity,
		"period":        round3(period),
	}
}

func generateProjectile() map[string]float64 {
	v0 := round1(10 + rand.Float64()*40)
	angle := round1(15 + rand.Float64()*60)
	height := 0.0
	if rand.Intn(2) == 1 {
		height = round1(1 + rand.Float64()*9)
	}

	angleRad := degToRad(angle)
	v0x := v0 * math.Cos(angleRad)
	v0y := v0 * math.Sin(angleRad)

	var timeOfFlight float64
	if height > 0 {
		timeOfFlight = (v0y + math.Sqrt(v0y*v0y+2*gravity*height)) / gravity
	} else {
		timeOfFlight = 2 * v0y / gravity
	}

	return map[string]float64{
		"initial_velocity": v0,
		"launch_angle":     angle,
		"initial_height":   height,
		"gravity":          gravity,
		"range":            round2(v0x * timeOfFlight),
		"max_height":       round2(height + (v0y*v0y)/(2*gravity)),
		"time_of_flight":   round2(timeOfFlight),
	}
}

func generateRocket() map[string]float64 {
	initialMass := float64(1000 + rand.Intn(9001))
	maxFinal := math.Min(2000, initialMass/2)
	finalMass := float64(200 + rand.Intn(int(maxFinal)-199))
	exhaustVelocity := math.Round(2000 + rand.Float64()*2500)
	deltaV := exhaustVelocity * math.Log(initialMass/finalMass)

	return map[string]float64{
		"initial_mass":     initialMass,
		"final_mass":       finalMass,
		"fuel_mass":        initialMass - finalMass,
		"exhaust_velocity": exhaustVelocity,
		"delta_v":          round2(deltaV),
	}
}

// ValidateAnswer checks a candidate numeric answer against the environment's
// solution parameters, with per-problem tolerances matching how precisely
// each quantity can reasonably be measured.
func (e *Environment) ValidateAnswer(answer float64) (bool, string) {
	switch e.Type {
	case TypeBlockOnIncline:
		correct := e.Params["coeff_static_friction"]
		if math.Abs(answer-correct) < 0.01 {
			return true, fmt.Sprintf("Correct! The coefficient of static friction is %g.", correct)
		}
		return false, fmt.Sprintf("Incorrect. The correct coefficient is %g.", correct)

	case TypePendulum:
		period := e.Params["period"]
		if math.Abs(answer-period) < period*0.05 {
			return true, fmt.Sprintf("Correct! The period is %.3f s.", period)
		}
		return false, fmt.Sprintf("Incorrect. The correct period is %.3f s.", period)

	case TypeProjectileMotion:
		rng := e.Params["range"]
		maxHeight := e.Params["max_height"]
		timeOfFlight := e.Params["time_of_flight"]
		const tolerance = 0.1
		switch {
		case math.Abs(answer-rng) < tolerance:
			return true, fmt.Sprintf("Correct! The range is %.2f m.", rng)
		case math.Abs(answer-maxHeight) < tolerance:
			return true, fmt.Sprintf("Correct! The maximum height is %.2f m.", maxHeight)
		case math.Abs(answer-timeOfFlight) < tolerance:
			return true, fmt.Sprintf("Correct! The time of flight is %.2f s.", timeOfFlight)
		}
		return false, fmt.Sprintf(
			"Incorrect. Expected values: range=%.2f m, max_height=%.2f m, time_of_flight=%.2f s.",
			rng, maxHeight, timeOfFlight)

	case TypeRocketEquation:
		deltaV := e.Params["delta_v"]
		if math.Abs(answer-deltaV) < deltaV*0.02 {
			return true, fmt.Sprintf("Correct! The delta-v is %.2f m/s.", deltaV)
		}
		return false, fmt.Sprintf("Incorrect. The correct delta-v is %.2f m/s.", deltaV)
	}
	return false, "Invalid answer format. Please provide a numeric value."
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
