package formatter

import (
	"math"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// Round2 rounds x to two decimal places the way numpy rounds a float64:
// scale by 100, round half to even, scale back. The tie is decided on the
// scaled product, so 0.015 rounds to 0.02 and 0.025 to 0.02.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.RoundToEven(x*100) / 100
}

// Format packages both raw predictions into a PredictionResult.
func Format(risk, health float64) model.PredictionResult {
	return model.PredictionResult{
		ProjectedRiskReduction: Round2(risk),
		OutcomeHealthScore:     Round2(health),
	}
}
