package model

// PredictionResult is the pipeline's output: both predictions, rounded to two decimals.
type PredictionResult struct {
	ProjectedRiskReduction float64 `json:"Projected_Risk_Reduction"`
	OutcomeHealthScore     float64 `json:"Outcome_Health_Score"`
}
