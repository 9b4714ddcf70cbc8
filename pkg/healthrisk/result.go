package healthrisk

import (
	"github.com/crimson-sun/healthrisk/internal/model"
)

// Result holds both predictions, rounded to two decimal places.
// This is the stable public type.
type Result struct {
	ProjectedRiskReduction float64 `json:"Projected_Risk_Reduction"`
	OutcomeHealthScore     float64 `json:"Outcome_Health_Score"`
}

func resultFromModel(r model.PredictionResult) Result {
	return Result{
		ProjectedRiskReduction: r.ProjectedRiskReduction,
		OutcomeHealthScore:     r.OutcomeHealthScore,
	}
}

// Error types returned by Predict. Use errors.As to inspect them.
type (
	ValidationError      = model.ValidationError
	UnknownCategoryError = model.UnknownCategoryError
	TypeConversionError  = model.TypeConversionError
	ConfigurationError   = model.ConfigurationError
	InferenceError       = model.InferenceError
)

// Kind identifies the class of a prediction failure.
type Kind = model.Kind

const (
	KindValidation      = model.KindValidation
	KindUnknownCategory = model.KindUnknownCategory
	KindTypeConversion  = model.KindTypeConversion
	KindConfiguration   = model.KindConfiguration
	KindInference       = model.KindInference
)

// KindOf returns the kind of a prediction error.
func KindOf(err error) (Kind, bool) { return model.KindOf(err) }

// IsClientFault reports whether err was caused by the input profile rather
// than the artifacts or models.
func IsClientFault(err error) bool { return model.IsClientFault(err) }

// RequiredFields lists the profile fields in model column order.
func RequiredFields() []string { return model.RequiredFields() }
