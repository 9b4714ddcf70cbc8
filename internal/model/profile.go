package model

// Field names of a health profile.
const (
	FieldAge              = "Age"
	FieldGender           = "Gender"
	FieldEthnicity        = "Ethnicity"
	FieldRegion           = "Region"
	FieldBMI              = "BMI"
	FieldHypertension     = "Hypertension"
	FieldDiabetes         = "Diabetes"
	FieldOmega3Intake     = "Omega_3_Intake"
	FieldVitaminDIntake   = "Vitamin_D_Intake"
	FieldProteinIntake    = "Protein_Intake"
	FieldGeneticRiskScore = "Genetic_Risk_Score"
	FieldDietType         = "Diet_Type"
	FieldYearsFollowed    = "Years_Followed"
)

const (
	NumFeatures = 13
	NumScaled   = 7
)

// FeatureOrder is the column order the models and scaler were fitted with.
// It never depends on the order fields arrive in.
var FeatureOrder = [NumFeatures]string{
	FieldAge,
	FieldGender,
	FieldEthnicity,
	FieldRegion,
	FieldBMI,
	FieldHypertension,
	FieldDiabetes,
	FieldOmega3Intake,
	FieldVitaminDIntake,
	FieldProteinIntake,
	FieldGeneticRiskScore,
	FieldDietType,
	FieldYearsFollowed,
}

// CategoricalFields are label-encoded, in encoding order.
var CategoricalFields = [4]string{FieldGender, FieldEthnicity, FieldRegion, FieldDietType}

// ScaledFields are standardized, in the order the scaler was fitted with.
var ScaledFields = [NumScaled]string{
	FieldAge,
	FieldBMI,
	FieldOmega3Intake,
	FieldVitaminDIntake,
	FieldProteinIntake,
	FieldGeneticRiskScore,
	FieldYearsFollowed,
}

// PassthroughFields are numeric but reach the models unscaled.
var PassthroughFields = [2]string{FieldHypertension, FieldDiabetes}

var columns = func() map[string]int {
	m := make(map[string]int, NumFeatures)
	for i, f := range FeatureOrder {
		m[f] = i
	}
	return m
}()

// Column returns the index of field in a FeatureVector, or -1.
func Column(field string) int {
	if i, ok := columns[field]; ok {
		return i
	}
	return -1
}

// RequiredFields returns every field a profile must carry.
func RequiredFields() []string {
	out := make([]string, NumFeatures)
	copy(out, FeatureOrder[:])
	return out
}

// IsCategorical reports whether field holds a string label.
func IsCategorical(field string) bool {
	for _, f := range CategoricalFields {
		if f == field {
			return true
		}
	}
	return false
}

// HealthProfile is a validated, typed input record.
type HealthProfile struct {
	Age              float64
	Gender           string
	Ethnicity        string
	Region           string
	BMI              float64
	Hypertension     float64
	Diabetes         float64
	Omega3Intake     float64
	VitaminDIntake   float64
	ProteinIntake    float64
	GeneticRiskScore float64
	DietType         string
	YearsFollowed    float64
}

// Category returns the label held by a categorical field.
func (p HealthProfile) Category(field string) string {
	switch field {
	case FieldGender:
		return p.Gender
	case FieldEthnicity:
		return p.Ethnicity
	case FieldRegion:
		return p.Region
	case FieldDietType:
		return p.DietType
	}
	return ""
}

// Numeric returns the value held by a numeric field.
func (p HealthProfile) Numeric(field string) float64 {
	switch field {
	case FieldAge:
		return p.Age
	case FieldBMI:
		return p.BMI
	case FieldHypertension:
		return p.Hypertension
	case FieldDiabetes:
		return p.Diabetes
	case FieldOmega3Intake:
		return p.Omega3Intake
	case FieldVitaminDIntake:
		return p.VitaminDIntake
	case FieldProteinIntake:
		return p.ProteinIntake
	case FieldGeneticRiskScore:
		return p.GeneticRiskScore
	case FieldYearsFollowed:
		return p.YearsFollowed
	}
	return 0
}

// FeatureVector is a profile ready for model consumption, laid out in FeatureOrder.
type FeatureVector [NumFeatures]float64
