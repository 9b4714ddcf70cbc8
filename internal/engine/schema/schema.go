package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// Validate checks that raw carries every required field and builds a typed
// HealthProfile from it. Presence is checked for all fields before any value
// is converted, so a record missing fields always yields a ValidationError.
// Keys outside the required set are ignored.
func Validate(raw map[string]any) (model.HealthProfile, error) {
	var missing []string
	for _, f := range model.FeatureOrder {
		if _, ok := raw[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return model.HealthProfile{}, &model.ValidationError{
			Required: model.RequiredFields(),
			Missing:  missing,
		}
	}

	b := builder{raw: raw}
	p := model.HealthProfile{
		Age:              b.number(model.FieldAge),
		Gender:           b.label(model.FieldGender),
		Ethnicity:        b.label(model.FieldEthnicity),
		Region:           b.label(model.FieldRegion),
		BMI:              b.number(model.FieldBMI),
		Hypertension:     b.number(model.FieldHypertension),
		Diabetes:         b.number(model.FieldDiabetes),
		Omega3Intake:     b.number(model.FieldOmega3Intake),
		VitaminDIntake:   b.number(model.FieldVitaminDIntake),
		ProteinIntake:    b.number(model.FieldProteinIntake),
		GeneticRiskScore: b.number(model.FieldGeneticRiskScore),
		DietType:         b.label(model.FieldDietType),
		YearsFollowed:    b.number(model.FieldYearsFollowed),
	}
	if b.err != nil {
		return model.HealthProfile{}, b.err
	}
	return p, nil
}

// builder converts fields one at a time and keeps the first failure.
type builder struct {
	raw map[string]any
	err error
}

func (b *builder) number(field string) float64 {
	if b.err != nil {
		return 0
	}
	f, err := ToFloat(field, b.raw[field])
	if err != nil {
		b.err = err
	}
	return f
}

func (b *builder) label(field string) string {
	if b.err != nil {
		return ""
	}
	s, ok := b.raw[field].(string)
	if !ok {
		b.err = &model.TypeConversionError{Field: field, Value: b.raw[field], Want: "string"}
	}
	return s
}

// ToFloat reads v as a finite float64. Numbers of any Go kind, json.Number,
// booleans (as 0/1) and numeric strings are accepted.
func ToFloat(field string, v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case json.Number:
		f, err = x.Float64()
	case string:
		s := strings.TrimSpace(x)
		if isHexLiteral(s) {
			return 0, &model.TypeConversionError{Field: field, Value: v, Want: "number"}
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, &model.TypeConversionError{Field: field, Value: v, Want: "number"}
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &model.TypeConversionError{Field: field, Value: v, Want: "number"}
	}
	return f, nil
}

// isHexLiteral reports whether s is a hexadecimal float such as "0x1p4".
// strconv accepts those but numeric strings are decimal only.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
