package model

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which class of failure stopped a prediction.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnknownCategory Kind = "unknown_category"
	KindTypeConversion  Kind = "type_conversion"
	KindConfiguration   Kind = "configuration"
	KindInference       Kind = "inference"
)

// ValidationError reports a profile missing required fields. The message
// always lists the full required set, not only what was missing.
type ValidationError struct {
	Required []string
	Missing  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("input is missing one or more required fields: [%s]", strings.Join(e.Required, ", "))
}

// UnknownCategoryError reports a categorical value outside the fitted label set.
type UnknownCategoryError struct {
	Field string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category in '%s': %q is not a valid value", e.Field, e.Value)
}

// TypeConversionError reports a value that cannot be read as the field's type.
type TypeConversionError struct {
	Field string
	Value any
	Want  string // "number" or "string"
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("field '%s': cannot use %v (%T) as %s", e.Field, e.Value, e.Value, e.Want)
}

// ConfigurationError reports incomplete or inconsistent artifacts. It is
// never the caller's fault.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return "configuration: " + e.Msg
	}
	return fmt.Sprintf("configuration: %s: %v", e.Msg, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// InferenceError reports a model failing on a well-formed feature vector.
type InferenceError struct {
	Model string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference: model %s: %v", e.Model, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first pipeline error in err's chain.
func KindOf(err error) (Kind, bool) {
	var (
		ve *ValidationError
		ue *UnknownCategoryError
		te *TypeConversionError
		ce *ConfigurationError
		ie *InferenceError
	)
	switch {
	case err == nil:
		return "", false
	case errors.As(err, &ve):
		return KindValidation, true
	case errors.As(err, &ue):
		return KindUnknownCategory, true
	case errors.As(err, &te):
		return KindTypeConversion, true
	case errors.As(err, &ce):
		return KindConfiguration, true
	case errors.As(err, &ie):
		return KindInference, true
	}
	return "", false
}

// IsClientFault reports whether err was caused by the caller's input.
func IsClientFault(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	switch k {
	case KindValidation, KindUnknownCategory, KindTypeConversion:
		return true
	}
	return false
}

// FieldOf returns the input field an error names, if any.
func FieldOf(err error) string {
	var (
		ue *UnknownCategoryError
		te *TypeConversionError
	)
	switch {
	case errors.As(err, &ue):
		return ue.Field
	case errors.As(err, &te):
		return te.Field
	}
	return ""
}
