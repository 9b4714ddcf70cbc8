package encoder

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// Encoder maps one categorical field's fitted labels to integer codes. The
// code of a label is its index in the fitted class list.
type Encoder struct {
	field   string
	classes []string
	codes   map[string]int
}

// New creates an Encoder for field from its fitted classes. Labels are
// compared in Unicode NFC form; two classes that collapse to the same form
// are rejected.
func New(field string, classes []string) (*Encoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder %s: no classes", field)
	}
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		key := norm.NFC.String(c)
		if _, dup := codes[key]; dup {
			return nil, fmt.Errorf("encoder %s: duplicate class %q", field, c)
		}
		codes[key] = i
	}
	return &Encoder{
		field:   field,
		classes: append([]string(nil), classes...),
		codes:   codes,
	}, nil
}

// Field returns the categorical field this encoder serves.
func (e *Encoder) Field() string { return e.field }

// Classes returns a copy of the fitted labels in code order.
func (e *Encoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Transform returns the code for label. Labels outside the fitted set fail
// with UnknownCategoryError; they never fall back to a default code.
func (e *Encoder) Transform(label string) (int, error) {
	code, ok := e.codes[norm.NFC.String(label)]
	if !ok {
		return 0, &model.UnknownCategoryError{Field: e.field, Value: label}
	}
	return code, nil
}

// Set holds one Encoder per categorical field.
type Set struct {
	encoders map[string]*Encoder
}

// NewSet groups encoders by field.
func NewSet(encoders ...*Encoder) (*Set, error) {
	m := make(map[string]*Encoder, len(encoders))
	for _, e := range encoders {
		if _, dup := m[e.field]; dup {
			return nil, fmt.Errorf("encoder set: duplicate field %s", e.field)
		}
		m[e.field] = e
	}
	return &Set{encoders: m}, nil
}

// Get returns the encoder for field.
func (s *Set) Get(field string) (*Encoder, bool) {
	e, ok := s.encoders[field]
	return e, ok
}

// Fields returns the encoded field names, sorted.
func (s *Set) Fields() []string {
	names := make([]string, 0, len(s.encoders))
	for name := range s.encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode transforms label using field's encoder. A field with no encoder is
// a deployment defect and fails with ConfigurationError.
func (s *Set) Encode(field, label string) (int, error) {
	e, ok := s.encoders[field]
	if !ok {
		return 0, &model.ConfigurationError{Msg: fmt.Sprintf("no label encoder for field %s", field)}
	}
	return e.Transform(label)
}

// Complete checks that every categorical field has an encoder.
func (s *Set) Complete() error {
	for _, f := range model.CategoricalFields {
		if _, ok := s.encoders[f]; !ok {
			return fmt.Errorf("encoder set: missing field %s", f)
		}
	}
	return nil
}

type document struct {
	Classes map[string][]string `validate:"required,min=1,dive,keys,required,endkeys,required,min=1,unique"`
}

var validate = validator.New()

// Load reads an encoder set from a JSON object mapping each field name to
// its fitted classes, e.g. {"Gender": ["Female", "Male"]}.
func Load(r io.Reader) (*Set, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc.Classes); err != nil {
		return nil, fmt.Errorf("encoder set: decode: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("encoder set: %w", err)
	}

	fields := make([]string, 0, len(doc.Classes))
	for f := range doc.Classes {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	encoders := make([]*Encoder, 0, len(fields))
	for _, f := range fields {
		e, err := New(f, doc.Classes[f])
		if err != nil {
			return nil, err
		}
		encoders = append(encoders, e)
	}
	return NewSet(encoders...)
}
