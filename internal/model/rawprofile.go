package model

// RawProfile is an unvalidated record produced by a source and consumed by the engine.
type RawProfile struct {
	Line   int            // 1-based position in the source
	Fields map[string]any // parsed body
	Err    error          // set when the record could not be parsed
}
