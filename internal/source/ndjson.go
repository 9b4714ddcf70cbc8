package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// ErrNotObject marks a line that parsed as JSON but is not an object.
var ErrNotObject = errors.New("source: not a JSON object")

const maxLineSize = 1 << 20

// NDJSON reads one profile per line. Blank lines are skipped but still
// counted, so RawProfile.Line matches the line number in the input.
type NDJSON struct {
	r io.Reader
}

// NewNDJSON creates an NDJSON source over r.
func NewNDJSON(r io.Reader) *NDJSON {
	return &NDJSON{r: r}
}

func (s *NDJSON) Stream(ctx context.Context) (<-chan model.RawProfile, error) {
	ch := make(chan model.RawProfile, 64)
	go func() {
		defer close(ch)

		sc := bufio.NewScanner(s.r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		line := 0
		for sc.Scan() {
			line++
			text := bytes.TrimSpace(sc.Bytes())
			if len(text) == 0 {
				continue
			}
			if !send(ctx, ch, Parse(line, text)) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			send(ctx, ch, model.RawProfile{Line: line + 1, Err: fmt.Errorf("source: read: %w", err)})
		}
	}()
	return ch, nil
}

func send(ctx context.Context, ch chan<- model.RawProfile, p model.RawProfile) bool {
	select {
	case ch <- p:
		return true
	case <-ctx.Done():
		return false
	}
}

// Parse decodes one JSON object. Numbers are kept as json.Number so the
// validator sees the literal the caller sent.
func Parse(line int, data []byte) model.RawProfile {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return model.RawProfile{Line: line, Err: fmt.Errorf("source: %w", err)}
	}
	if dec.More() {
		return model.RawProfile{Line: line, Err: errors.New("source: trailing data after object")}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return model.RawProfile{Line: line, Err: ErrNotObject}
	}
	return model.RawProfile{Line: line, Fields: obj}
}
