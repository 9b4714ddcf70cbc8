package source

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/crimson-sun/healthrisk/internal/model"
)

func collect(t *testing.T, ch <-chan model.RawProfile) []model.RawProfile {
	t.Helper()
	var out []model.RawProfile
	for p := range ch {
		out = append(out, p)
	}
	return out
}

func TestNDJSONStream(t *testing.T) {
	input := `{"Age": 45, "Gender": "Male"}

[1, 2, 3]
{"Age": "old"
{"BMI": 24.5}
`
	ch, err := NewNDJSON(strings.NewReader(input)).Stream(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := collect(t, ch)
	if len(got) != 4 {
		t.Fatalf("got %d profiles, want 4", len(got))
	}

	if got[0].Line != 1 || got[0].Err != nil {
		t.Errorf("first = %+v", got[0])
	}
	if n, ok := got[0].Fields["Age"].(json.Number); !ok || n.String() != "45" {
		t.Errorf("Age = %#v, want json.Number 45", got[0].Fields["Age"])
	}

	if got[1].Line != 3 || !errors.Is(got[1].Err, ErrNotObject) {
		t.Errorf("array line = %+v, want ErrNotObject on line 3", got[1])
	}
	if got[2].Line != 4 || got[2].Err == nil {
		t.Errorf("truncated line = %+v, want parse error on line 4", got[2])
	}
	if got[3].Line != 5 || got[3].Err != nil {
		t.Errorf("last = %+v", got[3])
	}
}

func TestParseTrailingData(t *testing.T) {
	p := Parse(7, []byte(`{"a":1} {"b":2}`))
	if p.Err == nil {
		t.Fatal("expected error for two objects on one line")
	}
	if p.Line != 7 {
		t.Errorf("Line = %d, want 7", p.Line)
	}
}

func TestNDJSONCancel(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1000; i++ {
		b.WriteString(`{"Age": 1}` + "\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NewNDJSON(strings.NewReader(b.String())).Stream(ctx)
	if err != nil {
		t.Fatal(err)
	}
	<-ch
	cancel()

	n := 0
	for range ch {
		n++
	}
	if n >= 999 {
		t.Errorf("stream did not stop after cancel (read %d more)", n)
	}
}
