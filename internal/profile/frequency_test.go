package profile

import (
	"encoding/json"
	"testing"
)

func TestErrorFrequency_IncKeepsFirstSeenOrder(t *testing.T) {
	var f ErrorFrequency
	f.Inc(ErrorLogicGap)
	f.Inc(ErrorCarelessness)
	f.Inc(ErrorLogicGap)

	if got := f.Get(ErrorLogicGap); got != 2 {
		t.Errorf("logic_gap = %d, want 2", got)
	}
	if got := f.Get(ErrorCarelessness); got != 1 {
		t.Errorf("carelessness = %d, want 1", got)
	}
	if got := f.Get(ErrorNotAttempted); got != 0 {
		t.Errorf("not_attempted = %d, want 0", got)
	}
	if f[0].Tag != ErrorLogicGap || f[1].Tag != ErrorCarelessness {
		t.Errorf("order = %v, want [logic_gap carelessness]", f.Tags())
	}
	if f.Total() != 3 {
		t.Errorf("total = %d, want 3", f.Total())
	}
}

func TestErrorFrequency_TopBreaksTiesByInsertion(t *testing.T) {
	f := ErrorFrequency{
		{Tag: ErrorCalculation, Count: 2},
		{Tag: ErrorCarelessness, Count: 3},
		{Tag: ErrorLogicGap, Count: 2},
		{Tag: ErrorConceptConfusion, Count: 1},
	}

	top := f.Top(3)
	want := []ErrorTag{ErrorCarelessness, ErrorCalculation, ErrorLogicGap}
	if len(top) != len(want) {
		t.Fatalf("len = %d, want %d", len(top), len(want))
	}
	for i, tag := range want {
		if top[i].Tag != tag {
			t.Errorf("top[%d] = %q, want %q", i, top[i].Tag, tag)
		}
	}

	// Top must not reorder the receiver.
	if f[0].Tag != ErrorCalculation {
		t.Errorf("receiver reordered: %v", f.Tags())
	}
}

func TestErrorFrequency_MostFrequent(t *testing.T) {
	var empty ErrorFrequency
	if _, _, ok := empty.MostFrequent(); ok {
		t.Error("expected no result for empty frequency")
	}

	f := ErrorFrequency{
		{Tag: ErrorCalculation, Count: 2},
		{Tag: ErrorLogicGap, Count: 2},
	}
	tag, count, ok := f.MostFrequent()
	if !ok || tag != ErrorCalculation || count != 2 {
		t.Errorf("got (%q, %d, %v), want (calculation_error, 2, true)", tag, count, ok)
	}
}

func TestErrorFrequency_JSONPreservesOrder(t *testing.T) {
	f := ErrorFrequency{
		{Tag: ErrorLogicGap, Count: 4},
		{Tag: ErrorCarelessness, Count: 1},
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"logic_gap":4,"carelessness":1}` {
		t.Fatalf("got %s", data)
	}

	var back ErrorFrequency
	if err := json.Unmarshal([]byte(`{"carelessness":1,"logic_gap":4}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[0].Tag != ErrorCarelessness || back[1].Tag != ErrorLogicGap || back[1].Count != 4 {
		t.Errorf("got %+v", back)
	}
}

func TestErrorFrequency_UnmarshalRejectsArray(t *testing.T) {
	var f ErrorFrequency
	if err := json.Unmarshal([]byte(`[1,2]`), &f); err == nil {
		t.Fatal("expected error for array input")
	}
}

func TestErrorFrequency_Merge(t *testing.T) {
	f := ErrorFrequency{{Tag: ErrorLogicGap, Count: 1}}
	f.Merge(ErrorFrequency{
		{Tag: ErrorCarelessness, Count: 2},
		{Tag: ErrorLogicGap, Count: 3},
	})
	if f.Get(ErrorLogicGap) != 4 || f.Get(ErrorCarelessness) != 2 {
		t.Errorf("got %+v", f)
	}
	if f[1].Tag != ErrorCarelessness {
		t.Errorf("merged tag not appended: %v", f.Tags())
	}
}
