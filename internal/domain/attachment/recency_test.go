package attachment

import "testing"

func recs(created ...int64) []Record {
	out := make([]Record, len(created))
	for i, c := range created {
		out[i] = Record{ID: string(rune('a' + i)), CreatedAt: c}
	}
	return out
}

func TestRecent_NewestFirst(t *testing.T) {
	in := recs(100, 300, 200)
	got := Recent(in, 2)

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].CreatedAt != 300 || got[1].CreatedAt != 200 {
		t.Errorf("expected [300 200], got [%d %d]", got[0].CreatedAt, got[1].CreatedAt)
	}
}

func TestRecent_Empty(t *testing.T) {
	got := Recent(nil, 8)
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d records", len(got))
	}
}

func TestRecent_Single(t *testing.T) {
	got := Recent(recs(42), 8)
	if len(got) != 1 || got[0].CreatedAt != 42 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestRecent_CapClamped(t *testing.T) {
	got := Recent(recs(1, 2, 3), 100)
	if len(got) != 3 {
		t.Errorf("expected 3 records, got %d", len(got))
	}
	got = Recent(recs(1, 2, 3), -1)
	if len(got) != 0 {
		t.Errorf("expected 0 records for negative cap, got %d", len(got))
	}
}

func TestRecent_TiesKeepSourceOrder(t *testing.T) {
	in := []Record{
		{ID: "first", CreatedAt: 50},
		{ID: "second", CreatedAt: 50},
		{ID: "third", CreatedAt: 50},
	}
	got := Recent(in, 3)
	for i, want := range []string{"first", "second", "third"} {
		if got[i].ID != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i].ID)
		}
	}
}

func TestRecent_IdempotentOnOwnOutput(t *testing.T) {
	first := Recent(recs(100, 300, 200, 400), 3)
	second := Recent(first, 3)
	if len(second) != len(first) {
		t.Fatalf("length changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if second[i] != first[i] {
			t.Errorf("position %d changed: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestRecent_InputNotMutated(t *testing.T) {
	in := recs(100, 300, 200)
	Recent(in, 3)
	if in[0].CreatedAt != 100 || in[1].CreatedAt != 300 || in[2].CreatedAt != 200 {
		t.Error("input slice was reordered")
	}
}

func TestFind(t *testing.T) {
	in := []Record{{ID: "aaa111"}, {ID: "bbb222"}}

	got, err := Find(in, "bbb222")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "bbb222" {
		t.Errorf("expected bbb222, got %s", got.ID)
	}
}

func TestFind_Missing(t *testing.T) {
	_, err := Find([]Record{{ID: "aaa111"}}, "zzz999")
	if err != ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestFind_Empty(t *testing.T) {
	_, err := Find(nil, "aaa111")
	if err != ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound on empty input, got %v", err)
	}
}
