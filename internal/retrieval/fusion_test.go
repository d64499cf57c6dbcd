package retrieval

import (
	"math"
	"reflect"
	"testing"

	"georag/internal/domain"
)

func TestFuse_ScenarioFactBeforeDocumentOnTie(t *testing.T) {
	fact := domain.Fact{Subject: "Germany", Relation: "BORDERS_WITH", Object: "Poland"}
	doc := domain.Document{ID: "1", Text: "Germany is in Europe."}

	got := Fuse([][]string{{fact.Display()}, {doc.Display()}}, 60)
	want := []string{
		"[KG] [Germany] -[:BORDERS_WITH]-> [Poland]",
		"[TEXT] Germany is in Europe.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Fuse() = %v, want %v", got, want)
	}
}

func TestFuseBy_AccumulatesAcrossLists(t *testing.T) {
	for _, k := range []int{1, 5, 60, 1000} {
		lists := [][]string{
			{"a", "shared", "b"},
			{"c", "d", "e", "shared"},
		}
		ranked := FuseBy(lists, k, func(s string) string { return s })

		var shared, single float64
		for _, r := range ranked {
			switch r.Item {
			case "shared":
				shared = r.Score
			case "a":
				single = r.Score
			}
		}

		want := 1.0/float64(k+1+1) + 1.0/float64(k+3+1)
		if math.Abs(shared-want) > 1e-12 {
			t.Errorf("k=%d: shared score = %v, want %v", k, shared, want)
		}
		if shared <= 1.0/float64(k+1+1) || shared <= 1.0/float64(k+3+1) {
			t.Errorf("k=%d: accumulated score %v should exceed each single occurrence", k, shared)
		}
		if single != 1.0/float64(k+1) {
			t.Errorf("k=%d: single score = %v, want %v", k, single, 1.0/float64(k+1))
		}
	}
}

func TestFuse_StableTies(t *testing.T) {
	// Every item sits at the same rank of its own list, so all scores tie.
	lists := [][]string{{"x"}, {"y"}, {"z"}, {"w"}}
	got := Fuse(lists, 60)
	want := []string{"x", "y", "z", "w"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Fuse() = %v, want %v", got, want)
	}

	// Ties inside a single list also keep list order.
	got = Fuse([][]string{{"p", "q"}, {"q2", "p2"}}, 60)
	want = []string{"p", "q2", "q", "p2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Fuse() = %v, want %v", got, want)
	}
}

func TestFuse_Total(t *testing.T) {
	lists := [][]string{
		{"a", "b", "c"},
		{},
		{"c", "d"},
		{"a", "e", "b"},
	}
	got := Fuse(lists, 60)

	distinct := map[string]bool{}
	for _, l := range lists {
		for _, s := range l {
			distinct[s] = true
		}
	}
	if len(got) != len(distinct) {
		t.Fatalf("Fuse() returned %d items, want %d", len(got), len(distinct))
	}
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Errorf("Fuse() returned duplicate %q", s)
		}
		seen[s] = true
		if !distinct[s] {
			t.Errorf("Fuse() returned unknown item %q", s)
		}
	}
	if got[0] != "a" {
		t.Errorf("Fuse()[0] = %q, want a (appears first in two lists)", got[0])
	}
}

func TestFuse_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		lists [][]string
	}{
		{name: "nil", lists: nil},
		{name: "no lists", lists: [][]string{}},
		{name: "only empty lists", lists: [][]string{{}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fuse(tt.lists, 60)
			if got == nil || len(got) != 0 {
				t.Errorf("Fuse() = %#v, want empty non-nil slice", got)
			}
		})
	}
}

func TestFuseBy_NonPositiveConstantFallsBack(t *testing.T) {
	ranked := FuseBy([][]string{{"a"}}, 0, func(s string) string { return s })
	if len(ranked) != 1 || ranked[0].Score != 1.0/float64(DefaultRRFConstant+1) {
		t.Fatalf("FuseBy() with k=0 = %+v, want score 1/%d", ranked, DefaultRRFConstant+1)
	}
}

func TestFuseItems_KeyModes(t *testing.T) {
	docs := []Item{
		domain.Document{ID: "1", Text: "Paris is the capital of France."},
		domain.Document{ID: "2", Text: "Paris is the capital of France."},
	}

	display := FuseItems([][]Item{docs}, 60, KeyDisplay)
	if len(display) != 1 {
		t.Errorf("KeyDisplay fused %d items, want 1", len(display))
	}
	if got := display[0].Item.(domain.Document).ID; got != "1" {
		t.Errorf("KeyDisplay kept document %q, want first occurrence 1", got)
	}

	structured := FuseItems([][]Item{docs}, 60, KeyStructured)
	if len(structured) != 2 {
		t.Errorf("KeyStructured fused %d items, want 2", len(structured))
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseRRFMode(""); err != nil || m != RRFCanonical {
		t.Errorf("ParseRRFMode(\"\") = %v, %v", m, err)
	}
	if m, err := ParseRRFMode("result_count"); err != nil || m != RRFResultCount {
		t.Errorf("ParseRRFMode(result_count) = %v, %v", m, err)
	}
	if _, err := ParseRRFMode("bogus"); err == nil {
		t.Error("ParseRRFMode(bogus) should fail")
	}
	if m, err := ParseKeyMode("structured"); err != nil || m != KeyStructured {
		t.Errorf("ParseKeyMode(structured) = %v, %v", m, err)
	}
	if _, err := ParseKeyMode("triple"); err == nil {
		t.Error("ParseKeyMode(triple) should fail")
	}
}
