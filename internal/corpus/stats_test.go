package corpus

import (
	"context"
	"strings"
	"testing"

	"georag/internal/storage"
)

func TestComputeTokenStats(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   TokenStats
	}{
		{name: "empty", counts: nil, want: TokenStats{}},
		{name: "single", counts: []int{7}, want: TokenStats{Min: 7, Max: 7, Mean: 7, P95: 7}},
		{name: "unsorted", counts: []int{30, 10, 20}, want: TokenStats{Min: 10, Max: 30, Mean: 20, P95: 30}},
		{name: "rounded mean", counts: []int{1, 1, 2}, want: TokenStats{Min: 1, Max: 2, Mean: 1.33, P95: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeTokenStats(tt.counts); got != tt.want {
				t.Errorf("computeTokenStats(%v) = %+v, want %+v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestCoverage(t *testing.T) {
	db, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	sources := storage.NewSourceRepo(db)
	docs := storage.NewDocumentRepo(db)

	stats, err := Coverage(ctx, sources, docs)
	if err != nil {
		t.Fatalf("Coverage() error = %v", err)
	}
	if stats.Documents != 0 || len(stats.Sources) != 0 {
		t.Errorf("Coverage() on empty index = %+v", stats)
	}

	src, err := sources.GetOrCreateByName(ctx, "docs.json", "/data/docs.json")
	if err != nil {
		t.Fatalf("GetOrCreateByName() error = %v", err)
	}
	texts := []string{strings.Repeat("a", 40), strings.Repeat("b", 80)}
	for i, text := range texts {
		rec := &storage.DocumentRecord{
			PointID:  PointID("docs.json", string(rune('a'+i))),
			SourceID: src.ID,
			DocID:    string(rune('a' + i)),
			Position: i,
			Text:     text,
			Hash:     hashOf(text),
		}
		if err := docs.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	stats, err = Coverage(ctx, sources, docs)
	if err != nil {
		t.Fatalf("Coverage() error = %v", err)
	}
	if stats.Documents != 2 {
		t.Errorf("Documents = %d, want 2", stats.Documents)
	}
	if len(stats.Sources) != 1 || stats.Sources[0].Name != "docs.json" || stats.Sources[0].Documents != 2 {
		t.Errorf("Sources = %+v", stats.Sources)
	}
	want := TokenStats{Min: 10, Max: 20, Mean: 15, P95: 20}
	if stats.TokenStats != want {
		t.Errorf("TokenStats = %+v, want %+v", stats.TokenStats, want)
	}
}
