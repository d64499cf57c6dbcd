package corpus

import (
	"context"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"georag/internal/storage"
)

// TokensPerRune approximates tokens from characters (4 chars per token).
const TokensPerRune = 4.0

// SourceLister lists registered corpus files.
type SourceLister interface {
	ListAll(ctx context.Context) ([]storage.Source, error)
}

// CoverageStats describes what is currently indexed.
type CoverageStats struct {
	Sources    []SourceCoverage `json:"sources"`
	Documents  int              `json:"documents"`
	TokenStats TokenStats       `json:"token_stats"`
}

// SourceCoverage is the document count of one source.
type SourceCoverage struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Documents int    `json:"documents"`
}

// TokenStats summarizes estimated token counts per document.
type TokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// Coverage computes indexing coverage from the stored documents of every source.
func Coverage(ctx context.Context, sources SourceLister, docs storage.DocumentStore) (*CoverageStats, error) {
	all, err := sources.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	stats := &CoverageStats{Sources: make([]SourceCoverage, 0, len(all))}
	var tokenCounts []int
	for _, src := range all {
		records, err := docs.ListBySource(ctx, src.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents of %s: %w", src.Name, err)
		}
		stats.Sources = append(stats.Sources, SourceCoverage{Name: src.Name, Path: src.Path, Documents: len(records)})
		stats.Documents += len(records)
		for _, rec := range records {
			tokenCounts = append(tokenCounts, estimateTokens(rec.Text))
		}
	}

	stats.TokenStats = computeTokenStats(tokenCounts)
	return stats, nil
}

func estimateTokens(text string) int {
	n := int(math.Round(float64(utf8.RuneCountInString(text)) / TokensPerRune))
	if n < 1 {
		return 1
	}
	return n
}

// computeTokenStats computes min, max, mean and p95 from token counts.
func computeTokenStats(tokenCounts []int) TokenStats {
	if len(tokenCounts) == 0 {
		return TokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, c := range sorted {
		sum += c
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return TokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
