package ner

import (
	"context"
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"
)

// NameSource lists the names a Gazetteer can recognize.
type NameSource interface {
	EntityNames(ctx context.Context) ([]string, error)
}

// Gazetteer recognizes a fixed set of names by exact, case-sensitive,
// word-bounded matching. Overlapping candidates resolve to the longest name.
type Gazetteer struct {
	// byFirst indexes names by their first byte, longest first.
	byFirst map[byte][]string
	size    int
}

// NewGazetteer builds a gazetteer over names. Blank and repeated names are ignored.
func NewGazetteer(names []string) *Gazetteer {
	g := &Gazetteer{byFirst: make(map[byte][]string)}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		g.byFirst[n[0]] = append(g.byFirst[n[0]], n)
		g.size++
	}
	for _, list := range g.byFirst {
		sort.SliceStable(list, func(i, j int) bool { return len(list[i]) > len(list[j]) })
	}
	return g
}

// LoadGazetteer builds a gazetteer from every name src knows, typically the graph's nodes.
func LoadGazetteer(ctx context.Context, src NameSource) (*Gazetteer, error) {
	names, err := src.EntityNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gazetteer names: %w", err)
	}
	return NewGazetteer(names), nil
}

// Len returns the number of distinct names.
func (g *Gazetteer) Len() int {
	return g.size
}

// ExtractEntities returns the known names found in text, ordered by position and
// deduplicated.
func (g *Gazetteer) ExtractEntities(_ context.Context, text string) ([]string, error) {
	out := []string{}
	seen := make(map[string]struct{})

	for i := 0; i < len(text); {
		if !boundaryBefore(text, i) {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}

		match := g.longestAt(text, i)
		if match == "" {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}

		if _, ok := seen[match]; !ok {
			seen[match] = struct{}{}
			out = append(out, match)
		}
		i += len(match)
	}
	return out, nil
}

func (g *Gazetteer) longestAt(text string, i int) string {
	for _, name := range g.byFirst[text[i]] {
		end := i + len(name)
		if end > len(text) || text[i:end] != name {
			continue
		}
		if boundaryAfter(text, end) {
			return name
		}
	}
	return ""
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
