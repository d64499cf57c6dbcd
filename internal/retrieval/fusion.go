package retrieval

import (
	"fmt"
	"sort"
)

// DefaultRRFConstant is the smoothing constant commonly used for reciprocal rank fusion.
const DefaultRRFConstant = 60

// RRFMode selects how the fusion-ranked strategy chooses the RRF constant.
type RRFMode string

const (
	// RRFCanonical uses a fixed constant (DefaultRRFConstant unless overridden).
	RRFCanonical RRFMode = "canonical"
	// RRFResultCount uses the requested document count as the constant.
	// This reproduces the older fusion path that passed its result count through as k.
	RRFResultCount RRFMode = "result_count"
)

// ParseRRFMode parses a mode name. An empty string selects RRFCanonical.
func ParseRRFMode(s string) (RRFMode, error) {
	switch RRFMode(s) {
	case "", RRFCanonical:
		return RRFCanonical, nil
	case RRFResultCount:
		return RRFResultCount, nil
	default:
		return "", fmt.Errorf("unknown RRF mode %q", s)
	}
}

// KeyMode selects the identity under which fused items accumulate score.
type KeyMode string

const (
	// KeyDisplay merges items that render to the same display string.
	KeyDisplay KeyMode = "display"
	// KeyStructured merges facts by triple and documents by id.
	KeyStructured KeyMode = "structured"
)

// ParseKeyMode parses a key mode name. An empty string selects KeyDisplay.
func ParseKeyMode(s string) (KeyMode, error) {
	switch KeyMode(s) {
	case "", KeyDisplay:
		return KeyDisplay, nil
	case KeyStructured:
		return KeyStructured, nil
	default:
		return "", fmt.Errorf("unknown fusion key mode %q", s)
	}
}

// Item is anything that can take part in fusion and rendering.
// domain.Fact and domain.Document both satisfy it.
type Item interface {
	Display() string
	Key() string
}

// Ranked is a fused item with its accumulated RRF score.
type Ranked[T any] struct {
	Item  T
	Score float64
}

// FuseBy merges ranked lists with reciprocal rank fusion.
//
// An item at zero-based position i of any list adds 1/(k+i+1) to the score stored
// under key(item). Output is ordered by descending score; equal scores keep the order
// in which items were first seen across the lists. The first occurrence of a key is
// the item reported in the output. k <= 0 falls back to DefaultRRFConstant.
func FuseBy[T any](lists [][]T, k int, key func(T) string) []Ranked[T] {
	if k <= 0 {
		k = DefaultRRFConstant
	}

	index := make(map[string]int)
	var ranked []Ranked[T]
	for _, list := range lists {
		for i, item := range list {
			id := key(item)
			pos, ok := index[id]
			if !ok {
				pos = len(ranked)
				index[id] = pos
				ranked = append(ranked, Ranked[T]{Item: item})
			}
			ranked[pos].Score += 1.0 / float64(k+i+1)
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})

	if ranked == nil {
		return []Ranked[T]{}
	}
	return ranked
}

// Fuse merges ranked lists of display strings, keyed by the strings themselves.
func Fuse(lists [][]string, k int) []string {
	ranked := FuseBy(lists, k, func(s string) string { return s })
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Item
	}
	return out
}

// FuseItems merges ranked item lists using the identity selected by mode.
func FuseItems(lists [][]Item, k int, mode KeyMode) []Ranked[Item] {
	key := func(it Item) string { return it.Display() }
	if mode == KeyStructured {
		key = func(it Item) string { return it.Key() }
	}
	return FuseBy(lists, k, key)
}
