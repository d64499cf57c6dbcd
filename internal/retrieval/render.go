package retrieval

import (
	"strings"

	"georag/internal/domain"
)

const (
	// HeaderFacts introduces the knowledge graph section.
	HeaderFacts = "--- Knowledge Graph Facts ---"
	// HeaderText introduces the corpus section.
	HeaderText = "--- Related Descriptions ---"
	// HeaderEntityText introduces the corpus section of the entity-driven strategy.
	HeaderEntityText = "--- Related Descriptions (Entities focussed) ---"
	// NoFactsPlaceholder replaces an empty knowledge graph section.
	NoFactsPlaceholder = "No specific facts found in KG for extracted entities."
)

// Layout selects which sections a rendered context contains.
type Layout struct {
	Facts      bool
	Text       bool
	TextHeader string
}

// Layouts used by the retrieval strategies.
var (
	LayoutGraphOnly    = Layout{Facts: true}
	LayoutVectorOnly   = Layout{Text: true, TextHeader: HeaderText}
	LayoutHybrid       = Layout{Facts: true, Text: true, TextHeader: HeaderText}
	LayoutEntityDriven = Layout{Facts: true, Text: true, TextHeader: HeaderEntityText}
)

// Partition splits display strings into [KG] and [TEXT] lines, preserving order
// within each group and dropping repeated lines. Lines with neither prefix are ignored.
func Partition(items []string) (facts, texts []string) {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		switch {
		case strings.HasPrefix(item, domain.FactPrefix):
			facts = append(facts, item)
		case strings.HasPrefix(item, domain.DocumentPrefix):
			texts = append(texts, item)
		default:
			continue
		}
		seen[item] = struct{}{}
	}
	return facts, texts
}

// Render builds the labeled context block. The knowledge graph section always
// precedes the description section, whatever order items arrive in.
func Render(items []string, layout Layout) string {
	facts, texts := Partition(items)

	var sections []string
	if layout.Facts {
		body := NoFactsPlaceholder
		if len(facts) > 0 {
			body = strings.Join(facts, "\n")
		}
		sections = append(sections, HeaderFacts+"\n"+body)
	}
	if layout.Text {
		header := layout.TextHeader
		if header == "" {
			header = HeaderText
		}
		// An empty description section keeps its header and gets no placeholder.
		sections = append(sections, header+"\n"+strings.Join(texts, "\n"))
	}
	return strings.Join(sections, "\n\n")
}

// Displays renders a slice of items to their display strings.
func Displays[T Item](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Display()
	}
	return out
}
