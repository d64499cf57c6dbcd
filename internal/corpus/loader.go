package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"georag/internal/domain"
)

// minParagraphRunes drops markdown fragments too short to describe anything.
const minParagraphRunes = 20

type jsonEntry struct {
	ID   json.RawMessage `json:"id"`
	Text string          `json:"text"`
}

// Load reads a corpus file, choosing the format by extension (.json or .md).
func Load(path string) ([]domain.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".md", ".markdown":
		return LoadMarkdown(path)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q", filepath.Ext(path))
	}
}

// LoadJSON reads a [{"id": ..., "text": ...}] corpus. Numeric ids are accepted;
// entries without an id are numbered by position. Entries with blank text are skipped.
func LoadJSON(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
	}

	var entries []jsonEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
	}

	docs := make([]domain.Document, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		id := rawID(e.ID)
		if id == "" {
			id = strconv.Itoa(i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("corpus %s: duplicate document id %q", path, id)
		}
		seen[id] = struct{}{}
		docs = append(docs, domain.Document{ID: id, Text: e.Text})
	}
	return docs, nil
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

// LoadMarkdown turns every paragraph and list item of a markdown file into one
// document with id "<file>#<n>".
func LoadMarkdown(path string) ([]domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
	}
	return ParseMarkdown(filepath.Base(path), content), nil
}

// ParseMarkdown splits markdown content into paragraph documents.
func ParseMarkdown(name string, content []byte) []domain.Document {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	var docs []domain.Document
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindHeading, ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
			return ast.WalkSkipChildren, nil
		case ast.KindParagraph, ast.KindTextBlock:
			body := nodeText(n, content)
			if len([]rune(body)) >= minParagraphRunes {
				docs = append(docs, domain.Document{
					ID:   fmt.Sprintf("%s#%d", name, len(docs)),
					Text: body,
				})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return docs
}

// nodeText flattens inline content, joining soft line breaks with a space.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
