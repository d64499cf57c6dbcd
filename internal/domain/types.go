package domain

import "fmt"

const (
	// FactPrefix tags knowledge graph lines in a rendered context.
	FactPrefix = "[KG]"
	// DocumentPrefix tags corpus lines in a rendered context.
	DocumentPrefix = "[TEXT]"
)

// Fact is one edge discovered while expanding an entity's one-hop neighborhood.
type Fact struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}

// Display renders the fact as "[KG] [subject] -[:RELATION]-> [object]".
func (f Fact) Display() string {
	return fmt.Sprintf("%s [%s] -[:%s]-> [%s]", FactPrefix, f.Subject, f.Relation, f.Object)
}

// Key returns the structured identity of the fact.
func (f Fact) Key() string {
	return "fact\x00" + f.Subject + "\x00" + f.Relation + "\x00" + f.Object
}

// Document is a corpus entry returned by the vector channel.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Display renders the document as "[TEXT] text".
func (d Document) Display() string {
	return DocumentPrefix + " " + d.Text
}

// Key returns the structured identity of the document.
func (d Document) Key() string {
	return "doc\x00" + d.ID
}
