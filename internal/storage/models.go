package storage

import "time"

// Source is one indexed corpus file.
type Source struct {
	ID        int
	Name      string
	Path      string
	CreatedAt time.Time
}

// DocumentRecord is the stored text behind one vector point.
type DocumentRecord struct {
	PointID   string // UUID, same as the Qdrant point ID
	SourceID  int    // Foreign key to sources.id
	DocID     string // Corpus document id
	Position  int    // Order within the source file (starts at 0)
	Text      string
	Hash      string // SHA256 hex string of Text
	IndexedAt time.Time
}
