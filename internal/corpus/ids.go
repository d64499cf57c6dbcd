package corpus

import "github.com/google/uuid"

// pointNamespace scopes corpus point ids.
var pointNamespace = uuid.MustParse("6f1c2a4e-8d3b-5e7f-9a0c-1b2d3e4f5a6b")

// PointID returns the stable vector point id for a document of a source, so
// re-indexing the same corpus overwrites points instead of duplicating them.
func PointID(source, docID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(source+"\x00"+docID)).String()
}
