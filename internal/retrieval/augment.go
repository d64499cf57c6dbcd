package retrieval

import (
	"sort"
	"strings"

	"georag/internal/domain"
)

// CollectEntityNames returns the distinct subject and object names of facts
// in first-seen order (subject before object within each fact).
func CollectEntityNames(facts []domain.Fact) []string {
	seen := make(map[string]struct{}, len(facts)*2)
	names := make([]string, 0, len(facts)*2)
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, fact := range facts {
		add(fact.Subject)
		add(fact.Object)
	}
	return names
}

// AugmentQuery appends the graph-discovered entity names, sorted, to query.
// With no names to add the query is returned unchanged.
func AugmentQuery(query string, facts []domain.Fact) string {
	names := CollectEntityNames(facts)
	if len(names) == 0 {
		return query
	}
	sort.Strings(names)
	return query + " " + strings.Join(names, " ")
}
