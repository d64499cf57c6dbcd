package retrieval

import (
	"reflect"
	"testing"

	"georag/internal/domain"
)

func TestCollectEntityNames(t *testing.T) {
	facts := []domain.Fact{
		{Subject: "Germany", Relation: "BORDERS_WITH", Object: "Poland"},
		{Subject: "Germany", Relation: "HAS_CAPITAL", Object: "Berlin"},
		{Subject: "Rhine", Relation: "FLOWS_THROUGH", Object: "Germany"},
	}
	got := CollectEntityNames(facts)
	want := []string{"Germany", "Poland", "Berlin", "Rhine"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollectEntityNames() = %v, want %v", got, want)
	}
}

func TestAugmentQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		facts []domain.Fact
		want  string
	}{
		{
			name:  "no facts leaves query untouched",
			query: "Which rivers flow through Germany? ",
			facts: nil,
			want:  "Which rivers flow through Germany? ",
		},
		{
			name:  "names sorted and appended",
			query: "Rivers of Germany",
			facts: []domain.Fact{
				{Subject: "Germany", Relation: "FLOWS_THROUGH", Object: "Rhine"},
				{Subject: "Germany", Relation: "FLOWS_THROUGH", Object: "Danube"},
				{Subject: "Germany", Relation: "FLOWS_THROUGH", Object: "Elbe"},
			},
			want: "Rivers of Germany Danube Elbe Germany Rhine",
		},
		{
			name:  "byte order sort",
			query: "q",
			facts: []domain.Fact{{Subject: "austria", Relation: "R", Object: "Zurich"}},
			want:  "q Zurich austria",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AugmentQuery(tt.query, tt.facts); got != tt.want {
				t.Errorf("AugmentQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
