package graph

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"georag/internal/domain"
)

func record(subject, relation, object any) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"subject", "relation", "object"},
		Values: []any{subject, relation, object},
	}
}

func TestFactsFromRecords(t *testing.T) {
	records := []*neo4j.Record{
		record("Germany", "HAS_CAPITAL", "Berlin"),
		record("Germany", "BORDERS_WITH", nil),
		record("Germany", "FLOWS_THROUGH", "Rhine"),
		{Keys: []string{"subject"}, Values: []any{"Germany"}},
	}

	got := factsFromRecords(records)
	want := []domain.Fact{
		{Subject: "Germany", Relation: "HAS_CAPITAL", Object: "Berlin"},
		{Subject: "Germany", Relation: "FLOWS_THROUGH", Object: "Rhine"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("factsFromRecords() = %v, want %v", got, want)
	}
}

func TestFactsFromRecords_Empty(t *testing.T) {
	got := factsFromRecords(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("factsFromRecords(nil) = %#v, want empty non-nil", got)
	}
}

func TestClassifyError(t *testing.T) {
	queryErr := errors.New("Neo.ClientError.Statement.SyntaxError")
	if got := classifyError(queryErr); errors.Is(got, domain.ErrGraphUnavailable) {
		t.Errorf("classifyError(query error) = %v, should not be ErrGraphUnavailable", got)
	}

	cancelled := fmt.Errorf("run: %w", context.Canceled)
	if got := classifyError(cancelled); !errors.Is(got, context.Canceled) || errors.Is(got, domain.ErrGraphUnavailable) {
		t.Errorf("classifyError(cancelled) = %v", got)
	}
}

func TestNewNeo4jStore_DefaultDatabase(t *testing.T) {
	store, err := NewNeo4jStore("neo4j://localhost:7687", "neo4j", "password", "")
	if err != nil {
		t.Fatalf("NewNeo4jStore() error = %v", err)
	}
	defer store.Close(context.Background())

	if store.database != defaultDatabase {
		t.Errorf("database = %q, want %q", store.database, defaultDatabase)
	}
}

func TestNewNeo4jStore_InvalidURI(t *testing.T) {
	if _, err := NewNeo4jStore("http://localhost:7474", "neo4j", "password", ""); err == nil {
		t.Error("NewNeo4jStore() with an unsupported scheme should fail")
	}
}

func TestCountsFromRows(t *testing.T) {
	rows := []map[string]any{
		{"label": "City", "count": int64(44)},
		{"label": "Country", "count": int64(45)},
		{"label": "River", "count": int64(3)},
		{"label": nil, "count": int64(1)},
		{"label": "WaterBody", "count": "7"},
	}

	got := countsFromRows(rows)
	want := map[string]int{"City": 44, "Country": 45, "River": 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("countsFromRows() = %v, want %v", got, want)
	}

	if got := countsFromRows(nil); len(got) != 0 {
		t.Errorf("countsFromRows(nil) = %v, want empty", got)
	}
}
