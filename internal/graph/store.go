package graph

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_graph.go -package=mocks georag/internal/graph StatementRunner

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"georag/internal/domain"
)

const defaultDatabase = "neo4j"

const oneHopQuery = `
	MATCH (e)-[r]-(n)
	WHERE e.name = $entity
	RETURN e.name AS subject, type(r) AS relation, n.name AS object
`

const entityNamesQuery = `
	MATCH (n)
	WHERE n.name IS NOT NULL
	RETURN DISTINCT n.name AS name
`

const nodeCountsQuery = `
	MATCH (n)
	UNWIND labels(n) AS label
	RETURN label, count(*) AS count
	ORDER BY label
`

// Statement is one parameterized Cypher statement.
type Statement struct {
	Cypher string
	Params map[string]any
}

// StatementRunner executes write statements in a single transaction.
type StatementRunner interface {
	RunWrite(ctx context.Context, statements []Statement) error
}

// Neo4jStore reads one-hop neighborhoods from a Neo4j database and applies seed writes.
type Neo4jStore struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore creates a new Neo4j-backed graph store. The driver connects lazily;
// call VerifyConnectivity to fail fast.
func NewNeo4jStore(uri, username, password, database string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = defaultDatabase
	}

	return &Neo4jStore{
		client:   driver,
		database: database,
	}, nil
}

// OneHop returns every edge touching the node named entity, in either direction.
// The subject of each fact is always entity. Unknown names yield no facts.
func (s *Neo4jStore) OneHop(ctx context.Context, entity string) ([]domain.Fact, error) {
	records, err := s.read(ctx, oneHopQuery, map[string]any{"entity": entity})
	if err != nil {
		return nil, fmt.Errorf("failed to expand %q: %w", entity, err)
	}
	return factsFromRecords(records), nil
}

// EntityNames returns the distinct name property of every node.
func (s *Neo4jStore) EntityNames(ctx context.Context) ([]string, error) {
	records, err := s.read(ctx, entityNamesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list entity names: %w", err)
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		if name, ok := stringValue(record, "name"); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Query runs an arbitrary read query and returns each record as a map.
func (s *Neo4jStore) Query(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	records, err := s.read(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = record.AsMap()
	}
	return rows, nil
}

// NodeCounts returns the number of nodes per label.
func (s *Neo4jStore) NodeCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.Query(ctx, nodeCountsQuery, nil)
	if err != nil {
		return nil, err
	}
	return countsFromRows(rows), nil
}

// RunWrite executes statements in order inside one write transaction.
func (s *Neo4jStore) RunWrite(ctx context.Context, statements []Statement) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, st := range statements {
			res, err := tx.Run(ctx, st.Cypher, st.Params)
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return classifyError(err)
	}
	return nil
}

// VerifyConnectivity checks that the database is reachable.
func (s *Neo4jStore) VerifyConnectivity(ctx context.Context) error {
	if err := s.client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrGraphUnavailable, err)
	}
	return nil
}

// Close closes the Neo4j driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func (s *Neo4jStore) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, classifyError(err)
	}

	records, ok := result.([]*neo4j.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", result)
	}
	return records, nil
}

// classifyError marks errors that mean the database cannot be reached so callers
// can tell them apart from a bad query.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if neo4j.IsConnectivityError(err) {
		return fmt.Errorf("%w: %w", domain.ErrGraphUnavailable, err)
	}
	return err
}

// factsFromRecords converts subject/relation/object rows, skipping rows whose
// neighbor has no name.
func factsFromRecords(records []*neo4j.Record) []domain.Fact {
	facts := make([]domain.Fact, 0, len(records))
	for _, record := range records {
		subject, ok := stringValue(record, "subject")
		if !ok {
			continue
		}
		relation, ok := stringValue(record, "relation")
		if !ok {
			continue
		}
		object, ok := stringValue(record, "object")
		if !ok {
			continue
		}
		facts = append(facts, domain.Fact{Subject: subject, Relation: relation, Object: object})
	}
	return facts
}

func stringValue(record *neo4j.Record, key string) (string, bool) {
	value, found := record.Get(key)
	if !found || value == nil {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// countsFromRows reads label/count rows, skipping rows of any other shape.
func countsFromRows(rows []map[string]any) map[string]int {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		label, ok := row["label"].(string)
		if !ok || label == "" {
			continue
		}
		n, ok := row["count"].(int64)
		if !ok {
			continue
		}
		counts[label] = int(n)
	}
	return counts
}
