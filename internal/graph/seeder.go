package graph

import (
	"context"
	"fmt"

	"georag/internal/contextutil"
)

const (
	clearCypher = `MATCH (n) DETACH DELETE n`

	upsertCountryCypher = `
		MERGE (c:Country {name: $name})
		SET c.capital = $capital,
			c.eu_member = $eu_member
	`
	linkCapitalCypher = `
		MATCH (c:Country {name: $name})
		MERGE (city:City {name: $capital})
		MERGE (c)-[:HAS_CAPITAL]->(city)
	`
	linkNeighborCypher = `
		MERGE (c:Country {name: $country_name})
		MERGE (n:Country {name: $neighbor_name})
		MERGE (c)-[:BORDERS_WITH]->(n)
	`
	upsertRiverCypher = `
		MERGE (r:River {name: $name})
		SET r.length = $length,
			r.basin = $basin,
			r.flow = $flow,
			r.mouth = $mouth,
			r.rank_of_length = $rank_of_length,
			r.rank_of_area = $rank_of_area,
			r.rank_of_flow = $rank_of_flow
	`
	linkRiverCountryCypher = `
		MERGE (r:River {name: $river_name})
		MERGE (c:Country {name: $country_name})
		MERGE (r)-[:FLOWS_THROUGH]->(c)
	`
	// A parent that is a known river becomes TRIBUTES_TO, anything else a WaterBody.
	linkRiverParentCypher = `
		MATCH (child:River {name: $river_name})
		OPTIONAL MATCH (parentRiver:River {name: $parent_name})
		FOREACH (_ IN CASE WHEN parentRiver IS NOT NULL THEN [1] ELSE [] END |
			MERGE (child)-[:TRIBUTES_TO]->(parentRiver)
		)
		FOREACH (_ IN CASE WHEN parentRiver IS NULL THEN [1] ELSE [] END |
			MERGE (water:WaterBody {name: $parent_name})
			MERGE (child)-[:FLOWS_INTO]->(water)
		)
	`
)

// SeedStats summarizes a Seed call.
type SeedStats struct {
	Countries  int
	Rivers     int
	Statements int
	Cleared    bool
}

// Seeder loads a Dataset into the graph with idempotent MERGE statements.
type Seeder struct {
	runner StatementRunner
}

// NewSeeder creates a new Seeder.
func NewSeeder(runner StatementRunner) *Seeder {
	return &Seeder{runner: runner}
}

// Seed writes ds into the graph. When reset is set every existing node is removed first.
func (s *Seeder) Seed(ctx context.Context, ds Dataset, reset bool) (SeedStats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	stats := SeedStats{Countries: len(ds.Countries), Rivers: len(ds.Rivers)}

	if reset {
		logger.InfoContext(ctx, "clearing graph database")
		if err := s.runner.RunWrite(ctx, []Statement{{Cypher: clearCypher}}); err != nil {
			return stats, fmt.Errorf("failed to clear graph: %w", err)
		}
		stats.Cleared = true
	}

	statements := Plan(ds)
	stats.Statements = len(statements)

	logger.InfoContext(ctx, "seeding graph",
		"countries", stats.Countries,
		"rivers", stats.Rivers,
		"statements", stats.Statements,
	)
	if err := s.runner.RunWrite(ctx, statements); err != nil {
		return stats, fmt.Errorf("failed to seed graph: %w", err)
	}

	logger.InfoContext(ctx, "graph seeded")
	return stats, nil
}

// Plan returns the statements that write ds: every country, then country
// relationships, then every river, then river relationships.
func Plan(ds Dataset) []Statement {
	var statements []Statement

	for _, c := range ds.Countries {
		if c.Name == "" {
			continue
		}
		statements = append(statements, Statement{
			Cypher: upsertCountryCypher,
			Params: map[string]any{"name": c.Name, "capital": c.Capital, "eu_member": c.EUMember},
		})
		if c.Capital != "" {
			statements = append(statements, Statement{
				Cypher: linkCapitalCypher,
				Params: map[string]any{"name": c.Name, "capital": c.Capital},
			})
		}
	}

	for _, c := range ds.Countries {
		if c.Name == "" {
			continue
		}
		for _, neighbor := range c.BordersWith {
			if neighbor == "" {
				continue
			}
			statements = append(statements, Statement{
				Cypher: linkNeighborCypher,
				Params: map[string]any{"country_name": c.Name, "neighbor_name": neighbor},
			})
		}
	}

	for _, r := range ds.Rivers {
		if r.Name == "" {
			continue
		}
		statements = append(statements, Statement{
			Cypher: upsertRiverCypher,
			Params: map[string]any{
				"name":           r.Name,
				"length":         nullable(r.Length),
				"basin":          nullable(r.Basin),
				"flow":           nullable(r.Flow),
				"mouth":          r.Mouth,
				"rank_of_length": nullable(r.RankOfLength),
				"rank_of_area":   nullable(r.RankOfArea),
				"rank_of_flow":   nullable(r.RankOfFlow),
			},
		})
	}

	for _, r := range ds.Rivers {
		if r.Name == "" {
			continue
		}
		for _, country := range r.Countries {
			if country == "" {
				continue
			}
			statements = append(statements, Statement{
				Cypher: linkRiverCountryCypher,
				Params: map[string]any{"river_name": r.Name, "country_name": country},
			})
		}
		if r.Parent != "" {
			statements = append(statements, Statement{
				Cypher: linkRiverParentCypher,
				Params: map[string]any{"river_name": r.Name, "parent_name": r.Parent},
			})
		}
	}

	return statements
}

// nullable unwraps optional values so the driver sends a Cypher null.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
