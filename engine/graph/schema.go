package graph

import "context"

// Uniqueness constraints declared at store initialization. Suspect, Officer
// and CrimeType are reserved for future normalization; no operation creates
// those nodes yet.
var constraints = []struct {
	name   string
	cypher string
}{
	{"case_id", `CREATE CONSTRAINT case_id IF NOT EXISTS FOR (c:Case) REQUIRE c.id IS UNIQUE`},
	{"suspect_name", `CREATE CONSTRAINT suspect_name IF NOT EXISTS FOR (s:Suspect) REQUIRE s.name IS UNIQUE`},
	{"officer_name", `CREATE CONSTRAINT officer_name IF NOT EXISTS FOR (o:Officer) REQUIRE o.name IS UNIQUE`},
	{"crime_type_name", `CREATE CONSTRAINT crime_type_name IF NOT EXISTS FOR (ct:CrimeType) REQUIRE ct.name IS UNIQUE`},
}

// EnsureConstraints declares the uniqueness constraints. Safe to call on
// every process start. A constraint that cannot be applied is logged as a
// degraded-mode warning and does not abort startup; the store stays usable
// but uniqueness for that label is not guaranteed until the operator
// resolves it. Returns how many constraints were applied.
func (g *GraphStore) EnsureConstraints(ctx context.Context) int {
	applied := 0
	for _, c := range constraints {
		if _, err := g.run(ctx, c.cypher, nil); err != nil {
			g.logger.Warn("constraint not applied, uniqueness degraded",
				"constraint", c.name, "err", err)
			continue
		}
		applied++
	}
	return applied
}
