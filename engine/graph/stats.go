package graph

import "context"

// NodeCounts returns node counts grouped by label.
func (g *GraphStore) NodeCounts(ctx context.Context) (map[string]int64, error) {
	cypher := `MATCH (n) RETURN labels(n)[0] AS label, count(*) AS count`
	records, err := g.run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, rec := range records {
		label, _ := rec.Get("label")
		cnt, _ := rec.Get("count")
		if l, ok := label.(string); ok {
			if c, ok := cnt.(int64); ok {
				counts[l] = c
			}
		}
	}
	return counts, nil
}

// CasesByStatus returns case counts grouped by status.
func (g *GraphStore) CasesByStatus(ctx context.Context) (map[string]int64, error) {
	cypher := `MATCH (c:Case) RETURN c.caseStatus AS key, count(*) AS count`
	return g.groupedCounts(ctx, cypher)
}

// CasesByCrimeType returns case counts grouped by crime type.
func (g *GraphStore) CasesByCrimeType(ctx context.Context) (map[string]int64, error) {
	cypher := `MATCH (c:Case) RETURN c.crimeType AS key, count(*) AS count`
	return g.groupedCounts(ctx, cypher)
}

func (g *GraphStore) groupedCounts(ctx context.Context, cypher string) (map[string]int64, error) {
	records, err := g.run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, rec := range records {
		key, _ := rec.Get("key")
		cnt, _ := rec.Get("count")
		k, ok := key.(string)
		if !ok || k == "" {
			k = "unknown"
		}
		if c, ok := cnt.(int64); ok {
			counts[k] = c
		}
	}
	return counts, nil
}
