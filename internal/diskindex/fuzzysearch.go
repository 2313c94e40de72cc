package diskindex

import (
	"fmt"
	"sort"

	"github.com/rocket-tycoon/rocketindex/internal/fuzzy"
	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// ScoredSymbol pairs a symbol with its edit distance from the query.
type ScoredSymbol struct {
	Symbol   schema.Symbol
	Distance int
}

// FuzzySearch returns symbols whose name or qualified name is within
// maxDistance edits of query, closest first. Mirrors original_source's
// fuzzy_search: FTS5 generates up to limit*20 candidates from the query's
// first two to four characters, then candidates are scored and filtered by
// internal/fuzzy's Levenshtein distance. A query shorter than two
// characters, or an FTS pass that yields fewer candidates than that cap,
// falls back to a plain scan of the symbols table capped at the same count.
func (idx *Index) FuzzySearch(query string, maxDistance, limit int, language string) ([]ScoredSymbol, error) {
	candidateLimit := limit * 20
	if candidateLimit < limit {
		candidateLimit = limit // overflow guard for pathological limits
	}

	candidates, err := idx.fuzzyCandidates(query, candidateLimit, language)
	if err != nil {
		return nil, err
	}

	var results []ScoredSymbol
	for _, sym := range candidates {
		nameDist := fuzzy.Distance(query, sym.Name)
		qualDist := fuzzy.Distance(query, sym.Qualified)
		dist := nameDist
		if qualDist < dist {
			dist = qualDist
		}
		if dist <= maxDistance {
			results = append(results, ScoredSymbol{Symbol: sym, Distance: dist})
		}
	}

	sortScored(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (idx *Index) fuzzyCandidates(query string, limit int, language string) ([]schema.Symbol, error) {
	if len(query) < 2 {
		return idx.fuzzyFullScan(limit, language)
	}

	prefixLen := len(query)
	if prefixLen > 4 {
		prefixLen = 4
	}
	ftsQuery := query[:prefixLen] + "*"

	candidates, err := idx.searchFTSRaw(ftsQuery, limit, language)
	if err != nil {
		return nil, fmt.Errorf("fuzzy candidate search: %w", err)
	}
	if len(candidates) >= limit {
		return candidates, nil
	}
	return idx.fuzzyFullScan(limit, language)
}

func (idx *Index) fuzzyFullScan(limit int, language string) ([]schema.Symbol, error) {
	query := fmt.Sprintf("SELECT %s FROM symbols", symbolColumns)
	args := []any{}
	if language != "" {
		query += " WHERE language = ?"
		args = append(args, language)
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := idx.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fuzzy full scan: %w", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// Suggest returns "did you mean?" suggestions for query drawn from every
// distinct name and qualified name in the index.
func (idx *Index) Suggest(query string, maxDistance, maxResults int) ([]fuzzy.Suggestion, error) {
	names, err := idx.AllNames()
	if err != nil {
		return nil, err
	}
	return fuzzy.Find(query, names, maxDistance, maxResults), nil
}

func sortScored(results []ScoredSymbol) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Symbol.Name < results[j].Symbol.Name
	})
}
