// Package fuzzy implements edit-distance matching used for "did you mean?"
// suggestions and the disk index's fuzzy candidate search. It is a hand
// rolled Levenshtein implementation: callers need an exact bounded edit
// distance with deterministic ascending sort and duplicate removal (see
// Suggestion and Find below), which off-the-shelf fuzzy-finder libraries
// such as sahilm/fuzzy compute a subsequence match score rather than a raw
// edit distance for, so they cannot satisfy those invariants.
package fuzzy

import "sort"

// Distance computes the Levenshtein edit distance between a and b.
func Distance(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Suggestion is a single fuzzy-match candidate with its edit distance from
// the query.
type Suggestion struct {
	Name     string
	Distance int
}

// Find computes the Levenshtein distance from query to every candidate,
// keeps those within maxDistance, sorts ascending by distance (ties broken
// by name for determinism), removes duplicate names, and caps the result
// at maxResults.
func Find(query string, candidates []string, maxDistance, maxResults int) []Suggestion {
	seen := make(map[string]bool, len(candidates))
	var out []Suggestion
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		d := Distance(query, c)
		if d > maxDistance {
			continue
		}
		seen[c] = true
		out = append(out, Suggestion{Name: c, Distance: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// BestOf returns the smaller of the distance from query to name and from
// query to qualified — the disk index's fuzzy_search ranks candidates by
// whichever of a symbol's two names is the closer match.
func BestOf(query, name, qualified string) int {
	nd := Distance(query, name)
	qd := Distance(query, qualified)
	if qd < nd {
		return qd
	}
	return nd
}
