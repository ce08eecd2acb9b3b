// Package search turns flat per-version index hits into a ranked,
// terminal-formatted package report.
//
// The index search endpoint returns one record per package *version*.
// [Aggregate] folds those into one record per package, carrying every
// observed version plus the summary and score of the highest version,
// sorted by score. [Renderer] formats the aggregated list as report
// lines, wrapping summaries to the terminal width and annotating
// locally installed packages.
package search

import (
	"sort"

	"github.com/pysearch/pysearch/pkg/pep440"
)

// Hit is a single version-level search result from the index.
// Score is the index's opaque ranking value; absent scores are zero.
type Hit struct {
	Name    string  `json:"name"`
	Summary string  `json:"summary"`
	Version string  `json:"version"`
	Score   float64 `json:"score"`
}

// Package is an aggregated per-package record. Versions holds every
// version observed for the name, in discovery order. Summary and Score
// track the highest version seen so far at each fold step.
type Package struct {
	Name     string
	Summary  string
	Versions []string
	Score    float64
}

// Aggregate converts the flat per-version hit list into a deduplicated
// per-package list sorted by score descending. Packages with equal
// scores keep their first-seen order.
//
// When a later hit adds a version to an existing record, the record's
// summary and score are replaced only if that just-added version is the
// highest among all versions collected so far.
func Aggregate(hits []Hit) []Package {
	byName := make(map[string]*Package)
	var order []string

	for _, hit := range hits {
		pkg, ok := byName[hit.Name]
		if !ok {
			byName[hit.Name] = &Package{
				Name:     hit.Name,
				Summary:  hit.Summary,
				Versions: []string{hit.Version},
				Score:    hit.Score,
			}
			order = append(order, hit.Name)
			continue
		}

		pkg.Versions = append(pkg.Versions, hit.Version)
		if hit.Version == pep440.Highest(pkg.Versions) {
			pkg.Summary = hit.Summary
			pkg.Score = hit.Score
		}
	}

	packages := make([]Package, 0, len(order))
	for _, name := range order {
		packages = append(packages, *byName[name])
	}
	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].Score > packages[j].Score
	})
	return packages
}
