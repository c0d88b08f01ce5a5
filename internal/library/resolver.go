package library

import (
	"fmt"
	"strings"

	"shelf/internal/model"
)

// ResolveEntities maps imported free-text names onto local identifiers
// for one reference-entity category, creating missing entities exactly
// once.
//
// Matching against existing rows is case-insensitive; the first match
// in existing's stable source order wins. A name with no match is
// persisted through create and mapped to the new identifier; the new
// row then participates in matching for the remaining names, so a list
// containing the same name twice (in any casing) creates at most one
// row. Resolving the same names again after existing has been reloaded
// is therefore idempotent: a retry never double-creates rows it already
// materialized.
//
// Cancellation is observed per name; on cancellation the names mapped
// so far are returned along with ErrCancelled.
func ResolveEntities(tok *CancelToken, names []string, existing []model.NamedEntity, create func(name string) (int64, error)) (map[string]int64, error) {
	resolved := make(map[string]int64, len(names))

	for _, name := range names {
		if tok.Cancelled() {
			return resolved, ErrCancelled
		}
		if _, ok := resolved[name]; ok {
			continue
		}

		id, found := findByNameFold(existing, name)
		if !found {
			newID, err := create(name)
			if err != nil {
				return resolved, fmt.Errorf("creating entity %q: %w", name, err)
			}
			id = newID
			existing = append(existing, model.NamedEntity{ID: id, Name: name})
		}

		resolved[name] = id
	}

	return resolved, nil
}

// findByNameFold returns the ID of the first entity whose name equals
// name ignoring case.
func findByNameFold(entities []model.NamedEntity, name string) (int64, bool) {
	for _, e := range entities {
		if strings.EqualFold(e.Name, name) {
			return e.ID, true
		}
	}
	return 0, false
}

// ResolutionMaps holds the per-category name→identifier mappings built
// during a restore run. Scoped to a single run; never persisted.
type ResolutionMaps struct {
	Groups     map[string]int64
	Publishers map[string]int64
	Stores     map[string]int64
	People     map[string]int64
}
