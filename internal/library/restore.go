package library

import (
	"errors"
	"fmt"
	"io"
	"time"

	"shelf/internal/model"
)

// RestoreState tracks where a restore run is in its lifecycle.
type RestoreState int

const (
	RestoreIdle RestoreState = iota
	RestoreDecoding
	RestoreResolvingEntities
	RestoreImportingBooks
	RestoreCompleted
	RestoreFailed
	RestoreCancelled
)

// String returns the display name for a restore state.
func (s RestoreState) String() string {
	switch s {
	case RestoreIdle:
		return "idle"
	case RestoreDecoding:
		return "decoding"
	case RestoreResolvingEntities:
		return "resolving entities"
	case RestoreImportingBooks:
		return "importing books"
	case RestoreCompleted:
		return "completed"
	case RestoreFailed:
		return "failed"
	case RestoreCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// entityCategoryCount is the number of reference-entity categories,
// each counted as one restore unit.
const entityCategoryCount = 4

// RestoreProgress tracks completed restore units against the expected
// total. Total is fixed once the importable book set is known — after
// duplicate filtering, never before. Processed never exceeds Total.
type RestoreProgress struct {
	Processed int
	Total     int
}

// RestoreOutcome is the terminal result of a restore run. Err is
// non-nil only when State is RestoreFailed.
type RestoreOutcome struct {
	State   RestoreState
	Elapsed time.Duration
	Err     error
}

// Restore merges a sheet backup read from r into the live library.
// It blocks until the run reaches a terminal state: completed, failed,
// or cancelled. Reference entities are resolved (created if missing)
// before any book is imported; books already present — matched by
// normalized code — are skipped. Nothing committed before a failure or
// cancellation is rolled back.
//
// Starting a new restore cancels any in-flight run first.
func (s *Service) Restore(r io.Reader) *RestoreOutcome {
	tok := s.begin()
	defer s.end(tok)

	start := s.clock.Now()
	s.logger.Info("restore started")

	err := s.runRestore(tok, r)
	elapsed := s.clock.Now().Sub(start)

	switch {
	case errors.Is(err, ErrCancelled):
		s.setState(RestoreCancelled)
		s.notifier.Cancelled()
		s.logger.Info("restore cancelled", "elapsed", elapsed)
		return &RestoreOutcome{State: RestoreCancelled, Elapsed: elapsed}
	case err != nil:
		s.setState(RestoreFailed)
		s.notifier.Failed(err.Error())
		s.logger.Error("restore failed", "cause", err)
		return &RestoreOutcome{State: RestoreFailed, Elapsed: elapsed, Err: err}
	default:
		s.setState(RestoreCompleted)
		s.notifier.Succeeded(elapsed)
		s.logger.Info("restore complete", "elapsed", elapsed)
		return &RestoreOutcome{State: RestoreCompleted, Elapsed: elapsed}
	}
}

// runRestore sequences the three stages: decode, resolve, import.
// Every error propagates up to Restore, which reports it exactly once.
func (s *Service) runRestore(tok *CancelToken, r io.Reader) error {
	s.setState(RestoreDecoding)
	snapshot, err := DecodeSnapshot(r)
	if err != nil {
		return err
	}

	// The existing-codes set is read once, before filtering. Duplicate
	// prevention is import-vs-pre-existing only; books created during
	// this run are not re-checked.
	existingCodes, err := s.database.ListBookCodes()
	if err != nil {
		return fmt.Errorf("listing existing book codes: %w", err)
	}
	importable := SelectImportable(snapshot.Books, existingCodes)

	progress := RestoreProgress{Total: len(importable) + entityCategoryCount}
	s.logger.Debug("snapshot filtered",
		"books", len(snapshot.Books), "importable", len(importable))

	s.setState(RestoreResolvingEntities)
	maps, err := s.resolveAll(tok, snapshot, &progress)
	if err != nil {
		return err
	}

	s.setState(RestoreImportingBooks)
	for _, rec := range importable {
		if tok.Cancelled() {
			return ErrCancelled
		}
		if _, err := s.importBook(rec, maps); err != nil {
			return err
		}
		progress.Processed++
		s.notifier.Progress(progress.Processed, progress.Total, rec.Title)
	}

	return nil
}

// resolveAll resolves the four reference-entity categories in a fixed
// order. The order only affects progress-message sequencing; the
// categories are independent. Each category counts as one restore unit.
func (s *Service) resolveAll(tok *CancelToken, snapshot *model.Snapshot, progress *RestoreProgress) (*ResolutionMaps, error) {
	maps := &ResolutionMaps{}

	categories := []struct {
		label  string
		names  []string
		list   func() ([]model.NamedEntity, error)
		insert func(string) (int64, error)
		dest   *map[string]int64
	}{
		{"groups", snapshot.Groups, s.database.ListGroups, s.database.InsertGroup, &maps.Groups},
		{"publishers", snapshot.Publishers, s.database.ListPublishers, s.database.InsertPublisher, &maps.Publishers},
		{"stores", snapshot.Stores, s.database.ListStores, s.database.InsertStore, &maps.Stores},
		{"people", snapshot.People, s.database.ListPeople, s.database.InsertPerson, &maps.People},
	}

	for _, c := range categories {
		existing, err := c.list()
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", c.label, err)
		}

		resolved, err := ResolveEntities(tok, c.names, existing, c.insert)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", c.label, err)
		}
		*c.dest = resolved

		progress.Processed++
		s.notifier.Progress(progress.Processed, progress.Total, c.label)
	}

	return maps, nil
}
