package library

import "sync"

// Service is the orchestration layer that coordinates the codec,
// resolver, importer, and storage backends to perform the high-level
// library operations needed by the CLI.
type Service struct {
	database  Database
	archive   ArchiveStore
	encryptor Encryptor
	notifier  Notifier
	logger    Logger
	clock     Clock

	mu     sync.Mutex
	active *CancelToken
	state  RestoreState
}

// NewService creates a new Service with the provided dependencies.
func NewService(database Database, archive ArchiveStore, encryptor Encryptor, notifier Notifier, logger Logger, clock Clock) *Service {
	return &Service{
		database:  database,
		archive:   archive,
		encryptor: encryptor,
		notifier:  notifier,
		logger:    logger,
		clock:     clock,
		state:     RestoreIdle,
	}
}

// Cancel requests cancellation of the active restore run, if any.
// Idempotent and safe to call from any goroutine.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Cancel()
	}
}

// State returns the current restore state for observation.
func (s *Service) State() RestoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin registers a new run's token, cancelling any in-flight run
// first. At most one restore executes at a time; a superseded run stops
// at its next cancellation checkpoint.
func (s *Service) begin() *CancelToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Cancel()
	}
	s.active = NewCancelToken()
	return s.active
}

// end clears the active token if it still belongs to this run.
func (s *Service) end(tok *CancelToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == tok {
		s.active = nil
	}
}

func (s *Service) setState(state RestoreState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
