package library

import (
	"fmt"

	"shelf/internal/model"
)

// GetHistory returns the most recent restore operations, ordered newest first.
func (s *Service) GetHistory(limit int) ([]*model.RestoreOperation, error) {
	ops, err := s.database.ListRestoreOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing restore operations: %w", err)
	}
	return ops, nil
}
