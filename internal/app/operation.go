package app

// RestoreOperation tracks a CLI operation that may mutate the database.
// Operations are created in memory with ID=0. Only DB-mutating commands
// persist them (giving them an auto-increment ID from the database).
type RestoreOperation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
}

// NewRestoreOperation creates a new in-memory restore operation.
func NewRestoreOperation(operation, parameters string) *RestoreOperation {
	return &RestoreOperation{
		Operation:  operation,
		Parameters: parameters,
		Status:     "success",
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *RestoreOperation) Persisted() bool {
	return op.ID != 0
}
