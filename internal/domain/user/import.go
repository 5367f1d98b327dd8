package user

// WriteResult is returned by a store after the write phase.
type WriteResult struct {
	Inserted int64
	Skipped  int64
}
