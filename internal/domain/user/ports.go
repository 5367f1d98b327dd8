package user

import "context"

// ImportStore writes a complete set of rows in one transaction, skipping ids
// that already exist. Either every row is applied or none is.
type ImportStore interface {
	InsertSkipExisting(ctx context.Context, rows []Row) (WriteResult, error)
}

type UserQueryRepository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	Search(ctx context.Context, query string, limit int) ([]User, error)
	List(ctx context.Context, limit int) ([]User, error)
}
