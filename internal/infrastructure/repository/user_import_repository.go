package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
)

const insertUserSkipExistingSQL = `
INSERT INTO users (id, display_name, email, user_principal_name, raw_json)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING
`

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ domain.ImportStore = (*UserImportRepository)(nil)

// UserImportRepository writes rows to PostgreSQL through pgx. All rows of one
// call share a single transaction.
type UserImportRepository struct {
	db     txBeginner
	logger *zap.SugaredLogger
}

func NewUserImportRepository(db txBeginner, logger *zap.SugaredLogger) *UserImportRepository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &UserImportRepository{db: db, logger: logger}
}

func (r *UserImportRepository) InsertSkipExisting(ctx context.Context, rows []domain.Row) (domain.WriteResult, error) {
	if len(rows) == 0 {
		return domain.WriteResult{}, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.WriteResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var result domain.WriteResult
	for _, row := range rows {
		tag, err := tx.Exec(ctx, insertUserSkipExistingSQL, row.ID, row.DisplayName, row.Email, row.UserPrincipalName, rawJSONParam(row))
		if err != nil {
			r.logStatementError(row.ID, err)
			return domain.WriteResult{}, fmt.Errorf("insert user %q: %w", row.ID, err)
		}
		if tag.RowsAffected() == 1 {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.WriteResult{}, fmt.Errorf("commit import: %w", err)
	}

	return result, nil
}

func (r *UserImportRepository) logStatementError(id string, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		r.logger.Errorw("insert failed",
			"id", id,
			"sqlstate", pgErr.Code,
			"constraint", pgErr.ConstraintName,
			"detail", pgErr.Detail,
		)
		return
	}
	r.logger.Errorw("insert failed", "id", id, "error", err)
}

func rawJSONParam(row domain.Row) any {
	if len(row.RawJSON) == 0 {
		return nil
	}
	return string(row.RawJSON)
}
