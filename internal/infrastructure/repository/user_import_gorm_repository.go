package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
	"github.com/mohammadpnp/graph-user-import/internal/infrastructure/db/models"
)

var _ domain.ImportStore = (*UserImportGormRepository)(nil)

// UserImportGormRepository is the portable import store used for SQLite.
type UserImportGormRepository struct {
	db *gorm.DB
}

func NewUserImportGormRepository(db *gorm.DB) *UserImportGormRepository {
	return &UserImportGormRepository{db: db}
}

func (r *UserImportGormRepository) InsertSkipExisting(ctx context.Context, rows []domain.Row) (domain.WriteResult, error) {
	if len(rows) == 0 {
		return domain.WriteResult{}, nil
	}

	var result domain.WriteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			model := toUserModel(row)
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoNothing: true,
			}).Create(&model)
			if res.Error != nil {
				return fmt.Errorf("insert user %q: %w", row.ID, res.Error)
			}
			if res.RowsAffected == 1 {
				result.Inserted++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return domain.WriteResult{}, err
	}

	return result, nil
}

func toUserModel(row domain.Row) models.User {
	return models.User{
		ID:                row.ID,
		DisplayName:       row.DisplayName,
		Email:             row.Email,
		UserPrincipalName: row.UserPrincipalName,
		RawJSON:           datatypes.JSON(row.RawJSON),
	}
}
