package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
	"github.com/mohammadpnp/graph-user-import/internal/infrastructure/db/models"
)

const (
	displayNameMatch = `LOWER(COALESCE(display_name, '')) LIKE ? ESCAPE '\'`
	emailMatch       = `LOWER(COALESCE(email, '')) LIKE ? ESCAPE '\'`
	upnMatch         = `LOWER(COALESCE(user_principal_name, '')) LIKE ? ESCAPE '\'`
)

var _ domain.UserQueryRepository = (*UserQueryRepository)(nil)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type UserQueryRepository struct {
	db *gorm.DB
}

func NewUserQueryRepository(db *gorm.DB) *UserQueryRepository {
	return &UserQueryRepository{db: db}
}

func (r *UserQueryRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var row models.User

	err := r.db.WithContext(ctx).First(&row, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	found := toDomainUser(row)
	return &found, nil
}

func (r *UserQueryRepository) List(ctx context.Context, limit int) ([]domain.User, error) {
	var rows []models.User

	err := r.db.WithContext(ctx).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return toDomainUsers(rows), nil
}

// Search matches display name, email and user principal name case-insensitively.
// Prefix matches on display name or email rank first, then substring matches on
// either, then matches in user_principal_name alone. A record imported without
// mail stores its principal name as email, so it ranks with the email matches.
func (r *UserQueryRepository) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	needle := likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query)))
	contains := "%" + needle + "%"
	prefix := needle + "%"

	var rows []models.User
	err := r.db.WithContext(ctx).
		Where(displayNameMatch+" OR "+emailMatch+" OR "+upnMatch, contains, contains, contains).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL: "CASE WHEN " + displayNameMatch + " OR " + emailMatch + " THEN 0" +
				" WHEN " + displayNameMatch + " OR " + emailMatch + " THEN 1" +
				" ELSE 2 END, display_name, id",
			Vars:               []any{prefix, prefix, contains, contains},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	return toDomainUsers(rows), nil
}

func (r *UserQueryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func toDomainUsers(rows []models.User) []domain.User {
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toDomainUser(row))
	}
	return users
}

func toDomainUser(row models.User) domain.User {
	var raw json.RawMessage
	if len(row.RawJSON) > 0 {
		raw = json.RawMessage(row.RawJSON)
	}
	return domain.User{
		ID:                row.ID,
		DisplayName:       row.DisplayName,
		Email:             row.Email,
		UserPrincipalName: row.UserPrincipalName,
		RawJSON:           raw,
		LastSynced:        row.LastSynced,
	}
}
