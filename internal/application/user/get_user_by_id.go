package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
)

type GetUserByIDInput struct {
	ID string
}

type UserOutput struct {
	ID                string          `json:"id"`
	DisplayName       *string         `json:"display_name"`
	Email             *string         `json:"email"`
	UserPrincipalName *string         `json:"user_principal_name"`
	RawJSON           json.RawMessage `json:"raw_json,omitempty"`
	LastSynced        time.Time       `json:"last_synced"`
}

type GetUserByIDOutput = UserOutput

type GetUserByID interface {
	Execute(ctx context.Context, in GetUserByIDInput) (GetUserByIDOutput, error)
}

type userByIDReader interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

type getUserByID struct {
	repo userByIDReader
}

func NewGetUserByID(repo userByIDReader) GetUserByID {
	return &getUserByID{repo: repo}
}

func (uc *getUserByID) Execute(ctx context.Context, in GetUserByIDInput) (GetUserByIDOutput, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return GetUserByIDOutput{}, ErrInvalidUserID
	}

	found, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return GetUserByIDOutput{}, ErrUserNotFound
		}
		return GetUserByIDOutput{}, fmt.Errorf("%w: %v", ErrGetUserByID, err)
	}

	return toUserOutput(*found), nil
}

func toUserOutput(u domain.User) UserOutput {
	return UserOutput{
		ID:                u.ID,
		DisplayName:       u.DisplayName,
		Email:             u.Email,
		UserPrincipalName: u.UserPrincipalName,
		RawJSON:           u.RawJSON,
		LastSynced:        u.LastSynced,
	}
}
