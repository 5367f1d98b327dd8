package user

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

type SearchUsersInput struct {
	Query string
	Limit int
}

type SearchUsersOutput struct {
	Users []UserOutput `json:"users"`
}

type SearchUsers interface {
	Execute(ctx context.Context, in SearchUsersInput) (SearchUsersOutput, error)
}

type userSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)
	List(ctx context.Context, limit int) ([]domain.User, error)
}

type searchUsers struct {
	repo userSearcher
}

func NewSearchUsers(repo userSearcher) SearchUsers {
	return &searchUsers{repo: repo}
}

// Execute lists users when the query is blank and runs a ranked search otherwise.
func (uc *searchUsers) Execute(ctx context.Context, in SearchUsersInput) (SearchUsersOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	query := strings.TrimSpace(in.Query)

	var (
		found []domain.User
		err   error
	)
	if query == "" {
		found, err = uc.repo.List(ctx, limit)
	} else {
		found, err = uc.repo.Search(ctx, query, limit)
	}
	if err != nil {
		return SearchUsersOutput{}, fmt.Errorf("%w: %v", ErrSearchUsers, err)
	}

	users := make([]UserOutput, 0, len(found))
	for _, u := range found {
		out := toUserOutput(u)
		out.RawJSON = nil
		users = append(users, out)
	}
	return SearchUsersOutput{Users: users}, nil
}
