package user

import "errors"

var (
	// ErrInvalidInput covers unreadable sources, malformed documents and invalid records.
	ErrInvalidInput = errors.New("invalid import input")
	// ErrDatabase covers connection, statement and commit failures.
	ErrDatabase = errors.New("database error")

	ErrInvalidImportSource = errors.New("invalid import source")
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrUserNotFound        = errors.New("user not found")
	ErrGetUserByID         = errors.New("failed to get user by id")
	ErrSearchUsers         = errors.New("failed to search users")
)
