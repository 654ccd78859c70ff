package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates the record id is already taken.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials indicates login failure. The message is shared by
	// unknown id, wrong password and soft-deleted accounts so that none of
	// them can be told apart.
	ErrInvalidCredentials = errors.New("wrong user id or password")
)
