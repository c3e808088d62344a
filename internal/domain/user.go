package domain

import "errors"

// SuperuserID is the id of the distinguished superuser account. Only this
// account may create new users, and the password-change predicate matches
// its row in addition to the requesting user's own.
const SuperuserID int64 = 1

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the username/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when the requesting user lacks permission.
	ErrUnauthorized = errors.New("unauthorized")
)

// User represents an account in the system.
type User struct {
	ID        int64  // Unique identifier; 1 is the superuser
	Username  string // Login username, unique
	Password  string // Stored in plain comparison form
	CreatedAt int64  // Unix timestamp of account creation
}

// IsSuperuser reports whether the user is the superuser account.
func (u User) IsSuperuser() bool {
	return u.ID == SuperuserID
}
