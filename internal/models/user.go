package models

// User represents a registered user account.
//
// Users are identified by a unique Name; the name is how members appear
// in group member lists and balance maps. The password hash is set once
// at registration and never re-derived elsewhere.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the unique username chosen at registration.
	Name string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
