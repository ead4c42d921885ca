package domain

import "time"

// Account is an account holder known to the directory. Its balance is never
// stored; it is derived from the account's statements.
type Account struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ID             string
	Name           string
	Email          string
	HashedPassword string
}
