package library

import (
	"crypto/sha256"
	"encoding/hex"
)

const adminUsername = "admin"

// HashPassword returns the lowercase hex SHA-256 digest stored in place of
// the plaintext. Single round and unsalted: digests have to keep matching
// rows written by earlier deployments of the same tables.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// ActiveLoanChecker is the narrow ledger query the directory needs for its
// deletion guard. The LoanLedger satisfies it.
type ActiveLoanChecker interface {
	HasActiveLoans(username string) bool
}

// UserDirectory is the authoritative in-memory user list, written back
// through the store after every mutation.
type UserDirectory struct {
	store *Store
	users []User
}

// NewUserDirectory loads the user table into memory.
func NewUserDirectory(store *Store) (*UserDirectory, error) {
	users, err := store.LoadUsers()
	if err != nil {
		return nil, err
	}
	return &UserDirectory{store: store, users: users}, nil
}

// Authenticate reports whether an account with that username exists and its
// stored digest matches the digest of the supplied password.
func (d *UserDirectory) Authenticate(username, password string) bool {
	h := HashPassword(password)
	for i := range d.users {
		if d.users[i].Username == username && d.users[i].PasswordHash == h {
			return true
		}
	}
	return false
}

// Register adds a new account and persists the table. Reports false when the
// username is already taken, leaving the table untouched.
func (d *UserDirectory) Register(username, password, fullName string) (bool, error) {
	for i := range d.users {
		if d.users[i].Username == username {
			return false, nil
		}
	}
	d.users = append(d.users, User{
		Username:     username,
		PasswordHash: HashPassword(password),
		FullName:     fullName,
	})
	return true, d.store.SaveUsers(d.users)
}

// Deregister removes an account unless it still has an open loan. Reports
// false when the account is unknown or the guard blocks the removal.
func (d *UserDirectory) Deregister(username string, loans ActiveLoanChecker) (bool, error) {
	if loans.HasActiveLoans(username) {
		return false, nil
	}
	for i := range d.users {
		if d.users[i].Username == username {
			d.users = append(d.users[:i], d.users[i+1:]...)
			return true, d.store.SaveUsers(d.users)
		}
	}
	return false, nil
}

// List returns a copy of all accounts.
func (d *UserDirectory) List() []User {
	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}
