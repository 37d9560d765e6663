package library

import "time"

// Book is one catalogue entry. AvailableCopies counts copies currently on
// the shelf and always stays within [0, TotalCopies].
type Book struct {
	ID              int64
	Title           string
	Author          string
	TotalCopies     int
	AvailableCopies int
}

// User is a registered account. Username is the primary key and never
// changes. PasswordHash is the lowercase hex SHA-256 digest of the password.
type User struct {
	Username     string
	PasswordHash string
	FullName     string
}

// Loan records one lending of one book copy. ReturnDate stays nil while the
// copy is out and is set exactly once when it comes back.
type Loan struct {
	ID         int64
	BookID     int64
	Username   string
	IssueDate  time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

// Returned reports whether the loan has been closed.
func (l *Loan) Returned() bool { return l.ReturnDate != nil }
