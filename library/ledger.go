package library

import (
	"fmt"
	"time"
)

const (
	// Loan ids start above this base, well away from book ids.
	loanIDBase = 5000

	loanPeriodDays = 14
	finePerDay     = 5.0
)

// LoanLedger owns the loan table and drives availability changes on the
// catalogue as copies move in and out. The book table and the loan table are
// saved separately, in that order; each save is atomic on its own file.
type LoanLedger struct {
	store   *Store
	catalog *BookCatalog
	loans   []Loan

	now func() time.Time // swapped out in tests
}

// NewLoanLedger loads the loan table into memory.
func NewLoanLedger(store *Store, catalog *BookCatalog) (*LoanLedger, error) {
	loans, err := store.LoadLoans()
	if err != nil {
		return nil, err
	}
	return &LoanLedger{store: store, catalog: catalog, loans: loans, now: time.Now}, nil
}

// ListAll returns a copy of every loan, open and closed.
func (l *LoanLedger) ListAll() []Loan {
	out := make([]Loan, len(l.loans))
	copy(out, l.loans)
	return out
}

// ListActive returns the user's loans that have not been returned.
func (l *LoanLedger) ListActive(username string) []Loan {
	var out []Loan
	for i := range l.loans {
		if l.loans[i].Username == username && !l.loans[i].Returned() {
			out = append(out, l.loans[i])
		}
	}
	return out
}

// HasActiveLoans reports whether the user has any open loan. The directory
// uses this as its deletion guard.
func (l *LoanLedger) HasActiveLoans(username string) bool {
	for i := range l.loans {
		if l.loans[i].Username == username && !l.loans[i].Returned() {
			return true
		}
	}
	return false
}

// HasOutstandingLoans reports whether any copy of the book is still out.
func (l *LoanLedger) HasOutstandingLoans(bookID int64) bool {
	for i := range l.loans {
		if l.loans[i].BookID == bookID && !l.loans[i].Returned() {
			return true
		}
	}
	return false
}

// Issue lends one copy of the book to the user for the standard period. The
// book's availability is decremented and persisted before the loan table is
// saved; on failure no loan record is created.
func (l *LoanLedger) Issue(bookID int64, username string) (Loan, error) {
	book, ok := l.catalog.Find(bookID)
	if !ok {
		return Loan{}, fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}
	if book.AvailableCopies <= 0 {
		return Loan{}, fmt.Errorf("book %d: %w", bookID, ErrUnavailable)
	}
	issue := l.today()
	loan := Loan{
		ID:        l.nextID(),
		BookID:    bookID,
		Username:  username,
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, loanPeriodDays),
	}
	if err := l.catalog.ChangeAvailable(bookID, -1); err != nil {
		return Loan{}, err
	}
	l.loans = append(l.loans, loan)
	if err := l.store.SaveLoans(l.loans); err != nil {
		return Loan{}, err
	}
	return loan, nil
}

// Return closes the loan, puts the copy back on the shelf and reports the
// fine owed, zero when on time. Returning the same loan twice fails with
// ErrAlreadyReturned and changes nothing.
func (l *LoanLedger) Return(loanID int64) (float64, error) {
	var loan *Loan
	for i := range l.loans {
		if l.loans[i].ID == loanID {
			loan = &l.loans[i]
			break
		}
	}
	if loan == nil {
		return 0, fmt.Errorf("loan %d: %w", loanID, ErrNotFound)
	}
	if loan.Returned() {
		return 0, fmt.Errorf("loan %d: %w", loanID, ErrAlreadyReturned)
	}
	if err := l.catalog.ChangeAvailable(loan.BookID, +1); err != nil {
		return 0, err
	}
	ret := l.today()
	loan.ReturnDate = &ret
	if err := l.store.SaveLoans(l.loans); err != nil {
		return 0, err
	}
	return Fine(loan.DueDate, ret), nil
}

// Fine is the charge for handing a loan back after its due date: whole days
// late times the per-day rate, never negative.
func Fine(dueDate, returnDate time.Time) float64 {
	overdue := int(returnDate.Sub(dueDate).Hours() / 24)
	if overdue <= 0 {
		return 0
	}
	return float64(overdue) * finePerDay
}

func (l *LoanLedger) today() time.Time {
	t := l.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (l *LoanLedger) nextID() int64 {
	max := int64(loanIDBase)
	for i := range l.loans {
		if l.loans[i].ID > max {
			max = l.loans[i].ID
		}
	}
	return max + 1
}
