package library

import "go.uber.org/zap"

// LibraryManager wires the store and the three services together so callers
// deal with one object. It owns initialization: the data directory, table
// bootstrap and default admin seeding all happen in the constructor, nothing
// is reachable through package state.
type LibraryManager struct {
	store *Store

	Books *BookCatalog
	Users *UserDirectory
	Loans *LoanLedger
}

// NewLibraryManager bootstraps the data directory and loads all three
// tables. A load failure here means the service cannot operate and the
// caller should treat it as fatal.
func NewLibraryManager(dataDir, adminPassword string, logger *zap.Logger) (*LibraryManager, error) {
	store := NewStore(dataDir, logger)
	if err := store.Initialize(adminPassword); err != nil {
		return nil, err
	}
	books, err := NewBookCatalog(store)
	if err != nil {
		return nil, err
	}
	users, err := NewUserDirectory(store)
	if err != nil {
		return nil, err
	}
	loans, err := NewLoanLedger(store, books)
	if err != nil {
		return nil, err
	}
	return &LibraryManager{store: store, Books: books, Users: users, Loans: loans}, nil
}

// DeregisterUser removes an account unless the ledger still holds an open
// loan for it.
func (m *LibraryManager) DeregisterUser(username string) (bool, error) {
	return m.Users.Deregister(username, m.Loans)
}
