package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminPassword = "admin123"

func tempStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(t.TempDir(), nil)
	if err := s.Initialize(testAdminPassword); err != nil {
		t.Fatalf("initialize store: %v", err)
	}
	return s
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestInitializeCreatesTablesAndAdmin(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	require.NoError(t, s.Initialize(testAdminPassword))

	for name, header := range tableHeaders {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(raw), header+"\n"), "%s missing header", name)
	}

	users, err := s.LoadUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, "Administrator", users[0].FullName)
	assert.Equal(t, HashPassword(testAdminPassword), users[0].PasswordHash)
}

func TestInitializeIsIdempotent(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.SaveBooks([]Book{{ID: 1001, Title: "A", Author: "B", TotalCopies: 1, AvailableCopies: 1}}))

	require.NoError(t, s.Initialize(testAdminPassword))

	users, err := s.LoadUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1, "admin must not be seeded twice")

	books, err := s.LoadBooks()
	require.NoError(t, err)
	assert.Len(t, books, 1, "existing tables must not be rewritten")
}

func TestBooksRoundTrip(t *testing.T) {
	s := tempStore(t)
	in := []Book{
		{ID: 1001, Title: "Crime, and Punishment", Author: `Fyodor "D"`, TotalCopies: 3, AvailableCopies: 2},
		{ID: 1002, Title: "Plain", Author: "Author", TotalCopies: 1, AvailableCopies: 1},
	}
	require.NoError(t, s.SaveBooks(in))

	out, err := s.LoadBooks()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoansRoundTrip(t *testing.T) {
	s := tempStore(t)
	ret := date(t, "2026-02-10")
	in := []Loan{
		{ID: 5001, BookID: 1001, Username: "alice", IssueDate: date(t, "2026-01-05"), DueDate: date(t, "2026-01-19")},
		{ID: 5002, BookID: 1002, Username: "bob", IssueDate: date(t, "2026-01-20"), DueDate: date(t, "2026-02-03"), ReturnDate: &ret},
	}
	require.NoError(t, s.SaveLoans(in))

	out, err := s.LoadLoans()
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.False(t, out[0].Returned())
	assert.True(t, out[1].Returned())
}

func TestLoadFailsOnMalformedRow(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	require.NoError(t, s.Initialize(testAdminPassword))

	content := tableHeaders[booksFile] + "\n1001,Title,Author,notanumber,1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, booksFile), []byte(content), 0o644))

	_, err := s.LoadBooks()
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, booksFile, fe.File)
	assert.Equal(t, 2, fe.Line)
}

func TestLoadFailsOnBadDate(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	require.NoError(t, s.Initialize(testAdminPassword))

	content := tableHeaders[loansFile] + "\n5001,1001,alice,2026/01/05,2026-01-19,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, loansFile), []byte(content), 0o644))

	_, err := s.LoadLoans()
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}

func TestLoadSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	require.NoError(t, s.Initialize(testAdminPassword))

	content := tableHeaders[booksFile] + "\n\n1001,A,B,1,1\n   \n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, booksFile), []byte(content), 0o644))

	books, err := s.LoadBooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, int64(1001), books[0].ID)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	require.NoError(t, s.Initialize(testAdminPassword))
	require.NoError(t, s.SaveBooks([]Book{{ID: 1001, Title: "A", Author: "B", TotalCopies: 1, AvailableCopies: 1}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temp file left behind")
	}
}
