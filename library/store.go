package library

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// dateLayout is the calendar-date form used in all three table files.
const dateLayout = "2006-01-02"

const (
	booksFile = "books.csv"
	usersFile = "users.csv"
	loansFile = "loans.csv"
)

var tableHeaders = map[string]string{
	booksFile: "id,title,author,total,available",
	usersFile: "username,passwordHash,fullName",
	loansFile: "id,bookId,username,issueDate,dueDate,returnDate",
}

// Store owns the three table files inside one data directory. Every save
// rewrites the whole table: the new content goes to a temp file in the same
// directory and replaces the target with a single rename, so a crash mid-save
// never leaves a half-written table behind.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore returns a store rooted at dir. A nil logger disables logging.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

// Initialize ensures the data directory and the three table files exist,
// creating absent files with a header-only line, and seeds the default admin
// account when users.csv has no admin row. Safe to call on every start.
func (s *Store) Initialize(adminPassword string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	for _, name := range []string{booksFile, usersFile, loansFile} {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if err := os.WriteFile(path, []byte(tableHeaders[name]+"\n"), 0o644); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		s.logger.Info("created table file", zap.String("file", name))
	}

	users, err := s.LoadUsers()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == adminUsername {
			return nil
		}
	}
	users = append(users, User{
		Username:     adminUsername,
		PasswordHash: HashPassword(adminPassword),
		FullName:     "Administrator",
	})
	if err := s.SaveUsers(users); err != nil {
		return err
	}
	s.logger.Info("seeded default admin account")
	return nil
}

// LoadBooks reads the whole book table.
func (s *Store) LoadBooks() ([]Book, error) {
	var books []Book
	err := s.loadTable(booksFile, 5, func(fields []string) error {
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad book id %q", fields[0])
		}
		total, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("bad total copies %q", fields[3])
		}
		avail, err := strconv.Atoi(fields[4])
		if err != nil {
			return fmt.Errorf("bad available copies %q", fields[4])
		}
		books = append(books, Book{
			ID:              id,
			Title:           fields[1],
			Author:          fields[2],
			TotalCopies:     total,
			AvailableCopies: avail,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// SaveBooks rewrites the whole book table in slice order.
func (s *Store) SaveBooks(books []Book) error {
	records := make([][]string, 0, len(books))
	for i := range books {
		b := &books[i]
		records = append(records, []string{
			strconv.FormatInt(b.ID, 10),
			b.Title,
			b.Author,
			strconv.Itoa(b.TotalCopies),
			strconv.Itoa(b.AvailableCopies),
		})
	}
	return s.writeTable(booksFile, records)
}

// LoadUsers reads the whole user table. A missing fullName cell is tolerated
// and loads as the empty string.
func (s *Store) LoadUsers() ([]User, error) {
	var users []User
	err := s.loadTable(usersFile, 2, func(fields []string) error {
		u := User{Username: fields[0], PasswordHash: fields[1]}
		if len(fields) > 2 {
			u.FullName = fields[2]
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUsers rewrites the whole user table in slice order.
func (s *Store) SaveUsers(users []User) error {
	records := make([][]string, 0, len(users))
	for i := range users {
		u := &users[i]
		records = append(records, []string{u.Username, u.PasswordHash, u.FullName})
	}
	return s.writeTable(usersFile, records)
}

// LoadLoans reads the whole loan table. An empty returnDate cell loads as an
// open loan.
func (s *Store) LoadLoans() ([]Loan, error) {
	var loans []Loan
	err := s.loadTable(loansFile, 5, func(fields []string) error {
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad loan id %q", fields[0])
		}
		bookID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad book id %q", fields[1])
		}
		issue, err := time.Parse(dateLayout, fields[3])
		if err != nil {
			return fmt.Errorf("bad issue date %q", fields[3])
		}
		due, err := time.Parse(dateLayout, fields[4])
		if err != nil {
			return fmt.Errorf("bad due date %q", fields[4])
		}
		loan := Loan{ID: id, BookID: bookID, Username: fields[2], IssueDate: issue, DueDate: due}
		if len(fields) > 5 && fields[5] != "" {
			ret, err := time.Parse(dateLayout, fields[5])
			if err != nil {
				return fmt.Errorf("bad return date %q", fields[5])
			}
			loan.ReturnDate = &ret
		}
		loans = append(loans, loan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// SaveLoans rewrites the whole loan table in slice order.
func (s *Store) SaveLoans(loans []Loan) error {
	records := make([][]string, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		ret := ""
		if l.ReturnDate != nil {
			ret = l.ReturnDate.Format(dateLayout)
		}
		records = append(records, []string{
			strconv.FormatInt(l.ID, 10),
			strconv.FormatInt(l.BookID, 10),
			l.Username,
			l.IssueDate.Format(dateLayout),
			l.DueDate.Format(dateLayout),
			ret,
		})
	}
	return s.writeTable(loansFile, records)
}

// loadTable walks a table file line by line, skipping the header and blank
// lines, and hands the decoded fields of each remaining line to decode. Any
// decode failure aborts the load with a FormatError naming file and line.
func (s *Store) loadTable(name string, minFields int, decode func(fields []string) error) error {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if lineNo == 1 || strings.TrimSpace(line) == "" {
			continue
		}
		fields := DecodeRecord(line)
		if len(fields) < minFields {
			return &FormatError{File: name, Line: lineNo, Msg: fmt.Sprintf("want at least %d fields, got %d", minFields, len(fields))}
		}
		if err := decode(fields); err != nil {
			return &FormatError{File: name, Line: lineNo, Msg: err.Error()}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// writeTable replaces a table file with header plus one encoded line per
// record, via temp file and rename.
func (s *Store) writeTable(name string, records [][]string) error {
	var sb strings.Builder
	sb.WriteString(tableHeaders[name])
	sb.WriteByte('\n')
	for _, rec := range records {
		line, err := EncodeRecord(rec)
		if err != nil {
			return err
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
