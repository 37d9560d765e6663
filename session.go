package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"library-tracker/library"
)

// session drives the interactive menu. It is the only consumer of the
// services' return values and does all user-facing formatting; the services
// themselves never print.
type session struct {
	mgr         *library.LibraryManager
	sc          *bufio.Scanner
	logger      *zap.Logger
	currentUser string
}

func newSession(mgr *library.LibraryManager, logger *zap.Logger) *session {
	return &session{mgr: mgr, sc: bufio.NewScanner(os.Stdin), logger: logger}
}

func (s *session) run() {
	fmt.Println("Library Tracker")
	for {
		if s.currentUser == "" {
			fmt.Println("\n1) Login\n2) Register\n0) Exit")
			switch s.prompt("Choose: ") {
			case "1":
				s.login()
			case "2":
				s.register()
			case "0":
				fmt.Println("Bye")
				return
			default:
				fmt.Println("Invalid choice")
			}
			continue
		}
		if !s.mainMenu() {
			return
		}
	}
}

// mainMenu returns false when the user chose to exit the program.
func (s *session) mainMenu() bool {
	fmt.Printf("\n-- Main Menu (logged in as %s) --\n", s.currentUser)
	fmt.Println("1) Browse books\n2) My loans\n3) Borrow book\n4) Return book\n5) Deregister account\n6) Admin panel\n7) Logout\n0) Exit")
	switch s.prompt("Choose: ") {
	case "1":
		s.listBooks()
	case "2":
		s.myLoans()
	case "3":
		s.borrow()
	case "4":
		s.returnLoan()
	case "5":
		s.deregister()
	case "6":
		s.adminPanel()
	case "7":
		s.currentUser = ""
		fmt.Println("Logged out.")
	case "0":
		fmt.Println("Bye")
		return false
	default:
		fmt.Println("Invalid choice")
	}
	return true
}

func (s *session) login() {
	username := s.prompt("Username: ")
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	if !s.mgr.Users.Authenticate(username, password) {
		fmt.Println("Authentication failed.")
		return
	}
	s.currentUser = username
	s.logger.Debug("user logged in", zap.String("username", username))
	fmt.Printf("Welcome, %s\n", username)
}

func (s *session) register() {
	username := s.prompt("Choose username: ")
	fullName := s.prompt("Full name: ")
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	ok, err := s.mgr.Users.Register(username, password, fullName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if ok {
		fmt.Println("Registered. You may login.")
	} else {
		fmt.Println("Username already exists.")
	}
}

func (s *session) listBooks() {
	books := s.mgr.Books.List()
	if len(books) == 0 {
		fmt.Println("No books in the catalogue.")
		return
	}
	fmt.Printf("%-6s %-40s %-25s %s\n", "ID", "Title", "Author", "Available/Total")
	fmt.Println(strings.Repeat("-", 85))
	for _, b := range books {
		fmt.Printf("%-6d %-40s %-25s %d/%d\n", b.ID, truncate(b.Title, 40), truncate(b.Author, 25), b.AvailableCopies, b.TotalCopies)
	}
}

func (s *session) myLoans() {
	loans := s.mgr.Loans.ListActive(s.currentUser)
	if len(loans) == 0 {
		fmt.Println("No active loans.")
		return
	}
	fmt.Printf("%-6s %-6s %-40s %-12s %s\n", "Loan", "Book", "Title", "Issued", "Due")
	fmt.Println(strings.Repeat("-", 80))
	for _, l := range loans {
		title := fmt.Sprintf("#%d", l.BookID)
		if b, ok := s.mgr.Books.Find(l.BookID); ok {
			title = truncate(b.Title, 40)
		}
		fmt.Printf("%-6d %-6d %-40s %-12s %s\n", l.ID, l.BookID, title,
			l.IssueDate.Format("2006-01-02"), l.DueDate.Format("2006-01-02"))
	}
}

func (s *session) borrow() {
	id, ok := s.promptID("Book ID to borrow: ")
	if !ok {
		return
	}
	loan, err := s.mgr.Loans.Issue(id, s.currentUser)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Issued. Loan ID %d, due %s\n", loan.ID, loan.DueDate.Format("2006-01-02"))
}

func (s *session) returnLoan() {
	id, ok := s.promptID("Loan ID to return: ")
	if !ok {
		return
	}
	fine, err := s.mgr.Loans.Return(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if fine > 0 {
		fmt.Printf("Returned. Late fee: %.2f\n", fine)
	} else {
		fmt.Println("Returned on time. No fee.")
	}
}

func (s *session) deregister() {
	if s.prompt("Confirm deregister account (type DELETE): ") != "DELETE" {
		fmt.Println("Cancelled.")
		return
	}
	ok, err := s.mgr.DeregisterUser(s.currentUser)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !ok {
		fmt.Println("Cannot deregister: active loans exist.")
		return
	}
	fmt.Println("Account removed.")
	s.currentUser = ""
}

func (s *session) adminPanel() {
	if s.currentUser != "admin" {
		fmt.Println("Admin access only.")
		return
	}
	for {
		fmt.Println("\n-- Admin Panel --")
		fmt.Println("1) Add book\n2) Update book\n3) Delete book\n4) List users\n5) List loans\n0) Back")
		switch s.prompt("Choose: ") {
		case "1":
			s.addBook()
		case "2":
			s.updateBook()
		case "3":
			s.deleteBook()
		case "4":
			s.listUsers()
		case "5":
			s.listAllLoans()
		case "0":
			return
		default:
			fmt.Println("Invalid choice")
		}
	}
}

func (s *session) addBook() {
	title := s.prompt("Title: ")
	author := s.prompt("Author: ")
	copies, err := strconv.Atoi(s.prompt("Copies: "))
	if err != nil || copies < 0 {
		fmt.Println("Invalid copy count.")
		return
	}
	b, err := s.mgr.Books.Create(title, author, copies)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Added book ID %d\n", b.ID)
}

func (s *session) updateBook() {
	id, ok := s.promptID("Book ID: ")
	if !ok {
		return
	}
	if _, found := s.mgr.Books.Find(id); !found {
		fmt.Println("Not found.")
		return
	}
	// Blank input keeps the current value.
	var title, author *string
	var total *int
	if t := s.prompt("New title (blank keeps): "); t != "" {
		title = &t
	}
	if a := s.prompt("New author (blank keeps): "); a != "" {
		author = &a
	}
	if tc := s.prompt("New total copies (blank keeps): "); tc != "" {
		n, err := strconv.Atoi(tc)
		if err != nil || n < 0 {
			fmt.Println("Invalid copy count.")
			return
		}
		total = &n
	}
	ok, err := s.mgr.Books.Update(id, title, author, total)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if ok {
		fmt.Println("Updated.")
	} else {
		fmt.Println("Failed.")
	}
}

func (s *session) deleteBook() {
	id, ok := s.promptID("Book ID to delete: ")
	if !ok {
		return
	}
	done, err := s.mgr.Books.Delete(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if done {
		fmt.Println("Deleted.")
	} else {
		fmt.Println("Cannot delete: unknown id or copies still on loan.")
	}
}

func (s *session) listUsers() {
	fmt.Printf("%-20s %s\n", "Username", "Full Name")
	fmt.Println(strings.Repeat("-", 45))
	for _, u := range s.mgr.Users.List() {
		fmt.Printf("%-20s %s\n", u.Username, u.FullName)
	}
}

func (s *session) listAllLoans() {
	loans := s.mgr.Loans.ListAll()
	if len(loans) == 0 {
		fmt.Println("No loans recorded.")
		return
	}
	fmt.Printf("%-6s %-6s %-20s %-12s %-12s %s\n", "Loan", "Book", "User", "Issued", "Due", "Returned")
	fmt.Println(strings.Repeat("-", 75))
	for _, l := range loans {
		ret := "-"
		if l.ReturnDate != nil {
			ret = l.ReturnDate.Format("2006-01-02")
		}
		fmt.Printf("%-6d %-6d %-20s %-12s %-12s %s\n", l.ID, l.BookID, l.Username,
			l.IssueDate.Format("2006-01-02"), l.DueDate.Format("2006-01-02"), ret)
	}
}

func (s *session) prompt(label string) string {
	fmt.Print(label)
	if !s.sc.Scan() {
		return ""
	}
	return strings.TrimSpace(s.sc.Text())
}

func (s *session) promptID(label string) (int64, bool) {
	raw := s.prompt(label)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Printf("Invalid id: %s\n", raw)
		return 0, false
	}
	return id, true
}

// readPassword reads a password with terminal echo disabled.
func readPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
