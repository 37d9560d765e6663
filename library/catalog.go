package library

import "fmt"

// Book ids start above this base so they are visually distinct from loan ids.
const bookIDBase = 1000

// BookCatalog is the authoritative in-memory book list, written back through
// the store after every mutation.
type BookCatalog struct {
	store *Store
	books []Book
}

// NewBookCatalog loads the book table into memory.
func NewBookCatalog(store *Store) (*BookCatalog, error) {
	books, err := store.LoadBooks()
	if err != nil {
		return nil, err
	}
	return &BookCatalog{store: store, books: books}, nil
}

// List returns a copy of the catalogue.
func (c *BookCatalog) List() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

// Find returns the book with the given id.
func (c *BookCatalog) Find(id int64) (Book, bool) {
	if b := c.find(id); b != nil {
		return *b, true
	}
	return Book{}, false
}

// Create adds a new book with all copies available and persists the table.
func (c *BookCatalog) Create(title, author string, copies int) (Book, error) {
	b := Book{
		ID:              c.nextID(),
		Title:           title,
		Author:          author,
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
	c.books = append(c.books, b)
	if err := c.persist(); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update edits a book in place; nil arguments keep the current value.
// Changing the total shifts the available count by the same delta, clamped
// at zero. Reports false when the id is unknown.
func (c *BookCatalog) Update(id int64, title, author *string, totalCopies *int) (bool, error) {
	b := c.find(id)
	if b == nil {
		return false, nil
	}
	if title != nil {
		b.Title = *title
	}
	if author != nil {
		b.Author = *author
	}
	if totalCopies != nil {
		diff := *totalCopies - b.TotalCopies
		b.TotalCopies = *totalCopies
		b.AvailableCopies += diff
		if b.AvailableCopies < 0 {
			b.AvailableCopies = 0
		}
	}
	return true, c.persist()
}

// Delete removes a book. Reports false when the id is unknown or any copy is
// still out on loan.
func (c *BookCatalog) Delete(id int64) (bool, error) {
	b := c.find(id)
	if b == nil || b.AvailableCopies != b.TotalCopies {
		return false, nil
	}
	for i := range c.books {
		if c.books[i].ID == id {
			c.books = append(c.books[:i], c.books[i+1:]...)
			break
		}
	}
	return true, c.persist()
}

// ChangeAvailable shifts a book's available-copy count by delta. The ledger
// calls this with ±1 on issue and return. The result must stay within
// [0, TotalCopies].
func (c *BookCatalog) ChangeAvailable(id int64, delta int) error {
	b := c.find(id)
	if b == nil {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	next := b.AvailableCopies + delta
	if next < 0 || next > b.TotalCopies {
		return fmt.Errorf("book %d: %d of %d copies: %w", id, next, b.TotalCopies, ErrInvalidState)
	}
	b.AvailableCopies = next
	return c.persist()
}

func (c *BookCatalog) find(id int64) *Book {
	for i := range c.books {
		if c.books[i].ID == id {
			return &c.books[i]
		}
	}
	return nil
}

func (c *BookCatalog) nextID() int64 {
	max := int64(bookIDBase)
	for i := range c.books {
		if c.books[i].ID > max {
			max = c.books[i].ID
		}
	}
	return max + 1
}

func (c *BookCatalog) persist() error { return c.store.SaveBooks(c.books) }
