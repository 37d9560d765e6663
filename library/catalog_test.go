package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempCatalog(t *testing.T) *BookCatalog {
	t.Helper()
	c, err := NewBookCatalog(tempStore(t))
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return c
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateAssignsSequentialIDs(t *testing.T) {
	c := tempCatalog(t)

	b1, err := c.Create("First", "Author", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), b1.ID)
	assert.Equal(t, 2, b1.TotalCopies)
	assert.Equal(t, 2, b1.AvailableCopies)

	b2, err := c.Create("Second", "Author", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1002), b2.ID)
}

func TestCreatePersistsImmediately(t *testing.T) {
	store := tempStore(t)
	c, err := NewBookCatalog(store)
	require.NoError(t, err)
	_, err = c.Create("Durable", "Writer", 1)
	require.NoError(t, err)

	reloaded, err := NewBookCatalog(store)
	require.NoError(t, err)
	require.Len(t, reloaded.List(), 1)
	assert.Equal(t, "Durable", reloaded.List()[0].Title)
}

func TestUpdateUnknownID(t *testing.T) {
	c := tempCatalog(t)
	ok, err := c.Update(9999, strPtr("x"), nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateShiftsAvailableWithTotal(t *testing.T) {
	c := tempCatalog(t)
	b, err := c.Create("Book", "Author", 3)
	require.NoError(t, err)
	require.NoError(t, c.ChangeAvailable(b.ID, -2)) // two copies out

	ok, err := c.Update(b.ID, nil, nil, intPtr(5))
	require.NoError(t, err)
	require.True(t, ok)
	got, _ := c.Find(b.ID)
	assert.Equal(t, 5, got.TotalCopies)
	assert.Equal(t, 3, got.AvailableCopies)
}

func TestUpdateClampsAvailableAtZero(t *testing.T) {
	c := tempCatalog(t)
	b, err := c.Create("Book", "Author", 3)
	require.NoError(t, err)
	require.NoError(t, c.ChangeAvailable(b.ID, -2))

	// Shrinking total below the outstanding count clamps available to 0.
	ok, err := c.Update(b.ID, nil, nil, intPtr(1))
	require.NoError(t, err)
	require.True(t, ok)
	got, _ := c.Find(b.ID)
	assert.Equal(t, 1, got.TotalCopies)
	assert.Equal(t, 0, got.AvailableCopies)
}

func TestDeleteBlockedWhileCopiesOut(t *testing.T) {
	c := tempCatalog(t)
	b, err := c.Create("Book", "Author", 2)
	require.NoError(t, err)
	require.NoError(t, c.ChangeAvailable(b.ID, -1))

	ok, err := c.Delete(b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.ChangeAvailable(b.ID, +1))
	ok, err = c.Delete(b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, found := c.Find(b.ID)
	assert.False(t, found)
	assert.Empty(t, c.List())
}

func TestChangeAvailableBounds(t *testing.T) {
	c := tempCatalog(t)
	b, err := c.Create("Book", "Author", 1)
	require.NoError(t, err)

	err = c.ChangeAvailable(b.ID, +1)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, c.ChangeAvailable(b.ID, -1))
	err = c.ChangeAvailable(b.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidState)

	err = c.ChangeAvailable(9999, +1)
	assert.ErrorIs(t, err, ErrNotFound)

	// Failed changes must not move the count.
	got, _ := c.Find(b.ID)
	assert.Equal(t, 0, got.AvailableCopies)
}

func TestListReturnsDefensiveCopy(t *testing.T) {
	c := tempCatalog(t)
	_, err := c.Create("Book", "Author", 1)
	require.NoError(t, err)

	list := c.List()
	list[0].Title = "mutated"

	fresh, _ := c.Find(list[0].ID)
	assert.Equal(t, "Book", fresh.Title)
}
