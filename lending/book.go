package lending

import "time"

// Book represents one title in the catalog together with its copy counts.
// Available is the number of copies not currently on loan; the invariant
// 0 <= Available <= Quantity holds after every lifecycle operation.
type Book struct {
	ID              int64
	Title           string
	Author          string
	ISBN            string // optional, unique when set
	PublicationYear int    // optional, 0 means unknown
	Category        string
	Quantity        int
	Available       int
	CreatedAt       time.Time
}

// HasAvailableCopy reports whether at least one copy can be borrowed.
func (b Book) HasAvailableCopy() bool {
	return b.Available > 0
}

// BuildBook creates a new Book with all copies available.
func BuildBook(title, author, isbn string, publicationYear, quantity int, category string) Book {
	return Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		PublicationYear: publicationYear,
		Category:        category,
		Quantity:        quantity,
		Available:       quantity,
	}
}
