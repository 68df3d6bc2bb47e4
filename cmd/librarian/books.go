package main

import (
	"context"
	"fmt"

	"github.com/suhana1701/Library-Management-System/lending"
)

func (a *app) manageBooks(ctx context.Context) {
	for {
		a.printHeader("Manage Books")
		a.printMenu(
			"Add Book",
			"View All Books",
			"Search Books",
			"Update Book",
			"Delete Book",
		)

		choice := a.promptLine("Select an option: ")
		if choice == "" && a.inputDone {
			return
		}

		switch choice {
		case "1":
			a.addBook(ctx)
		case "2":
			a.viewAllBooks(ctx)
		case "3":
			a.searchBooks(ctx)
		case "4":
			a.updateBook(ctx)
		case "5":
			a.deleteBook(ctx)
		case "0":
			return
		default:
			fmt.Fprintln(a.out, "Invalid option.")
		}
	}
}

func (a *app) addBook(ctx context.Context) {
	title := a.promptLine("Title: ")
	author := a.promptLine("Author: ")
	isbn := a.promptLine("ISBN (optional): ")

	year, ok := a.promptIntOrDefault("Publication year (optional): ", 0)
	if !ok {
		return
	}

	quantity, ok := a.promptIntOrDefault("Quantity [1]: ", 1)
	if !ok {
		return
	}

	category := a.promptLine("Category (optional): ")

	book, err := a.stores.Catalog.AddBook(ctx, lending.BuildBook(title, author, isbn, year, quantity, category))
	if err != nil {
		fmt.Fprintln(a.out, "Adding book failed:", err)
		return
	}

	fmt.Fprintf(a.out, "Book added with ID %d.\n", book.ID)
}

func (a *app) viewAllBooks(ctx context.Context) {
	books, err := a.stores.Catalog.AllBooks(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Listing books failed:", err)
		return
	}

	a.printBooks(books)
}

func (a *app) searchBooks(ctx context.Context) {
	term := a.promptLine("Search (title/author/ISBN): ")

	books, err := a.stores.Catalog.SearchBooks(ctx, term)
	if err != nil {
		fmt.Fprintln(a.out, "Search failed:", err)
		return
	}

	a.printBooks(books)
}

func (a *app) printBooks(books []lending.Book) {
	if len(books) == 0 {
		fmt.Fprintln(a.out, "No books found.")
		return
	}

	fmt.Fprintf(a.out, "%-5s %-35s %-25s %-15s %s\n", "ID", "Title", "Author", "Category", "Available")

	for _, book := range books {
		fmt.Fprintf(a.out, "%-5d %-35.35s %-25.25s %-15.15s %d/%d\n",
			book.ID, book.Title, book.Author, book.Category, book.Available, book.Quantity)
	}
}

func (a *app) updateBook(ctx context.Context) {
	id, ok := a.promptInt64("Book ID: ")
	if !ok {
		return
	}

	book, err := a.stores.Catalog.BookByID(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Lookup failed:", err)
		return
	}

	// blank keeps the current value
	if title := a.promptLine(fmt.Sprintf("Title [%s]: ", book.Title)); title != "" {
		book.Title = title
	}

	if author := a.promptLine(fmt.Sprintf("Author [%s]: ", book.Author)); author != "" {
		book.Author = author
	}

	if category := a.promptLine(fmt.Sprintf("Category [%s]: ", book.Category)); category != "" {
		book.Category = category
	}

	quantity, ok := a.promptIntOrDefault(fmt.Sprintf("Quantity [%d]: ", book.Quantity), book.Quantity)
	if !ok {
		return
	}

	// keep the invariant: shifting the total shifts the free copies with it
	book.Available += quantity - book.Quantity
	book.Quantity = quantity

	if book.Available < 0 || book.Available > book.Quantity {
		fmt.Fprintln(a.out, "Quantity cannot drop below the number of copies on loan.")
		return
	}

	if err = a.stores.Catalog.UpdateBook(ctx, book); err != nil {
		fmt.Fprintln(a.out, "Update failed:", err)
		return
	}

	fmt.Fprintln(a.out, "Book updated.")
}

func (a *app) deleteBook(ctx context.Context) {
	id, ok := a.promptInt64("Book ID: ")
	if !ok {
		return
	}

	if err := a.stores.Catalog.DeleteBook(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Delete failed:", err)
		return
	}

	fmt.Fprintln(a.out, "Book deleted.")
}
