// Command seeddata creates the lending schema and loads sample books and
// members into the configured Postgres database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suhana1701/Library-Management-System/lending"
	"github.com/suhana1701/Library-Management-System/lending/postgresengine"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Error("DATABASE_URL must be set")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Error("connecting failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	storage, err := postgresengine.NewStorageFromPGXPool(pool, postgresengine.WithLogger(logger))
	if err != nil {
		logger.Error("building storage failed", "error", err)
		os.Exit(1)
	}

	if err = storage.CreateSchema(ctx); err != nil {
		logger.Error("creating schema failed", "error", err)
		os.Exit(1)
	}

	if err = seed(ctx, storage.Stores()); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("sample data loaded", "books", len(sampleBooks()), "members", len(sampleMembers()))
}

func seed(ctx context.Context, stores lending.Stores) error {
	for _, book := range sampleBooks() {
		if _, err := stores.Catalog.AddBook(ctx, book); err != nil {
			return fmt.Errorf("adding book %q: %w", book.Title, err)
		}
	}

	for _, member := range sampleMembers() {
		if _, err := stores.Membership.AddMember(ctx, member); err != nil {
			return fmt.Errorf("adding member %q: %w", member.Name, err)
		}
	}

	return nil
}

func sampleBooks() []lending.Book {
	return []lending.Book{
		lending.BuildBook("The Great Gatsby", "F. Scott Fitzgerald", "978-0743273565", 1925, 3, "Fiction"),
		lending.BuildBook("To Kill a Mockingbird", "Harper Lee", "978-0061120084", 1960, 2, "Fiction"),
		lending.BuildBook("1984", "George Orwell", "978-0451524935", 1949, 4, "Science Fiction"),
		lending.BuildBook("Pride and Prejudice", "Jane Austen", "978-0141439518", 1813, 3, "Romance"),
		lending.BuildBook("The Catcher in the Rye", "J.D. Salinger", "978-0316769174", 1951, 2, "Fiction"),
		lending.BuildBook("Sapiens", "Yuval Noah Harari", "978-0062316097", 2011, 5, "Non-Fiction"),
		lending.BuildBook("Thinking, Fast and Slow", "Daniel Kahneman", "978-0374533557", 2011, 3, "Non-Fiction"),
		lending.BuildBook("Atomic Habits", "James Clear", "978-0735211292", 2018, 6, "Self-Help"),
		lending.BuildBook("The Silent Patient", "Alex Michaelides", "978-1250295255", 2019, 2, "Mystery"),
		lending.BuildBook("Educated", "Tara Westover", "978-0399590504", 2018, 4, "Biography"),
		lending.BuildBook("A Brief History of Time", "Stephen Hawking", "978-0553380163", 1988, 3, "Science"),
		lending.BuildBook("The Hobbit", "J.R.R. Tolkien", "978-0547928227", 1937, 5, "Fantasy"),
		lending.BuildBook("Harry Potter and the Philosopher's Stone", "J.K. Rowling", "978-0747532699", 1997, 4, "Fantasy"),
		lending.BuildBook("Dune", "Frank Herbert", "978-0441172719", 1965, 2, "Science Fiction"),
		lending.BuildBook("The Lord of the Rings", "J.R.R. Tolkien", "978-0544003415", 1954, 3, "Fantasy"),
	}
}

func sampleMembers() []lending.Member {
	return []lending.Member{
		lending.BuildMember("John Smith", "john.smith@email.com", "555-0101", "123 Main St"),
		lending.BuildMember("Mary Johnson", "mary.johnson@email.com", "555-0102", "456 Oak Ave"),
		lending.BuildMember("Robert Williams", "robert.williams@email.com", "555-0103", "789 Pine Rd"),
		lending.BuildMember("Patricia Brown", "patricia.brown@email.com", "555-0104", "321 Elm St"),
		lending.BuildMember("Michael Davis", "michael.davis@email.com", "555-0105", "654 Maple Dr"),
		lending.BuildMember("Linda Miller", "linda.miller@email.com", "555-0106", "987 Cedar Ln"),
		lending.BuildMember("James Wilson", "james.wilson@email.com", "555-0107", "147 Birch Ct"),
		lending.BuildMember("Barbara Moore", "barbara.moore@email.com", "555-0108", "258 Spruce Way"),
	}
}
