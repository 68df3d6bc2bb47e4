package main

import (
	"context"
	"fmt"

	"github.com/suhana1701/Library-Management-System/lending"
)

func (a *app) manageBorrowing(ctx context.Context) {
	for {
		a.printHeader("Borrowing")
		a.printMenu(
			"Borrow Book",
			"Return Book",
			"View Active Loans",
			"View Overdue Books",
		)

		choice := a.promptLine("Select an option: ")
		if choice == "" && a.inputDone {
			return
		}

		switch choice {
		case "1":
			a.borrowBook(ctx)
		case "2":
			a.returnBook(ctx)
		case "3":
			a.viewActiveLoans(ctx)
		case "4":
			a.viewOverdueBooks(ctx)
		case "0":
			return
		default:
			fmt.Fprintln(a.out, "Invalid option.")
		}
	}
}

func (a *app) borrowBook(ctx context.Context) {
	memberID, ok := a.promptInt64("Member ID: ")
	if !ok {
		return
	}

	bookID, ok := a.promptInt64("Book ID: ")
	if !ok {
		return
	}

	days, ok := a.promptIntOrDefault(fmt.Sprintf("Loan duration in days [%d]: ", a.cfg.LoanDays), a.cfg.LoanDays)
	if !ok {
		return
	}

	loan, err := a.engine.Borrow(ctx, memberID, bookID, days)
	if err != nil {
		fmt.Fprintln(a.out, "Borrowing failed:", err)
		return
	}

	fmt.Fprintf(a.out, "Book borrowed, loan %d. Due date: %s\n", loan.ID, loan.DueAt.Format("2006-01-02"))
}

func (a *app) returnBook(ctx context.Context) {
	loanID, ok := a.promptInt64("Loan ID: ")
	if !ok {
		return
	}

	rate, ok := a.promptFloatOrDefault(fmt.Sprintf("Fine per day [%.2f]: ", a.cfg.FinePerDay), a.cfg.FinePerDay)
	if !ok {
		return
	}

	_, fee, err := a.engine.Return(ctx, loanID, rate)
	if err != nil {
		fmt.Fprintln(a.out, "Return failed:", err)
		return
	}

	fmt.Fprintln(a.out, "Book returned.")

	if fee > 0 {
		fmt.Fprintf(a.out, "Fine imposed: $%.2f\n", fee)
	}
}

func (a *app) viewActiveLoans(ctx context.Context) {
	loans, err := a.engine.AllActiveLoans(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Listing loans failed:", err)
		return
	}

	if len(loans) == 0 {
		fmt.Fprintln(a.out, "No active loans.")
		return
	}

	fmt.Fprintf(a.out, "%-6s %-8s %-8s %-12s %s\n", "Loan", "Member", "Book", "Borrowed", "Due")

	for _, loan := range loans {
		fmt.Fprintf(a.out, "%-6d %-8d %-8d %-12s %s\n",
			loan.ID, loan.MemberID, loan.BookID,
			loan.BorrowedAt.Format("2006-01-02"), loan.DueAt.Format("2006-01-02"))
	}
}

func (a *app) viewOverdueBooks(ctx context.Context) {
	overdue, err := a.engine.OverdueLoans(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Listing overdue loans failed:", err)
		return
	}

	if len(overdue) == 0 {
		fmt.Fprintln(a.out, "No overdue books.")
		return
	}

	fmt.Fprintf(a.out, "%-6s %-25s %-8s %s\n", "Loan", "Member", "Book", "Due")

	for _, item := range overdue {
		fmt.Fprintf(a.out, "%-6d %-25.25s %-8d %s\n",
			item.ID, item.MemberName, item.BookID, item.DueAt.Format("2006-01-02"))
	}
}

func (a *app) manageFines(ctx context.Context) {
	for {
		a.printHeader("Fines")
		a.printMenu(
			"View Member Fines",
			"Pay Fine",
			"View All Unpaid Fines",
		)

		choice := a.promptLine("Select an option: ")
		if choice == "" && a.inputDone {
			return
		}

		switch choice {
		case "1":
			a.viewMemberFines(ctx)
		case "2":
			a.payFine(ctx)
		case "3":
			a.viewAllUnpaidFines(ctx)
		case "0":
			return
		default:
			fmt.Fprintln(a.out, "Invalid option.")
		}
	}
}

func (a *app) viewMemberFines(ctx context.Context) {
	memberID, ok := a.promptInt64("Member ID: ")
	if !ok {
		return
	}

	fines, err := a.engine.FinesForMember(ctx, memberID)
	if err != nil {
		fmt.Fprintln(a.out, "Listing fines failed:", err)
		return
	}

	if len(fines) == 0 {
		fmt.Fprintln(a.out, "No fines.")
		return
	}

	for _, fine := range fines {
		a.printFine(fine)
	}
}

func (a *app) printFine(fine lending.Fine) {
	state := "unpaid"
	if fine.Paid {
		state = "paid"
	}

	fmt.Fprintf(a.out, "Fine %d: $%.2f (%s) - %s, %s\n",
		fine.ID, fine.Amount, state, fine.Reason, fine.CreatedAt.Format("2006-01-02"))
}

func (a *app) payFine(ctx context.Context) {
	fineID, ok := a.promptInt64("Fine ID: ")
	if !ok {
		return
	}

	amount, err := a.engine.PayFine(ctx, fineID)
	if err != nil {
		fmt.Fprintln(a.out, "Payment failed:", err)
		return
	}

	fmt.Fprintf(a.out, "Fine paid. Amount: $%.2f\n", amount)
}

func (a *app) viewAllUnpaidFines(ctx context.Context) {
	unpaid, err := a.engine.UnpaidFines(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Listing unpaid fines failed:", err)
		return
	}

	if len(unpaid) == 0 {
		fmt.Fprintln(a.out, "No unpaid fines.")
		return
	}

	var total float64

	for _, item := range unpaid {
		fmt.Fprintf(a.out, "Fine %d: $%.2f owed by %s - %s\n",
			item.ID, item.Amount, item.MemberName, item.Reason)
		total += item.Amount
	}

	fmt.Fprintf(a.out, "Total outstanding: $%.2f\n", total)
}

func (a *app) showReports(ctx context.Context) {
	summary, err := a.engine.Summary(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Building report failed:", err)
		return
	}

	a.printHeader("Library Report")
	fmt.Fprintf(a.out, "Titles: %d (copies: %d)\n", summary.TotalBooks, summary.TotalCopies)
	fmt.Fprintf(a.out, "Members: %d\n", summary.TotalMembers)
	fmt.Fprintf(a.out, "Active loans: %d (overdue: %d)\n", summary.ActiveLoans, summary.OverdueLoans)
	fmt.Fprintf(a.out, "Outstanding fines: $%.2f\n", summary.OutstandingFines)

	entries, err := a.engine.JournalEntries(ctx, 10)
	if err != nil {
		fmt.Fprintln(a.out, "Reading journal failed:", err)
		return
	}

	if len(entries) > 0 {
		fmt.Fprintln(a.out, "\nRecent activity:")

		for _, entry := range entries {
			fmt.Fprintf(a.out, "  %s %s %s\n",
				entry.OccurredAt.Format("2006-01-02 15:04"), entry.EventType, string(entry.Payload))
		}
	}
}
