package main

import (
	"context"
	"fmt"

	"github.com/suhana1701/Library-Management-System/lending"
)

func (a *app) manageMembers(ctx context.Context) {
	for {
		a.printHeader("Manage Members")
		a.printMenu(
			"Register Member",
			"View All Members",
			"Search Members",
			"View Member Details",
			"Update Member",
			"Delete Member",
		)

		choice := a.promptLine("Select an option: ")
		if choice == "" && a.inputDone {
			return
		}

		switch choice {
		case "1":
			a.registerMember(ctx)
		case "2":
			a.viewAllMembers(ctx)
		case "3":
			a.searchMembers(ctx)
		case "4":
			a.viewMemberDetails(ctx)
		case "5":
			a.updateMember(ctx)
		case "6":
			a.deleteMember(ctx)
		case "0":
			return
		default:
			fmt.Fprintln(a.out, "Invalid option.")
		}
	}
}

func (a *app) registerMember(ctx context.Context) {
	name := a.promptLine("Name: ")
	email := a.promptLine("Email (optional): ")
	phone := a.promptLine("Phone (optional): ")
	address := a.promptLine("Address (optional): ")

	member, err := a.stores.Membership.AddMember(ctx, lending.BuildMember(name, email, phone, address))
	if err != nil {
		fmt.Fprintln(a.out, "Registering member failed:", err)
		return
	}

	fmt.Fprintf(a.out, "Member registered with ID %d.\n", member.ID)
}

func (a *app) viewAllMembers(ctx context.Context) {
	members, err := a.stores.Membership.AllMembers(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Listing members failed:", err)
		return
	}

	a.printMembers(members)
}

func (a *app) searchMembers(ctx context.Context) {
	term := a.promptLine("Search (name/email): ")

	members, err := a.stores.Membership.SearchMembers(ctx, term)
	if err != nil {
		fmt.Fprintln(a.out, "Search failed:", err)
		return
	}

	a.printMembers(members)
}

func (a *app) printMembers(members []lending.Member) {
	if len(members) == 0 {
		fmt.Fprintln(a.out, "No members found.")
		return
	}

	fmt.Fprintf(a.out, "%-5s %-25s %-25s %-10s %s\n", "ID", "Name", "Email", "Status", "Fine")

	for _, member := range members {
		fmt.Fprintf(a.out, "%-5d %-25.25s %-25.25s %-10s $%.2f\n",
			member.ID, member.Name, member.Email, member.Status, member.OutstandingFine)
	}
}

func (a *app) viewMemberDetails(ctx context.Context) {
	id, ok := a.promptInt64("Member ID: ")
	if !ok {
		return
	}

	member, err := a.stores.Membership.MemberByID(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Lookup failed:", err)
		return
	}

	fmt.Fprintf(a.out, "Name: %s\nEmail: %s\nPhone: %s\nAddress: %s\nStatus: %s\nOutstanding Fine: $%.2f\n",
		member.Name, member.Email, member.Phone, member.Address, member.Status, member.OutstandingFine)

	loans, err := a.engine.ActiveLoansForMember(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Listing loans failed:", err)
		return
	}

	fmt.Fprintf(a.out, "\nActive loans: %d\n", len(loans))

	for _, loan := range loans {
		fmt.Fprintf(a.out, "  Loan %d, book %d, due %s\n", loan.ID, loan.BookID, loan.DueAt.Format("2006-01-02"))
	}

	fines, err := a.engine.FinesForMember(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Listing fines failed:", err)
		return
	}

	unpaid := 0

	for _, fine := range fines {
		if !fine.Paid {
			unpaid++
			fmt.Fprintf(a.out, "  Unpaid fine %d: $%.2f (%s)\n", fine.ID, fine.Amount, fine.Reason)
		}
	}

	fmt.Fprintf(a.out, "Unpaid fines: %d\n", unpaid)
}

func (a *app) updateMember(ctx context.Context) {
	id, ok := a.promptInt64("Member ID: ")
	if !ok {
		return
	}

	member, err := a.stores.Membership.MemberByID(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Lookup failed:", err)
		return
	}

	if name := a.promptLine(fmt.Sprintf("Name [%s]: ", member.Name)); name != "" {
		member.Name = name
	}

	if email := a.promptLine(fmt.Sprintf("Email [%s]: ", member.Email)); email != "" {
		member.Email = email
	}

	if phone := a.promptLine(fmt.Sprintf("Phone [%s]: ", member.Phone)); phone != "" {
		member.Phone = phone
	}

	if address := a.promptLine(fmt.Sprintf("Address [%s]: ", member.Address)); address != "" {
		member.Address = address
	}

	if status := a.promptLine(fmt.Sprintf("Status [%s]: ", member.Status)); status != "" {
		member.Status = lending.MemberStatus(status)
	}

	if err = a.stores.Membership.UpdateMember(ctx, member); err != nil {
		fmt.Fprintln(a.out, "Update failed:", err)
		return
	}

	fmt.Fprintln(a.out, "Member updated.")
}

func (a *app) deleteMember(ctx context.Context) {
	id, ok := a.promptInt64("Member ID: ")
	if !ok {
		return
	}

	if err := a.stores.Membership.DeleteMember(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Delete failed:", err)
		return
	}

	fmt.Fprintln(a.out, "Member deleted.")
}
