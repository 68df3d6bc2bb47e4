package lending

import "time"

// MemberStatus identifies the membership state of a member.
type MemberStatus string

const (
	// MemberStatusActive marks a member in good standing.
	MemberStatusActive MemberStatus = "active"

	// MemberStatusSuspended marks a member whose membership is on hold.
	MemberStatusSuspended MemberStatus = "suspended"
)

// Member represents a library member. OutstandingFine is the sum of the
// member's unpaid fine amounts and never goes negative.
type Member struct {
	ID              int64
	Name            string
	Email           string // optional, unique when set
	Phone           string
	Address         string
	Status          MemberStatus
	OutstandingFine float64
	JoinedAt        time.Time
}

// BuildMember creates a new active Member with a zero balance.
func BuildMember(name, email, phone, address string) Member {
	return Member{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: address,
		Status:  MemberStatusActive,
	}
}
