package lending_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/suhana1701/Library-Management-System/lending"
)

func Test_BuildLoan_SetsDueDateFromDuration(t *testing.T) {
	// arrange
	borrowedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// act
	loan := lending.BuildLoan(7, 42, borrowedAt, 14)

	// assert
	assert.Equal(t, int64(7), loan.MemberID)
	assert.Equal(t, int64(42), loan.BookID)
	assert.Equal(t, borrowedAt.AddDate(0, 0, 14), loan.DueAt)
	assert.Equal(t, lending.LoanStatusBorrowed, loan.Status)
	assert.True(t, loan.IsActive())
}

func Test_Loan_DaysOverdue_IsZero_WhenReturnedAtDueInstant(t *testing.T) {
	// arrange
	due := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	loan := lending.Loan{DueAt: due, Status: lending.LoanStatusBorrowed}

	// act + assert
	assert.Equal(t, 0, loan.DaysOverdue(due))
	assert.Equal(t, 0, loan.DaysOverdue(due.Add(-time.Hour)))
	assert.Equal(t, 0.0, loan.FineFor(due, 1.0))
}

func Test_Loan_DaysOverdue_TruncatesPartialDays(t *testing.T) {
	// arrange
	due := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	loan := lending.Loan{DueAt: due, Status: lending.LoanStatusBorrowed}

	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{name: "twelve_hours_late_is_zero_days", now: due.Add(12 * time.Hour), expected: 0},
		{name: "just_under_one_day_is_zero_days", now: due.Add(24*time.Hour - time.Second), expected: 0},
		{name: "exactly_one_day_is_one_day", now: due.Add(24 * time.Hour), expected: 1},
		{name: "three_and_a_half_days_is_three_days", now: due.Add(84 * time.Hour), expected: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act + assert
			assert.Equal(t, tc.expected, loan.DaysOverdue(tc.now))
		})
	}
}

func Test_Loan_FineFor_MultipliesWholeDaysByRate(t *testing.T) {
	// arrange
	due := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	loan := lending.Loan{DueAt: due, Status: lending.LoanStatusBorrowed}

	// act
	fine := loan.FineFor(due.AddDate(0, 0, 3), 2.0)

	// assert
	assert.Equal(t, 6.0, fine)
}

func Test_Loan_IsOverdue_OnlyWhileActive(t *testing.T) {
	// arrange
	due := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	now := due.Add(time.Hour)

	active := lending.Loan{DueAt: due, Status: lending.LoanStatusBorrowed}
	returned := lending.Loan{DueAt: due, Status: lending.LoanStatusReturned}

	// act + assert
	assert.True(t, active.IsOverdue(now))
	assert.False(t, returned.IsOverdue(now))
	assert.False(t, active.IsOverdue(due))
}

func Test_BuildLateReturnFine_CarriesLoanReferenceAndReason(t *testing.T) {
	// arrange
	createdAt := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	loan := lending.Loan{ID: 5, MemberID: 9, BookID: 3}

	// act
	fine := lending.BuildLateReturnFine(loan, 3, 6.0, createdAt)

	// assert
	assert.Equal(t, int64(9), fine.MemberID)
	assert.Equal(t, int64(5), fine.LoanID)
	assert.Equal(t, 6.0, fine.Amount)
	assert.Equal(t, "Late return fine - 3 days overdue", fine.Reason)
	assert.False(t, fine.Paid)
	assert.Equal(t, createdAt, fine.CreatedAt)
}

func Test_LoanPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  lending.LoanPolicy
		wantErr bool
	}{
		{name: "default_policy_is_valid", policy: lending.DefaultLoanPolicy(), wantErr: false},
		{name: "zero_rate_is_valid", policy: lending.LoanPolicy{DurationDays: 7, FinePerDay: 0}, wantErr: false},
		{name: "zero_duration_is_invalid", policy: lending.LoanPolicy{DurationDays: 0, FinePerDay: 1}, wantErr: true},
		{name: "negative_rate_is_invalid", policy: lending.LoanPolicy{DurationDays: 7, FinePerDay: -1}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.policy.Validate()

			if tc.wantErr {
				assert.ErrorIs(t, err, lending.ErrInvalidLoanPolicy)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
