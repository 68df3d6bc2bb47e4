package memoryengine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/suhana1701/Library-Management-System/lending"
)

// Storage is an in-memory implementation of lending.Storage. A single mutex
// serializes every operation; WithinTx additionally snapshots the state so a
// failed transaction leaves nothing behind.
type Storage struct {
	mu    sync.Mutex
	state state
}

type state struct {
	books   map[int64]lending.Book
	members map[int64]lending.Member
	loans   map[int64]lending.Loan
	fines   map[int64]lending.Fine
	journal []lending.JournalEntry

	nextBookID   int64
	nextMemberID int64
	nextLoanID   int64
	nextFineID   int64
}

// NewStorage creates an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{
		state: state{
			books:   make(map[int64]lending.Book),
			members: make(map[int64]lending.Member),
			loans:   make(map[int64]lending.Loan),
			fines:   make(map[int64]lending.Fine),
		},
	}
}

// WithinTx runs fn while holding the storage mutex. When fn fails the state
// snapshot taken at entry is restored, so partial effects are never observable.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, stores lending.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()

	if err := fn(ctx, s.bareStores()); err != nil {
		s.state = snapshot
		return err
	}

	return nil
}

// Stores returns store access that locks the mutex per call.
func (s *Storage) Stores() lending.Stores {
	return lending.Stores{
		Catalog:    &catalogStore{s: s, lock: true},
		Membership: &membershipStore{s: s, lock: true},
		Loans:      &loanStore{s: s, lock: true},
		Fines:      &fineStore{s: s, lock: true},
		Journal:    &journalStore{s: s, lock: true},
	}
}

// bareStores returns store access without locking, for use inside WithinTx
// where the mutex is already held.
func (s *Storage) bareStores() lending.Stores {
	return lending.Stores{
		Catalog:    &catalogStore{s: s},
		Membership: &membershipStore{s: s},
		Loans:      &loanStore{s: s},
		Fines:      &fineStore{s: s},
		Journal:    &journalStore{s: s},
	}
}

func (st state) clone() state {
	cloned := state{
		books:        make(map[int64]lending.Book, len(st.books)),
		members:      make(map[int64]lending.Member, len(st.members)),
		loans:        make(map[int64]lending.Loan, len(st.loans)),
		fines:        make(map[int64]lending.Fine, len(st.fines)),
		journal:      make([]lending.JournalEntry, len(st.journal)),
		nextBookID:   st.nextBookID,
		nextMemberID: st.nextMemberID,
		nextLoanID:   st.nextLoanID,
		nextFineID:   st.nextFineID,
	}

	for id, book := range st.books {
		cloned.books[id] = book
	}

	for id, member := range st.members {
		cloned.members[id] = member
	}

	for id, loan := range st.loans {
		cloned.loans[id] = loan
	}

	for id, fine := range st.fines {
		cloned.fines[id] = fine
	}

	copy(cloned.journal, st.journal)

	return cloned
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type catalogStore struct {
	s    *Storage
	lock bool
}

func (c *catalogStore) acquire() func() {
	if !c.lock {
		return func() {}
	}

	c.s.mu.Lock()

	return c.s.mu.Unlock
}

func (c *catalogStore) AddBook(_ context.Context, book lending.Book) (lending.Book, error) {
	defer c.acquire()()

	c.s.state.nextBookID++
	book.ID = c.s.state.nextBookID

	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now()
	}

	c.s.state.books[book.ID] = book

	return book, nil
}

func (c *catalogStore) BookByID(_ context.Context, id int64) (lending.Book, error) {
	defer c.acquire()()

	book, ok := c.s.state.books[id]
	if !ok {
		return lending.Book{}, lending.ErrBookNotFound
	}

	return book, nil
}

func (c *catalogStore) AllBooks(_ context.Context) ([]lending.Book, error) {
	defer c.acquire()()

	books := make([]lending.Book, 0, len(c.s.state.books))
	for _, book := range c.s.state.books {
		books = append(books, book)
	}

	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })

	return books, nil
}

func (c *catalogStore) SearchBooks(_ context.Context, term string) ([]lending.Book, error) {
	defer c.acquire()()

	var books []lending.Book

	for _, book := range c.s.state.books {
		if containsFold(book.Title, term) || containsFold(book.Author, term) || containsFold(book.ISBN, term) {
			books = append(books, book)
		}
	}

	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })

	return books, nil
}

func (c *catalogStore) UpdateBook(_ context.Context, book lending.Book) error {
	defer c.acquire()()

	if _, ok := c.s.state.books[book.ID]; !ok {
		return lending.ErrBookNotFound
	}

	c.s.state.books[book.ID] = book

	return nil
}

func (c *catalogStore) DeleteBook(_ context.Context, id int64) error {
	defer c.acquire()()

	if _, ok := c.s.state.books[id]; !ok {
		return lending.ErrBookNotFound
	}

	delete(c.s.state.books, id)

	return nil
}

func (c *catalogStore) AdjustAvailable(_ context.Context, id int64, delta int) error {
	defer c.acquire()()

	book, ok := c.s.state.books[id]
	if !ok {
		return lending.ErrBookNotFound
	}

	adjusted := book.Available + delta
	if adjusted < 0 || adjusted > book.Quantity {
		return lending.ErrInvariantViolation
	}

	book.Available = adjusted
	c.s.state.books[id] = book

	return nil
}

type membershipStore struct {
	s    *Storage
	lock bool
}

func (m *membershipStore) acquire() func() {
	if !m.lock {
		return func() {}
	}

	m.s.mu.Lock()

	return m.s.mu.Unlock
}

func (m *membershipStore) AddMember(_ context.Context, member lending.Member) (lending.Member, error) {
	defer m.acquire()()

	m.s.state.nextMemberID++
	member.ID = m.s.state.nextMemberID

	if member.Status == "" {
		member.Status = lending.MemberStatusActive
	}

	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}

	m.s.state.members[member.ID] = member

	return member, nil
}

func (m *membershipStore) MemberByID(_ context.Context, id int64) (lending.Member, error) {
	defer m.acquire()()

	member, ok := m.s.state.members[id]
	if !ok {
		return lending.Member{}, lending.ErrMemberNotFound
	}

	return member, nil
}

func (m *membershipStore) AllMembers(_ context.Context) ([]lending.Member, error) {
	defer m.acquire()()

	members := make([]lending.Member, 0, len(m.s.state.members))
	for _, member := range m.s.state.members {
		members = append(members, member)
	}

	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	return members, nil
}

func (m *membershipStore) SearchMembers(_ context.Context, term string) ([]lending.Member, error) {
	defer m.acquire()()

	var members []lending.Member

	for _, member := range m.s.state.members {
		if containsFold(member.Name, term) || containsFold(member.Email, term) {
			members = append(members, member)
		}
	}

	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	return members, nil
}

func (m *membershipStore) UpdateMember(_ context.Context, member lending.Member) error {
	defer m.acquire()()

	if _, ok := m.s.state.members[member.ID]; !ok {
		return lending.ErrMemberNotFound
	}

	m.s.state.members[member.ID] = member

	return nil
}

func (m *membershipStore) DeleteMember(_ context.Context, id int64) error {
	defer m.acquire()()

	if _, ok := m.s.state.members[id]; !ok {
		return lending.ErrMemberNotFound
	}

	delete(m.s.state.members, id)

	return nil
}

func (m *membershipStore) AdjustBalance(_ context.Context, id int64, delta float64) error {
	defer m.acquire()()

	member, ok := m.s.state.members[id]
	if !ok {
		return lending.ErrMemberNotFound
	}

	adjusted := member.OutstandingFine + delta
	if adjusted < 0 {
		return lending.ErrInvariantViolation
	}

	member.OutstandingFine = adjusted
	m.s.state.members[id] = member

	return nil
}

type loanStore struct {
	s    *Storage
	lock bool
}

func (l *loanStore) acquire() func() {
	if !l.lock {
		return func() {}
	}

	l.s.mu.Lock()

	return l.s.mu.Unlock
}

func (l *loanStore) AddLoan(_ context.Context, loan lending.Loan) (lending.Loan, error) {
	defer l.acquire()()

	l.s.state.nextLoanID++
	loan.ID = l.s.state.nextLoanID
	l.s.state.loans[loan.ID] = loan

	return loan, nil
}

func (l *loanStore) LoanByID(_ context.Context, id int64) (lending.Loan, error) {
	defer l.acquire()()

	loan, ok := l.s.state.loans[id]
	if !ok {
		return lending.Loan{}, lending.ErrLoanNotFound
	}

	return loan, nil
}

func (l *loanStore) UpdateLoan(_ context.Context, loan lending.Loan) error {
	defer l.acquire()()

	if _, ok := l.s.state.loans[loan.ID]; !ok {
		return lending.ErrLoanNotFound
	}

	l.s.state.loans[loan.ID] = loan

	return nil
}

func (l *loanStore) ActiveByMember(_ context.Context, memberID int64) ([]lending.Loan, error) {
	defer l.acquire()()

	var loans []lending.Loan

	for _, loan := range l.s.state.loans {
		if loan.MemberID == memberID && loan.IsActive() {
			loans = append(loans, loan)
		}
	}

	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })

	return loans, nil
}

func (l *loanStore) AllActive(_ context.Context) ([]lending.Loan, error) {
	defer l.acquire()()

	var loans []lending.Loan

	for _, loan := range l.s.state.loans {
		if loan.IsActive() {
			loans = append(loans, loan)
		}
	}

	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })

	return loans, nil
}

func (l *loanStore) Overdue(_ context.Context, now time.Time) ([]lending.OverdueLoan, error) {
	defer l.acquire()()

	var overdue []lending.OverdueLoan

	for _, loan := range l.s.state.loans {
		if !loan.IsOverdue(now) {
			continue
		}

		memberName := ""
		if member, ok := l.s.state.members[loan.MemberID]; ok {
			memberName = member.Name
		}

		overdue = append(overdue, lending.OverdueLoan{Loan: loan, MemberName: memberName})
	}

	sort.Slice(overdue, func(i, j int) bool { return overdue[i].ID < overdue[j].ID })

	return overdue, nil
}

type fineStore struct {
	s    *Storage
	lock bool
}

func (f *fineStore) acquire() func() {
	if !f.lock {
		return func() {}
	}

	f.s.mu.Lock()

	return f.s.mu.Unlock
}

func (f *fineStore) AddFine(_ context.Context, fine lending.Fine) (lending.Fine, error) {
	defer f.acquire()()

	if fine.Amount <= 0 {
		return lending.Fine{}, lending.ErrInvalidFineAmount
	}

	f.s.state.nextFineID++
	fine.ID = f.s.state.nextFineID
	f.s.state.fines[fine.ID] = fine

	return fine, nil
}

func (f *fineStore) FineByID(_ context.Context, id int64) (lending.Fine, error) {
	defer f.acquire()()

	fine, ok := f.s.state.fines[id]
	if !ok {
		return lending.Fine{}, lending.ErrFineNotFound
	}

	return fine, nil
}

func (f *fineStore) MarkPaid(_ context.Context, id int64) error {
	defer f.acquire()()

	fine, ok := f.s.state.fines[id]
	if !ok {
		return lending.ErrFineNotFound
	}

	fine.Paid = true
	f.s.state.fines[id] = fine

	return nil
}

func (f *fineStore) ByMember(_ context.Context, memberID int64) ([]lending.Fine, error) {
	defer f.acquire()()

	var fines []lending.Fine

	for _, fine := range f.s.state.fines {
		if fine.MemberID == memberID {
			fines = append(fines, fine)
		}
	}

	sort.Slice(fines, func(i, j int) bool {
		if !fines[i].CreatedAt.Equal(fines[j].CreatedAt) {
			return fines[i].CreatedAt.After(fines[j].CreatedAt)
		}

		return fines[i].ID > fines[j].ID
	})

	return fines, nil
}

func (f *fineStore) UnpaidWithMemberName(_ context.Context) ([]lending.UnpaidFine, error) {
	defer f.acquire()()

	var unpaid []lending.UnpaidFine

	for _, fine := range f.s.state.fines {
		if fine.Paid {
			continue
		}

		memberName := ""
		if member, ok := f.s.state.members[fine.MemberID]; ok {
			memberName = member.Name
		}

		unpaid = append(unpaid, lending.UnpaidFine{Fine: fine, MemberName: memberName})
	}

	sort.Slice(unpaid, func(i, j int) bool { return unpaid[i].ID < unpaid[j].ID })

	return unpaid, nil
}

type journalStore struct {
	s    *Storage
	lock bool
}

func (j *journalStore) acquire() func() {
	if !j.lock {
		return func() {}
	}

	j.s.mu.Lock()

	return j.s.mu.Unlock
}

func (j *journalStore) Append(_ context.Context, entry lending.JournalEntry) error {
	defer j.acquire()()

	j.s.state.journal = append(j.s.state.journal, entry)

	return nil
}

func (j *journalStore) Entries(_ context.Context, limit int) ([]lending.JournalEntry, error) {
	defer j.acquire()()

	entries := make([]lending.JournalEntry, len(j.s.state.journal))
	copy(entries, j.s.state.journal)

	// newest first
	for i, k := 0, len(entries)-1; i < k; i, k = i+1, k-1 {
		entries[i], entries[k] = entries[k], entries[i]
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	return entries, nil
}
