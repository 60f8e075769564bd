package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tally/internal/models"
)

// Ledger is the operation surface over one user's entry collections and
// aggregate index. It owns validation, referential integrity and the
// atomicity of each mutation: every public mutation runs as a single
// critical section that either completes fully or leaves no trace.
//
// Mutations are serialized by a write lock; queries take a read lock and
// therefore observe either the pre- or post-state of a mutation, never a
// reversed-but-not-reapplied intermediate.
type Ledger struct {
	mu sync.RWMutex

	entries *EntryStore
	index   *AggregateIndex

	friendNames  map[int64]string
	friendOrder  []int64
	nextFriendID int64
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		entries:     NewEntryStore(),
		index:       NewAggregateIndex(),
		friendNames: make(map[int64]string),
	}
}

// AddFriend creates a friend and returns its id.
func (l *Ledger) AddFriend(name string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextFriendID++
	id := l.nextFriendID
	l.friendNames[id] = name
	l.friendOrder = append(l.friendOrder, id)
	return id
}

// UpdateFriend renames a friend.
func (l *Ledger) UpdateFriend(id int64, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.friendNames[id]; !ok {
		return fmt.Errorf("%w: %d", ErrFriendNotFound, id)
	}
	l.friendNames[id] = name
	return nil
}

// DeleteFriend removes a friend together with every expense and settlement
// referencing it. Each removed entry's posting is reversed before the
// entry goes, then the friend's accumulator row is dropped, so global
// totals end up as if those entries had never existed. The whole cascade
// is one atomic unit.
func (l *Ledger) DeleteFriend(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.friendNames[id]; !ok {
		return fmt.Errorf("%w: %d", ErrFriendNotFound, id)
	}

	for _, eid := range l.entries.ExpensesFor(id) {
		e, _ := l.entries.GetExpense(eid)
		l.index.Reverse(ExpenseEffect(e))
		l.entries.RemoveExpense(eid)
	}
	for _, sid := range l.entries.SettlementsFor(id) {
		st, _ := l.entries.GetSettlement(sid)
		l.index.Reverse(SettlementEffect(st))
		l.entries.RemoveSettlement(sid)
	}

	l.index.Drop(id)
	delete(l.friendNames, id)
	l.friendOrder = removeID(l.friendOrder, id)
	return nil
}

// GetFriend returns a friend's identity fields plus its current totals.
func (l *Ledger) GetFriend(id int64) (models.Friend, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	name, ok := l.friendNames[id]
	if !ok {
		return models.Friend{}, fmt.Errorf("%w: %d", ErrFriendNotFound, id)
	}
	return l.friend(id, name), nil
}

// Friends returns all friends with current totals, in creation order.
func (l *Ledger) Friends() []models.Friend {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Friend, 0, len(l.friendOrder))
	for _, id := range l.friendOrder {
		out = append(out, l.friend(id, l.friendNames[id]))
	}
	return out
}

// friend assembles a Friend from stored identity plus the index snapshot.
// Callers hold at least a read lock.
func (l *Ledger) friend(id int64, name string) models.Friend {
	totals, _ := l.index.Snapshot(id)
	return models.Friend{
		ID:            id,
		Name:          name,
		TotalLent:     totals.Lent,
		TotalBorrowed: totals.Borrowed,
	}
}

// AddExpense validates, stores and posts a new expense, returning its id.
func (l *Ledger) AddExpense(item string, amount decimal.Decimal, date int64, paidBy models.PaidBy, friendID *int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := models.Expense{
		Item:     item,
		Amount:   amount,
		Date:     date,
		PaidBy:   paidBy,
		FriendID: cloneID(friendID),
	}
	if err := l.validateExpense(e); err != nil {
		return 0, err
	}

	id := l.entries.InsertExpense(e)
	e.ID = id
	l.index.Apply(ExpenseEffect(e))
	return id, nil
}

// UpdateExpense replaces every mutable field of an existing expense. The
// prior posting is reversed and the new one applied, so a changed friend
// reference moves the totals from the old friend to the new one.
func (l *Ledger) UpdateExpense(id int64, item string, amount decimal.Decimal, date int64, paidBy models.PaidBy, friendID *int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	old, ok := l.entries.GetExpense(id)
	if !ok {
		return fmt.Errorf("%w: expense %d", ErrEntryNotFound, id)
	}

	e := models.Expense{
		ID:       id,
		Item:     item,
		Amount:   amount,
		Date:     date,
		PaidBy:   paidBy,
		FriendID: cloneID(friendID),
	}
	if err := l.validateExpense(e); err != nil {
		return err
	}

	l.index.Reverse(ExpenseEffect(old))
	l.entries.ReplaceExpense(e)
	l.index.Apply(ExpenseEffect(e))
	return nil
}

// DeleteExpense reverses and removes an expense.
func (l *Ledger) DeleteExpense(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries.GetExpense(id)
	if !ok {
		return fmt.Errorf("%w: expense %d", ErrEntryNotFound, id)
	}
	l.index.Reverse(ExpenseEffect(e))
	l.entries.RemoveExpense(id)
	return nil
}

// GetExpense returns a stored expense.
func (l *Ledger) GetExpense(id int64) (models.Expense, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries.GetExpense(id)
	if !ok {
		return models.Expense{}, fmt.Errorf("%w: expense %d", ErrEntryNotFound, id)
	}
	return e, nil
}

// Expenses returns all expenses in insertion order.
func (l *Ledger) Expenses() []models.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries.Expenses()
}

// AddSettlement validates, stores and posts a new settlement, returning
// its id.
func (l *Ledger) AddSettlement(friendID int64, amount decimal.Decimal, date int64, direction models.Direction) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := models.Settlement{
		FriendID:  friendID,
		Amount:    amount,
		Date:      date,
		Direction: direction,
	}
	if err := l.validateSettlement(st); err != nil {
		return 0, err
	}

	id := l.entries.InsertSettlement(st)
	st.ID = id
	l.index.Apply(SettlementEffect(st))
	return id, nil
}

// UpdateSettlement replaces every mutable field of an existing settlement,
// reversing the prior posting and applying the new one.
func (l *Ledger) UpdateSettlement(id int64, friendID int64, amount decimal.Decimal, date int64, direction models.Direction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	old, ok := l.entries.GetSettlement(id)
	if !ok {
		return fmt.Errorf("%w: settlement %d", ErrEntryNotFound, id)
	}

	st := models.Settlement{
		ID:        id,
		FriendID:  friendID,
		Amount:    amount,
		Date:      date,
		Direction: direction,
	}
	if err := l.validateSettlement(st); err != nil {
		return err
	}

	l.index.Reverse(SettlementEffect(old))
	l.entries.ReplaceSettlement(st)
	l.index.Apply(SettlementEffect(st))
	return nil
}

// DeleteSettlement reverses and removes a settlement.
func (l *Ledger) DeleteSettlement(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.entries.GetSettlement(id)
	if !ok {
		return fmt.Errorf("%w: settlement %d", ErrEntryNotFound, id)
	}
	l.index.Reverse(SettlementEffect(st))
	l.entries.RemoveSettlement(id)
	return nil
}

// GetSettlement returns a stored settlement.
func (l *Ledger) GetSettlement(id int64) (models.Settlement, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st, ok := l.entries.GetSettlement(id)
	if !ok {
		return models.Settlement{}, fmt.Errorf("%w: settlement %d", ErrEntryNotFound, id)
	}
	return st, nil
}

// Settlements returns all settlements in insertion order.
func (l *Ledger) Settlements() []models.Settlement {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries.Settlements()
}

// Summary assembles the global snapshot plus each friend's net balance in
// friend-listing order. Pure index reads, no recomputation.
func (l *Ledger) Summary() models.Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	g := l.index.GlobalSnapshot()
	s := models.Summary{
		TotalLent:        g.TotalLent,
		TotalBorrowed:    g.TotalBorrowed,
		TotalExpenses:    g.TotalExpenses,
		PersonalExpenses: g.PersonalExpenses,
		FriendsSummary:   make([]models.FriendBalance, 0, len(l.friendOrder)),
	}
	for _, id := range l.friendOrder {
		totals, _ := l.index.Snapshot(id)
		s.FriendsSummary = append(s.FriendsSummary, models.FriendBalance{
			FriendID: id,
			Balance:  totals.Lent.Sub(totals.Borrowed),
		})
	}
	return s
}

// Restore rebuilds a ledger from persisted rows by replaying every entry
// through the posting rules, preserving ids. The resulting aggregates are
// therefore identical to what the incremental path would have produced.
func Restore(friends []models.Friend, expenses []models.Expense, settlements []models.Settlement) (*Ledger, error) {
	l := New()
	for _, f := range friends {
		l.friendNames[f.ID] = f.Name
		l.friendOrder = append(l.friendOrder, f.ID)
		if f.ID > l.nextFriendID {
			l.nextFriendID = f.ID
		}
	}
	for _, e := range expenses {
		if err := l.validateExpense(e); err != nil {
			return nil, fmt.Errorf("restore expense %d: %w", e.ID, err)
		}
		l.entries.InsertExpense(e)
		l.index.Apply(ExpenseEffect(e))
	}
	for _, st := range settlements {
		if err := l.validateSettlement(st); err != nil {
			return nil, fmt.Errorf("restore settlement %d: %w", st.ID, err)
		}
		l.entries.InsertSettlement(st)
		l.index.Apply(SettlementEffect(st))
	}
	return l, nil
}

// validateExpense checks an expense before any mutation. Callers hold the
// write lock.
func (l *Ledger) validateExpense(e models.Expense) error {
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, e.Amount)
	}
	if !e.PaidBy.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPayer, e.PaidBy)
	}
	if e.PaidBy == models.PaidByFriend && e.FriendID == nil {
		return fmt.Errorf("%w: friend-paid expense", ErrMissingFriend)
	}
	if e.FriendID != nil {
		if _, ok := l.friendNames[*e.FriendID]; !ok {
			return fmt.Errorf("%w: %d", ErrFriendNotFound, *e.FriendID)
		}
	}
	return nil
}

// validateSettlement checks a settlement before any mutation. Callers hold
// the write lock.
func (l *Ledger) validateSettlement(st models.Settlement) error {
	if !st.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, st.Amount)
	}
	if !st.Direction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, st.Direction)
	}
	if st.FriendID == 0 {
		return ErrMissingFriend
	}
	if _, ok := l.friendNames[st.FriendID]; !ok {
		return fmt.Errorf("%w: %d", ErrFriendNotFound, st.FriendID)
	}
	return nil
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
