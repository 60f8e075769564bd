package ledger

import "github.com/mmynk/tally/internal/models"

// EntryStore holds the two authoritative entry collections, keyed by id,
// with monotonically generated ids per collection. It carries no derived
// data and no business logic; insertion order is preserved for listing.
// Like the index, it relies on the owning Ledger for serialization.
type EntryStore struct {
	expenses     map[int64]models.Expense
	expenseIDs   []int64
	settlements  map[int64]models.Settlement
	settlementID []int64

	nextExpenseID    int64
	nextSettlementID int64
}

// NewEntryStore returns an empty store.
func NewEntryStore() *EntryStore {
	return &EntryStore{
		expenses:    make(map[int64]models.Expense),
		settlements: make(map[int64]models.Settlement),
	}
}

// InsertExpense stores a new expense and returns its id. A zero id is
// assigned from the expense counter; a preset id (restore path) is kept
// and the counter advanced past it.
func (s *EntryStore) InsertExpense(e models.Expense) int64 {
	if e.ID == 0 {
		s.nextExpenseID++
		e.ID = s.nextExpenseID
	} else if e.ID > s.nextExpenseID {
		s.nextExpenseID = e.ID
	}
	s.expenses[e.ID] = e
	s.expenseIDs = append(s.expenseIDs, e.ID)
	return e.ID
}

// GetExpense returns the expense with the given id.
func (s *EntryStore) GetExpense(id int64) (models.Expense, bool) {
	e, ok := s.expenses[id]
	return e, ok
}

// ReplaceExpense overwrites the stored expense with the same id.
func (s *EntryStore) ReplaceExpense(e models.Expense) bool {
	if _, ok := s.expenses[e.ID]; !ok {
		return false
	}
	s.expenses[e.ID] = e
	return true
}

// RemoveExpense deletes the expense with the given id.
func (s *EntryStore) RemoveExpense(id int64) bool {
	if _, ok := s.expenses[id]; !ok {
		return false
	}
	delete(s.expenses, id)
	s.expenseIDs = removeID(s.expenseIDs, id)
	return true
}

// Expenses returns all expenses in insertion order.
func (s *EntryStore) Expenses() []models.Expense {
	out := make([]models.Expense, 0, len(s.expenseIDs))
	for _, id := range s.expenseIDs {
		out = append(out, s.expenses[id])
	}
	return out
}

// ExpensesFor returns the ids of expenses referencing the friend, in
// insertion order.
func (s *EntryStore) ExpensesFor(friendID int64) []int64 {
	var ids []int64
	for _, id := range s.expenseIDs {
		if e := s.expenses[id]; e.FriendID != nil && *e.FriendID == friendID {
			ids = append(ids, id)
		}
	}
	return ids
}

// InsertSettlement stores a new settlement and returns its id, with the
// same id assignment rules as InsertExpense.
func (s *EntryStore) InsertSettlement(st models.Settlement) int64 {
	if st.ID == 0 {
		s.nextSettlementID++
		st.ID = s.nextSettlementID
	} else if st.ID > s.nextSettlementID {
		s.nextSettlementID = st.ID
	}
	s.settlements[st.ID] = st
	s.settlementID = append(s.settlementID, st.ID)
	return st.ID
}

// GetSettlement returns the settlement with the given id.
func (s *EntryStore) GetSettlement(id int64) (models.Settlement, bool) {
	st, ok := s.settlements[id]
	return st, ok
}

// ReplaceSettlement overwrites the stored settlement with the same id.
func (s *EntryStore) ReplaceSettlement(st models.Settlement) bool {
	if _, ok := s.settlements[st.ID]; !ok {
		return false
	}
	s.settlements[st.ID] = st
	return true
}

// RemoveSettlement deletes the settlement with the given id.
func (s *EntryStore) RemoveSettlement(id int64) bool {
	if _, ok := s.settlements[id]; !ok {
		return false
	}
	delete(s.settlements, id)
	s.settlementID = removeID(s.settlementID, id)
	return true
}

// Settlements returns all settlements in insertion order.
func (s *EntryStore) Settlements() []models.Settlement {
	out := make([]models.Settlement, 0, len(s.settlementID))
	for _, id := range s.settlementID {
		out = append(out, s.settlements[id])
	}
	return out
}

// SettlementsFor returns the ids of settlements referencing the friend,
// in insertion order.
func (s *EntryStore) SettlementsFor(friendID int64) []int64 {
	var ids []int64
	for _, id := range s.settlementID {
		if s.settlements[id].FriendID == friendID {
			ids = append(ids, id)
		}
	}
	return ids
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
