package service

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tally/internal/ledger"
	"github.com/mmynk/tally/internal/middleware"
	"github.com/mmynk/tally/internal/models"
	"github.com/mmynk/tally/internal/storage"
)

// LedgerService exposes the ledger engine over HTTP. Every mutation goes
// to the engine first (which validates and posts atomically), then is
// mirrored to storage; if the mirror write fails the cached engine is
// dropped so the next request replays from the database.
type LedgerService struct {
	store   storage.Store
	ledgers *Manager
}

// NewLedgerService creates the ledger HTTP service.
func NewLedgerService(store storage.Store, ledgers *Manager) *LedgerService {
	return &LedgerService{store: store, ledgers: ledgers}
}

type friendRequest struct {
	Name string `json:"name" binding:"required"`
}

type expenseRequest struct {
	Item     string          `json:"item" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Date     int64           `json:"date"`
	PaidBy   models.PaidBy   `json:"paidBy"`
	FriendID *int64          `json:"friendId"`
}

type settlementRequest struct {
	FriendID  int64            `json:"friendId"`
	Amount    decimal.Decimal  `json:"amount"`
	Date      int64            `json:"date"`
	Direction models.Direction `json:"direction"`
}

// statusFor maps engine errors onto HTTP status codes: missing entities
// are 404, rejected input is 400, everything else is 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrFriendNotFound), errors.Is(err, ledger.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidPayer),
		errors.Is(err, ledger.ErrInvalidDirection),
		errors.Is(err, ledger.ErrMissingFriend):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

// userLedger resolves the authenticated user's engine, answering 500 on a
// load failure.
func (s *LedgerService) userLedger(c *gin.Context) (string, *ledger.Ledger, bool) {
	userID := middleware.UserID(c)
	l, err := s.ledgers.Ledger(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to load ledger", "user_id", userID, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load ledger"})
		return "", nil, false
	}
	return userID, l, true
}

// lockedLedger resolves the user's engine while holding the user's write
// lock, so the engine mutation and its write-through commit as one
// serialized unit. Callers must defer the returned unlock.
func (s *LedgerService) lockedLedger(c *gin.Context) (string, *ledger.Ledger, func(), bool) {
	userID := middleware.UserID(c)
	unlock := s.ledgers.LockUser(userID)

	l, err := s.ledgers.Ledger(c.Request.Context(), userID)
	if err != nil {
		unlock()
		slog.Error("failed to load ledger", "user_id", userID, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load ledger"})
		return "", nil, nil, false
	}
	return userID, l, unlock, true
}

// persistFailed logs a write-through failure, drops the cached engine and
// answers 500. The database stays authoritative.
func (s *LedgerService) persistFailed(c *gin.Context, userID string, err error) {
	slog.Error("failed to persist ledger change", "user_id", userID, "error", err)
	s.ledgers.Forget(userID)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to persist change"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// CreateFriend handles POST /api/friends.
func (s *LedgerService) CreateFriend(c *gin.Context) {
	var req friendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, l, unlock, ok := s.lockedLedger(c)
	if !ok {
		return
	}
	defer unlock()

	id := l.AddFriend(req.Name)
	if err := s.store.PutFriend(c.Request.Context(), userID, id, req.Name); err != nil {
		s.persistFailed(c, userID, err)
		return
	}

	friend, _ := l.GetFriend(id)
	c.JSON(http.StatusCreated, friend)
}

// ListFriends handles GET /api/friends.
func (s *LedgerService) ListFriends(c *gin.Context) {
	_, l, ok := s.userLedger(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, l.Friends())
}

// GetFriend handles GET /api/friends/:id.
func (s *LedgerService) GetFriend(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	_, l, ok := s.userLedger(c)
	if !ok {
		return
	}

	friend, err := l.GetFriend(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, friend)
}

// UpdateFriend handles PUT /api/friends/:id.
func (s *LedgerService) UpdateFriend(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req friendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, l, unlock, ok := s.lockedLedger(c)
	if !ok {
		return
	}
	defer unlock()

	if err := l.UpdateFriend(id, req.Name); err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.store.PutFriend(c.Request.Context(), userID, id, req.Name); err != nil {
		s.persistFailed(c, userID, err)
		return
	}

	friend, _ := l.GetFriend(id)
	c.JSON(http.StatusOK, friend)
}

// DeleteFriend handles DELETE /api/friends/:id. The engine cascade and the
// storage cascade remove the friend together with every entry that
// references it.
func (s *LedgerService) DeleteFriend(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, l, unlock, ok := s.lockedLedger(c)
	if !ok {
		return
	}
	defer unlock()

	if err := l.DeleteFriend(id); err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.store.DeleteFriend(c.Request.Context(), userID, id); err != nil {
		s.persistFailed(c, userID, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateExpense handles POST /api/expenses.
func (s *LedgerService) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, l, unlock, ok := s.lockedLedger(c)
	if !ok {
		return
	}
	defer unlock()

	id, err := l.AddExpense(req.Item, req.Amount, req.Date, req.PaidBy, req.FriendID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	e, _ := l.GetExpense(id)
	if err := s.store.PutExpense(c.Request.Context(), userID, e); err != nil {
		s.persistFailed(c, userID, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ListExpenses handles GET /api/expenses.
func (s *LedgerService) ListExpenses(c *gin.Context) {
	_, l, ok := s.userLedger(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, l.Expenses())
}

// UpdateExpense handles PUT /api/expenses/:id. Every mutable field is
// replaced; the engine reverses the old posting and applies the new one.
func (s *LedgerService) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, l, unlock, ok := s.lockedLedger(c)
	if !ok {
		return
	}
	defer unlock()

	if err := l.UpdateExpense(id, req.Item, req.Amount, req.Date, req.PaidBy, req.FriendID); err != nil {
		abortWithError(c, err)
		return
	}

	e, _ := l.GetExpense(id)
	if err := s.store.PutExpense(c.Request.Context(), userID, e); err != nil {
		s.persistFailed(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// DeleteExpense handles DELETE /api/expenses/:id.
func (s *LedgerService) DeleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, l, unlock, ok := s.lockedLedger(c)
	if !ok {
		return
	}
	defer unlock()

	if err := l.DeleteExpense(id); err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.store.DeleteExpense(c.Request.Context(), userID, id); err != nil {
		s.persistFailed(c, userID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateSettlement handles POST /api/settlements.
func (s *LedgerService) CreateSettlement(c *gin.Context) {
	var req settlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, l, unlock, ok := s.lockedLedger(c)
	if !ok {
		return
	}
	defer unlock()

	id, err := l.AddSettlement(req.FriendID, req.Amount, req.Date, req.Direction)
	if err != nil {
		abortWithError(c, err)
		return
	}

	st, _ := l.GetSettlement(id)
	if err := s.store.PutSettlement(c.Request.Context(), userID, st); err != nil {
		s.persistFailed(c, userID, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// ListSettlements handles GET /api/settlements.
func (s *LedgerService) ListSettlements(c *gin.Context) {
	_, l, ok := s.userLedger(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, l.Settlements())
}

// UpdateSettlement handles PUT /api/settlements/:id.
func (s *LedgerService) UpdateSettlement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req settlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, l, unlock, ok := s.lockedLedger(c)
	if !ok {
		return
	}
	defer unlock()

	if err := l.UpdateSettlement(id, req.FriendID, req.Amount, req.Date, req.Direction); err != nil {
		abortWithError(c, err)
		return
	}

	st, _ := l.GetSettlement(id)
	if err := s.store.PutSettlement(c.Request.Context(), userID, st); err != nil {
		s.persistFailed(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DeleteSettlement handles DELETE /api/settlements/:id.
func (s *LedgerService) DeleteSettlement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, l, unlock, ok := s.lockedLedger(c)
	if !ok {
		return
	}
	defer unlock()

	if err := l.DeleteSettlement(id); err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.store.DeleteSettlement(c.Request.Context(), userID, id); err != nil {
		s.persistFailed(c, userID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary handles GET /api/summary.
func (s *LedgerService) Summary(c *gin.Context) {
	_, l, ok := s.userLedger(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, l.Summary())
}
