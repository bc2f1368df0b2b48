package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stationbooks/api/internal/database"
	"github.com/stationbooks/api/internal/settlement"
)

// PettyCashServicer defines the service methods needed by petty cash
// handlers. Satisfied by *settlement.Service.
type PettyCashServicer interface {
	AllocatePettyCash(ctx context.Context, req settlement.PettyCashRequest) (database.JournalEntry, error)
	PettyCashBalance(ctx context.Context, actor settlement.Actor) (decimal.Decimal, database.Employee, error)
}

// PettyCashHandler handles petty cash float allocation and balance lookups.
type PettyCashHandler struct {
	svc PettyCashServicer
}

func NewPettyCashHandler(svc PettyCashServicer) *PettyCashHandler {
	return &PettyCashHandler{svc: svc}
}

func (h *PettyCashHandler) RegisterRoutes(r chi.Router) {
	r.Get("/petty-cash/balance", h.Balance)
}

// RegisterAdminRoutes registers the allocation endpoint, intended to sit
// behind a manager/admin role check.
func (h *PettyCashHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/petty-cash/allocations", h.Allocate)
}

type allocatePettyCashRequest struct {
	EmployeeID uuid.UUID       `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date,omitempty"`
	Note       string          `json:"note,omitempty"`
}

type allocatePettyCashResponse struct {
	EntryID    uuid.UUID `json:"entry_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Amount     string    `json:"amount"`
	Ref        string    `json:"ref"`
	State      string    `json:"state"`
}

// Allocate hands cash float to an employee.
func (h *PettyCashHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req allocatePettyCashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.EmployeeID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "employee_id is required"})
		return
	}

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	entry, err := h.svc.AllocatePettyCash(r.Context(), settlement.PettyCashRequest{
		EmployeeID: req.EmployeeID,
		Amount:     req.Amount,
		Date:       date,
		Note:       req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrInvalidAmount):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, settlement.ErrEmployeeNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, settlement.ErrNoCashJournal):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: failed to allocate petty cash: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to allocate petty cash"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, allocatePettyCashResponse{
		EntryID:    entry.ID,
		EmployeeID: req.EmployeeID,
		Amount:     req.Amount.StringFixed(2),
		Ref:        entry.Ref,
		State:      entry.State,
	})
}

type pettyCashBalanceResponse struct {
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Balance      string    `json:"balance"`
}

// Balance returns the calling employee's outstanding petty cash float.
// Admins may pass employee_id to view another employee.
func (h *PettyCashHandler) Balance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	balance, employee, err := h.svc.PettyCashBalance(r.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrNoEmployee), errors.Is(err, settlement.ErrEmployeeNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: failed to load petty cash balance: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load petty cash balance"})
		}
		return
	}

	writeJSON(w, http.StatusOK, pettyCashBalanceResponse{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Balance:      balance.StringFixed(2),
	})
}
