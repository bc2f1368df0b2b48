package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stationbooks/api/internal/database"
	"github.com/stationbooks/api/internal/enum"
	"github.com/stationbooks/api/internal/handler"
	"github.com/stationbooks/api/internal/settlement"
)

type mockPettyCashService struct {
	allocateFn func(ctx context.Context, req settlement.PettyCashRequest) (database.JournalEntry, error)
	balanceFn  func(ctx context.Context, actor settlement.Actor) (decimal.Decimal, database.Employee, error)
}

func (m *mockPettyCashService) AllocatePettyCash(ctx context.Context, req settlement.PettyCashRequest) (database.JournalEntry, error) {
	return m.allocateFn(ctx, req)
}

func (m *mockPettyCashService) PettyCashBalance(ctx context.Context, actor settlement.Actor) (decimal.Decimal, database.Employee, error) {
	return m.balanceFn(ctx, actor)
}

func setupPettyCashRouter(svc *mockPettyCashService) http.Handler {
	h := handler.NewPettyCashHandler(svc)
	return authRouter(func(r chi.Router) {
		h.RegisterRoutes(r)
		h.RegisterAdminRoutes(r)
	})
}

func TestAllocatePettyCash_Created(t *testing.T) {
	employeeID := uuid.New()
	svc := &mockPettyCashService{
		allocateFn: func(_ context.Context, req settlement.PettyCashRequest) (database.JournalEntry, error) {
			if req.EmployeeID != employeeID {
				t.Errorf("employee ID: got %s, want %s", req.EmployeeID, employeeID)
			}
			if !req.Amount.Equal(decimal.NewFromInt(200)) {
				t.Errorf("amount: got %s, want 200", req.Amount)
			}
			return database.JournalEntry{
				ID:    uuid.New(),
				Ref:   "Petty Cash Allocation",
				State: enum.EntryStatePosted,
			}, nil
		},
	}

	r := setupPettyCashRouter(svc)
	rr := doAuthRequest(t, r, "POST", "/petty-cash/allocations", map[string]interface{}{
		"employee_id": employeeID,
		"amount":      "200",
	}, uuid.New(), uuid.Nil, enum.UserRoleAdmin)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["state"] != enum.EntryStatePosted {
		t.Errorf("state: got %v, want %s", resp["state"], enum.EntryStatePosted)
	}
}

func TestAllocatePettyCash_InvalidAmount(t *testing.T) {
	svc := &mockPettyCashService{
		allocateFn: func(_ context.Context, _ settlement.PettyCashRequest) (database.JournalEntry, error) {
			return database.JournalEntry{}, settlement.ErrInvalidAmount
		},
	}

	r := setupPettyCashRouter(svc)
	rr := doAuthRequest(t, r, "POST", "/petty-cash/allocations", map[string]interface{}{
		"employee_id": uuid.New(),
		"amount":      "-50",
	}, uuid.New(), uuid.Nil, enum.UserRoleAdmin)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAllocatePettyCash_EmployeeNotFound(t *testing.T) {
	svc := &mockPettyCashService{
		allocateFn: func(_ context.Context, _ settlement.PettyCashRequest) (database.JournalEntry, error) {
			return database.JournalEntry{}, settlement.ErrEmployeeNotFound
		},
	}

	r := setupPettyCashRouter(svc)
	rr := doAuthRequest(t, r, "POST", "/petty-cash/allocations", map[string]interface{}{
		"employee_id": uuid.New(),
		"amount":      "200",
	}, uuid.New(), uuid.Nil, enum.UserRoleAdmin)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestPettyCashBalance_ReturnsBalance(t *testing.T) {
	employee := database.Employee{ID: uuid.New(), Name: "Ravi"}
	svc := &mockPettyCashService{
		balanceFn: func(_ context.Context, actor settlement.Actor) (decimal.Decimal, database.Employee, error) {
			return decimal.NewFromInt(150), employee, nil
		},
	}

	r := setupPettyCashRouter(svc)
	rr := doAuthRequest(t, r, "GET", "/petty-cash/balance", nil,
		uuid.New(), employee.ID, enum.UserRoleAttendant)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["balance"] != "150.00" {
		t.Errorf("balance: got %v, want 150.00", resp["balance"])
	}
}
