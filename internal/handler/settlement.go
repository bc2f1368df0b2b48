package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stationbooks/api/internal/database"
	"github.com/stationbooks/api/internal/enum"
	"github.com/stationbooks/api/internal/middleware"
	"github.com/stationbooks/api/internal/settlement"
	"github.com/stationbooks/api/internal/ws"
)

// SettlementServicer defines the service methods needed by settlement
// handlers. Satisfied by *settlement.Service; narrow interface for
// testability.
type SettlementServicer interface {
	PendingEntries(ctx context.Context, actor settlement.Actor, filter settlement.EntriesFilter) (settlement.Summary, database.Employee, error)
	Submit(ctx context.Context, req settlement.SubmitRequest) (database.CashSettlement, error)
	CreateSaleOrders(ctx context.Context, settlementID uuid.UUID) ([]database.SaleOrder, error)
	ConfirmOrder(ctx context.Context, orderID uuid.UUID) (database.SaleOrder, error)
}

// SettlementHandler exposes the cash settlement flow: pending entry summary,
// submission, sale order creation and confirmation.
type SettlementHandler struct {
	svc SettlementServicer
	hub Broadcaster
}

func NewSettlementHandler(svc SettlementServicer, hub Broadcaster) *SettlementHandler {
	return &SettlementHandler{svc: svc, hub: hub}
}

func (h *SettlementHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settlements/pending", h.Pending)
	r.Post("/settlements", h.Submit)
	r.Post("/settlements/{id}/sale-orders", h.CreateSaleOrders)
	r.Post("/sale-orders/{id}/confirm", h.ConfirmOrder)
}

type saleFiguresResponse struct {
	Quantity string `json:"quantity"`
	Amount   string `json:"amount"`
}

type fuelRowResponse struct {
	FuelID   uuid.UUID           `json:"fuel_id"`
	FuelName string              `json:"fuel_name"`
	Price    string              `json:"price"`
	Pumps    []string            `json:"pumps"`
	Nozzles  []string            `json:"nozzles"`
	Opening  string              `json:"opening_reading"`
	Closing  string              `json:"closing_reading"`
	Walkin   saleFiguresResponse `json:"walkin"`
	Credit   saleFiguresResponse `json:"credit"`
	Loyalty  saleFiguresResponse `json:"loyalty"`
	Dip      saleFiguresResponse `json:"dip"`
	RowTotal string              `json:"row_total"`
}

type shiftSummaryResponse struct {
	ShiftID    uuid.UUID         `json:"shift_id"`
	ShiftName  string            `json:"shift_name"`
	EntryIDs   []uuid.UUID       `json:"entry_ids"`
	Rows       []fuelRowResponse `json:"rows"`
	ShiftTotal string            `json:"shift_total"`
}

type pendingResponse struct {
	EmployeeID       uuid.UUID              `json:"employee_id"`
	EmployeeName     string                 `json:"employee_name"`
	Shifts           []shiftSummaryResponse `json:"shifts"`
	GrandTotal       string                 `json:"grand_total"`
	PettyCashBalance string                 `json:"petty_cash_balance"`
	ExpectedAmount   string                 `json:"expected_amount"`
}

// Pending returns the open closing entries for the calling employee grouped
// per shift and fuel. Admins may pass employee_id to view another employee.
// Optional filters: date (YYYY-MM-DD), shift_ids, pump_ids, nozzle_ids
// (comma separated UUID lists).
func (h *SettlementHandler) Pending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	filter := settlement.EntriesFilter{}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		filter.Date = date
	}

	var err error
	if filter.ShiftIDs, err = parseUUIDList(r.URL.Query().Get("shift_ids")); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid shift_ids"})
		return
	}
	if filter.PumpIDs, err = parseUUIDList(r.URL.Query().Get("pump_ids")); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pump_ids"})
		return
	}
	if filter.NozzleIDs, err = parseUUIDList(r.URL.Query().Get("nozzle_ids")); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid nozzle_ids"})
		return
	}

	summary, employee, err := h.svc.PendingEntries(r.Context(), actor, filter)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrNoEmployee), errors.Is(err, settlement.ErrEmployeeNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: failed to load pending entries: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load pending entries"})
		}
		return
	}

	resp := pendingResponse{
		EmployeeID:       employee.ID,
		EmployeeName:     employee.Name,
		Shifts:           []shiftSummaryResponse{},
		GrandTotal:       summary.GrandTotal.StringFixed(2),
		PettyCashBalance: summary.PettyCashBalance.StringFixed(2),
		ExpectedAmount:   summary.ExpectedAmount.StringFixed(2),
	}
	for _, shift := range summary.Shifts {
		sr := shiftSummaryResponse{
			ShiftID:    shift.ShiftID,
			ShiftName:  shift.ShiftName,
			EntryIDs:   shift.EntryIDs,
			Rows:       []fuelRowResponse{},
			ShiftTotal: shift.ShiftTotal.StringFixed(2),
		}
		for _, row := range shift.Rows {
			sr.Rows = append(sr.Rows, fuelRowResponse{
				FuelID:   row.FuelID,
				FuelName: row.FuelName,
				Price:    row.Price.StringFixed(2),
				Pumps:    row.Pumps,
				Nozzles:  row.Nozzles,
				Opening:  row.Opening.StringFixed(2),
				Closing:  row.Closing.StringFixed(2),
				Walkin:   saleFiguresResponse{Quantity: row.WalkinQty.StringFixed(2), Amount: row.WalkinAmount.StringFixed(2)},
				Credit:   saleFiguresResponse{Quantity: row.CreditQty.StringFixed(2), Amount: row.CreditAmount.StringFixed(2)},
				Loyalty:  saleFiguresResponse{Quantity: row.LoyaltyQty.StringFixed(2), Amount: row.LoyaltyAmount.StringFixed(2)},
				Dip:      saleFiguresResponse{Quantity: row.DipQty.StringFixed(2), Amount: row.DipAmount.StringFixed(2)},
				RowTotal: row.RowTotal.StringFixed(2),
			})
		}
		resp.Shifts = append(resp.Shifts, sr)
	}
	writeJSON(w, http.StatusOK, resp)
}

type paymentInputRequest struct {
	JournalID uuid.UUID       `json:"journal_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type submitSettlementRequest struct {
	ClosingEntryIDs []uuid.UUID           `json:"closing_entry_ids"`
	ShiftID         uuid.UUID             `json:"shift_id"`
	Date            string                `json:"date,omitempty"`
	Payments        []paymentInputRequest `json:"payments"`
	EmployeeID      uuid.UUID             `json:"employee_id,omitempty"`
}

type settlementResponse struct {
	ID              uuid.UUID `json:"id"`
	EmployeeID      uuid.UUID `json:"employee_id"`
	ShiftID         uuid.UUID `json:"shift_id"`
	ExpectedAmount  string    `json:"expected_amount"`
	SubmittedAmount string    `json:"submitted_amount"`
	State           string    `json:"state"`
	CreatedAt       time.Time `json:"created_at"`
}

// Submit settles a batch of closing entries against the submitted cash and
// bank amounts.
func (h *SettlementHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req submitSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.ClosingEntryIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "closing_entry_ids are required"})
		return
	}
	if req.ShiftID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "shift_id is required"})
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

	if actor.IsAdmin && req.EmployeeID != uuid.Nil {
		actor.EmployeeID = req.EmployeeID
	}

	payments := make([]settlement.PaymentInput, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, settlement.PaymentInput{JournalID: p.JournalID, Amount: p.Amount})
	}

	result, err := h.svc.Submit(r.Context(), settlement.SubmitRequest{
		Actor:           actor,
		ClosingEntryIDs: req.ClosingEntryIDs,
		ShiftID:         req.ShiftID,
		Date:            date,
		Payments:        payments,
	})
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrInvalidAmount):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, settlement.ErrNoEmployee),
			errors.Is(err, settlement.ErrEmployeeNotFound),
			errors.Is(err, settlement.ErrShiftNotFound),
			errors.Is(err, settlement.ErrNoClosingEntries):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, settlement.ErrEntriesSettled):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, settlement.ErrNoPettyCashAccount),
			errors.Is(err, settlement.ErrNoCashJournal):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: failed to submit settlement: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to submit settlement"})
		}
		return
	}

	if h.hub != nil {
		payload, perr := json.Marshal(map[string]string{
			"id":               result.ID.String(),
			"employee_id":      result.EmployeeID.String(),
			"submitted_amount": numericString(result.SubmittedAmount),
		})
		if perr == nil {
			h.hub.BroadcastToShift(result.ShiftID, ws.Event{Type: "settlement.submitted", Payload: payload})
		}
	}

	writeJSON(w, http.StatusCreated, settlementResponse{
		ID:              result.ID,
		EmployeeID:      result.EmployeeID,
		ShiftID:         result.ShiftID,
		ExpectedAmount:  numericString(result.ExpectedAmount),
		SubmittedAmount: numericString(result.SubmittedAmount),
		State:           result.State,
		CreatedAt:       result.CreatedAt,
	})
}

type saleOrderResponse struct {
	ID          uuid.UUID  `json:"id"`
	OrderNumber string     `json:"order_number"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	SaleType    string     `json:"sale_type"`
	Quantity    string     `json:"quantity"`
	UnitPrice   string     `json:"unit_price"`
	State       string     `json:"state"`
	InvoiceID   *uuid.UUID `json:"invoice_id,omitempty"`
}

// CreateSaleOrders posts the draft payment lines of a settlement and turns
// its audit lines into grouped sale orders, moving the settlement to
// SUBMITTED.
func (h *SettlementHandler) CreateSaleOrders(w http.ResponseWriter, r *http.Request) {
	settlementID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid settlement ID"})
		return
	}

	orders, err := h.svc.CreateSaleOrders(r.Context(), settlementID)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrSettlementNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, settlement.ErrAlreadySubmitted):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, settlement.ErrNoSettlementLines),
			errors.Is(err, settlement.ErrMissingCustomer),
			errors.Is(err, settlement.ErrNoDefaultCustomer),
			errors.Is(err, settlement.ErrNoSaleJournal):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: failed to create sale orders: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create sale orders"})
		}
		return
	}

	resp := make([]saleOrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, saleOrderToResponse(o))
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ConfirmOrder confirms a draft sale order, creating and posting its invoice.
func (h *SettlementHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale order ID"})
		return
	}

	order, err := h.svc.ConfirmOrder(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrOrderNotFound),
			errors.Is(err, settlement.ErrSettlementNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, settlement.ErrNoSaleJournal):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: failed to confirm sale order: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to confirm sale order"})
		}
		return
	}

	writeJSON(w, http.StatusOK, saleOrderToResponse(order))
}

func saleOrderToResponse(o database.SaleOrder) saleOrderResponse {
	resp := saleOrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		SaleType:    o.SaleType,
		Quantity:    numericString(o.Quantity),
		UnitPrice:   numericString(o.UnitPrice),
		State:       o.State,
	}
	if o.InvoiceID.Valid {
		id := uuid.UUID(o.InvoiceID.Bytes)
		resp.InvoiceID = &id
	}
	return resp
}

func actorFromRequest(w http.ResponseWriter, r *http.Request) (settlement.Actor, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return settlement.Actor{}, false
	}
	actor := settlement.Actor{
		UserID:     claims.UserID,
		IsAdmin:    claims.Role == enum.UserRoleAdmin || claims.Role == enum.UserRoleManager,
		EmployeeID: claims.EmployeeID,
	}
	if raw := r.URL.Query().Get("employee_id"); raw != "" && actor.IsAdmin {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee_id"})
			return settlement.Actor{}, false
		}
		actor.EmployeeID = id
	}
	return actor, true
}

func parseUUIDList(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
