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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stationbooks/api/internal/database"
	"github.com/stationbooks/api/internal/middleware"
	"github.com/stationbooks/api/internal/settlement"
	"github.com/stationbooks/api/internal/ws"
)

// ClosingServicer defines the settlement service methods needed by closing
// entry handlers. Satisfied by *settlement.Service.
type ClosingServicer interface {
	RecordClosingEntry(ctx context.Context, req settlement.ClosingEntryRequest) (database.ClosingEntry, error)
	OpenClosingEntries(ctx context.Context, arg database.ListOpenClosingEntriesParams) ([]database.ClosingEntry, error)
}

// Broadcaster pushes events to clients watching a shift.
// Satisfied by *ws.Hub; nil disables broadcasting.
type Broadcaster interface {
	BroadcastToShift(shiftID uuid.UUID, event ws.Event)
}

// ClosingHandler handles shift closing entry recording.
type ClosingHandler struct {
	svc ClosingServicer
	hub Broadcaster
}

func NewClosingHandler(svc ClosingServicer, hub Broadcaster) *ClosingHandler {
	return &ClosingHandler{svc: svc, hub: hub}
}

func (h *ClosingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/closing-entries", h.Create)
	r.Get("/closing-entries", h.ListOpen)
}

type creditLineRequest struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	VehicleNo  string          `json:"vehicle_no,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type loyaltyLineRequest struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type createClosingEntryRequest struct {
	PumpID         uuid.UUID            `json:"pump_id"`
	NozzleID       uuid.UUID            `json:"nozzle_id"`
	ShiftID        uuid.UUID            `json:"shift_id"`
	ShiftManagerID *uuid.UUID           `json:"shift_manager_id,omitempty"`
	FuelProductID  uuid.UUID            `json:"fuel_product_id"`
	Price          decimal.Decimal      `json:"price"`
	StartReading   decimal.Decimal      `json:"start_reading"`
	EndReading     decimal.Decimal      `json:"end_reading"`
	WalkinQty      decimal.Decimal      `json:"walkin_qty"`
	DipTakenQty    decimal.Decimal      `json:"dip_taken_qty"`
	DipReturnedQty decimal.Decimal      `json:"dip_returned_qty"`
	CreditLines    []creditLineRequest  `json:"credit_lines,omitempty"`
	LoyaltyLines   []loyaltyLineRequest `json:"loyalty_lines,omitempty"`
}

type closingEntryResponse struct {
	ID              uuid.UUID `json:"id"`
	PumpID          uuid.UUID `json:"pump_id"`
	NozzleID        uuid.UUID `json:"nozzle_id"`
	ShiftID         uuid.UUID `json:"shift_id"`
	FuelProductID   uuid.UUID `json:"fuel_product_id"`
	EmployeeID      uuid.UUID `json:"employee_id"`
	Price           string    `json:"price"`
	StartReading    string    `json:"start_reading"`
	EndReading      string    `json:"end_reading"`
	TotalSaleAmount string    `json:"total_sale_amount"`
	State           string    `json:"state"`
	CreatedAt       time.Time `json:"created_at"`
}

func closingEntryToResponse(entry database.ClosingEntry) closingEntryResponse {
	return closingEntryResponse{
		ID:              entry.ID,
		PumpID:          entry.PumpID,
		NozzleID:        entry.NozzleID,
		ShiftID:         entry.ShiftID,
		FuelProductID:   entry.FuelProductID,
		EmployeeID:      entry.EmployeeID,
		Price:           numericString(entry.Price),
		StartReading:    numericString(entry.StartReading),
		EndReading:      numericString(entry.EndReading),
		TotalSaleAmount: numericString(entry.TotalSaleAmount),
		State:           entry.State,
		CreatedAt:       entry.CreatedAt,
	}
}

// Create records a shift closing entry with its sale lines. The entry and all
// lines commit together through the settlement service.
func (h *ClosingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || claims.EmployeeID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "employee account required"})
		return
	}

	var req createClosingEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.PumpID == uuid.Nil || req.NozzleID == uuid.Nil || req.ShiftID == uuid.Nil || req.FuelProductID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pump_id, nozzle_id, shift_id and fuel_product_id are required"})
		return
	}
	if !req.Price.IsPositive() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be positive"})
		return
	}
	if req.EndReading.LessThan(req.StartReading) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_reading must not be below start_reading"})
		return
	}
	if req.WalkinQty.IsNegative() || req.DipTakenQty.IsNegative() || req.DipReturnedQty.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantities must not be negative"})
		return
	}

	input := settlement.ClosingEntryRequest{
		PumpID:         req.PumpID,
		NozzleID:       req.NozzleID,
		ShiftID:        req.ShiftID,
		FuelProductID:  req.FuelProductID,
		EmployeeID:     claims.EmployeeID,
		Price:          req.Price,
		StartReading:   req.StartReading,
		EndReading:     req.EndReading,
		WalkinQty:      req.WalkinQty,
		DipTakenQty:    req.DipTakenQty,
		DipReturnedQty: req.DipReturnedQty,
	}
	if req.ShiftManagerID != nil {
		input.ShiftManagerID = pgtype.UUID{Bytes: *req.ShiftManagerID, Valid: true}
	}
	for _, line := range req.LoyaltyLines {
		if line.CustomerID == uuid.Nil || !line.Quantity.IsPositive() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "loyalty lines require a customer and positive quantity"})
			return
		}
		input.LoyaltyLines = append(input.LoyaltyLines, settlement.ClosingLine{
			CustomerID: line.CustomerID,
			Quantity:   line.Quantity,
		})
	}
	for _, line := range req.CreditLines {
		if line.CustomerID == uuid.Nil || !line.Quantity.IsPositive() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "credit lines require a customer and positive quantity"})
			return
		}
		input.CreditLines = append(input.CreditLines, settlement.ClosingLine{
			CustomerID: line.CustomerID,
			VehicleNo:  line.VehicleNo,
			Quantity:   line.Quantity,
		})
	}

	entry, err := h.svc.RecordClosingEntry(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrNozzleNotFound),
			errors.Is(err, settlement.ErrNozzleMismatch),
			errors.Is(err, settlement.ErrDipExceedsSale):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: failed to record closing entry: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record closing entry"})
		}
		return
	}

	if h.hub != nil {
		payload, err := json.Marshal(map[string]string{
			"id":                entry.ID.String(),
			"employee_id":       entry.EmployeeID.String(),
			"total_sale_amount": numericString(entry.TotalSaleAmount),
		})
		if err == nil {
			h.hub.BroadcastToShift(entry.ShiftID, ws.Event{Type: "closing_entry.recorded", Payload: payload})
		}
	}

	writeJSON(w, http.StatusCreated, closingEntryToResponse(entry))
}

// ListOpen returns the acting employee's open closing entries. Admins and
// managers may list another employee's entries via the employee_id query param.
func (h *ClosingHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	if actor.EmployeeID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "employee account required"})
		return
	}

	params := database.ListOpenClosingEntriesParams{
		EmployeeID: actor.EmployeeID,
		ShiftIDs:   []uuid.UUID{},
		PumpIDs:    []uuid.UUID{},
		NozzleIDs:  []uuid.UUID{},
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		params.Date = pgtype.Date{Time: date, Valid: true}
	}
	for _, f := range []struct {
		name string
		dst  *[]uuid.UUID
	}{
		{"shift_ids", &params.ShiftIDs},
		{"pump_ids", &params.PumpIDs},
		{"nozzle_ids", &params.NozzleIDs},
	} {
		ids, err := parseUUIDList(r.URL.Query().Get(f.name))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + f.name})
			return
		}
		if ids != nil {
			*f.dst = ids
		}
	}

	entries, err := h.svc.OpenClosingEntries(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: failed to list closing entries: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list closing entries"})
		return
	}

	resp := make([]closingEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, closingEntryToResponse(entry))
	}
	writeJSON(w, http.StatusOK, resp)
}
