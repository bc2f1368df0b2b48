package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stationbooks/api/internal/database"
)

// ReportStore defines the database methods needed by reporting handlers.
type ReportStore interface {
	GetPaymentModeSummary(ctx context.Context, arg database.GetPaymentModeSummaryParams) ([]database.GetPaymentModeSummaryRow, error)
	ListPaymentsForReport(ctx context.Context, arg database.ListPaymentsForReportParams) ([]database.ListPaymentsForReportRow, error)
	GetMeterReadings(ctx context.Context, date pgtype.Date) ([]database.GetMeterReadingsRow, error)
	GetDailyFuelTotals(ctx context.Context, date pgtype.Date) ([]database.GetDailyFuelTotalsRow, error)
	GetDailyCreditTotals(ctx context.Context, date pgtype.Date) ([]database.GetDailyCreditTotalsRow, error)
	GetShiftWiseReadings(ctx context.Context, arg database.GetShiftWiseReadingsParams) ([]database.GetShiftWiseReadingsRow, error)
	GetCustomerOutstanding(ctx context.Context, arg database.GetCustomerOutstandingParams) ([]database.GetCustomerOutstandingRow, error)
}

// ReportHandler serves the back-office reports.
type ReportHandler struct {
	store ReportStore
}

func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/payment-modes", h.PaymentModes)
	r.Get("/reports/payments", h.Payments)
	r.Get("/reports/daily-sales", h.DailySales)
	r.Get("/reports/shift-readings", h.ShiftReadings)
	r.Get("/reports/customer-outstanding", h.CustomerOutstanding)
}

func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func dateRange(w http.ResponseWriter, r *http.Request) (pgtype.Date, pgtype.Date, bool) {
	today := time.Now().Truncate(24 * time.Hour)
	start, ok := parseDateParam(r, "start_date", today)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date, expected YYYY-MM-DD"})
		return pgtype.Date{}, pgtype.Date{}, false
	}
	end, ok := parseDateParam(r, "end_date", start)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date, expected YYYY-MM-DD"})
		return pgtype.Date{}, pgtype.Date{}, false
	}
	if end.Before(start) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_date must not be before start_date"})
		return pgtype.Date{}, pgtype.Date{}, false
	}
	return pgtype.Date{Time: start, Valid: true}, pgtype.Date{Time: end, Valid: true}, true
}

type paymentModeSummaryResponse struct {
	JournalName  string `json:"journal_name"`
	PaymentCount int64  `json:"payment_count"`
	TotalAmount  string `json:"total_amount"`
}

// PaymentModes summarises posted payments per journal over a date range.
func (h *ReportHandler) PaymentModes(w http.ResponseWriter, r *http.Request) {
	start, end, ok := dateRange(w, r)
	if !ok {
		return
	}
	journalIDs, err := parseUUIDList(r.URL.Query().Get("journal_ids"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid journal_ids"})
		return
	}
	if journalIDs == nil {
		journalIDs = []uuid.UUID{}
	}

	rows, err := h.store.GetPaymentModeSummary(r.Context(), database.GetPaymentModeSummaryParams{
		StartDate:  start,
		EndDate:    end,
		JournalIDs: journalIDs,
	})
	if err != nil {
		log.Printf("ERROR: failed to load payment mode summary: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load payment mode summary"})
		return
	}

	resp := make([]paymentModeSummaryResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, paymentModeSummaryResponse{
			JournalName:  row.JournalName,
			PaymentCount: row.PaymentCount,
			TotalAmount:  numericString(row.TotalAmount),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type paymentReportResponse struct {
	ID          uuid.UUID `json:"id"`
	PaymentDate string    `json:"payment_date"`
	JournalName string    `json:"journal_name"`
	Ref         string    `json:"ref"`
	IsPettyCash bool      `json:"is_petty_cash"`
	Amount      string    `json:"amount"`
}

// Payments lists individual posted payments over a date range.
func (h *ReportHandler) Payments(w http.ResponseWriter, r *http.Request) {
	start, end, ok := dateRange(w, r)
	if !ok {
		return
	}
	journalIDs, err := parseUUIDList(r.URL.Query().Get("journal_ids"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid journal_ids"})
		return
	}
	if journalIDs == nil {
		journalIDs = []uuid.UUID{}
	}

	rows, err := h.store.ListPaymentsForReport(r.Context(), database.ListPaymentsForReportParams{
		StartDate:  start,
		EndDate:    end,
		JournalIDs: journalIDs,
	})
	if err != nil {
		log.Printf("ERROR: failed to list payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list payments"})
		return
	}

	resp := make([]paymentReportResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, paymentReportResponse{
			ID:          row.ID,
			PaymentDate: row.PaymentDate.Time.Format("2006-01-02"),
			JournalName: row.JournalName,
			Ref:         row.Ref,
			IsPettyCash: row.IsPettyCash,
			Amount:      numericString(row.Amount),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type meterReadingResponse struct {
	PumpName   string `json:"pump_name"`
	NozzleName string `json:"nozzle_name"`
	FuelName   string `json:"fuel_name"`
	Opening    string `json:"opening"`
	Closing    string `json:"closing"`
	Litres     string `json:"litres"`
	Rate       string `json:"rate"`
	Amount     string `json:"amount"`
}

type fuelTotalResponse struct {
	FuelName string `json:"fuel_name"`
	Litres   string `json:"litres"`
	Rate     string `json:"rate"`
	Amount   string `json:"amount"`
}

type dailySalesResponse struct {
	Date          string                 `json:"date"`
	MeterReadings []meterReadingResponse `json:"meter_readings"`
	FuelTotals    []fuelTotalResponse    `json:"fuel_totals"`
	CreditTotals  []fuelTotalResponse    `json:"credit_totals"`
}

// DailySales is the daily sales statement: per-nozzle meter readings plus
// fuel-wise and credit-wise totals for one date.
func (h *ReportHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r, "date", time.Now().Truncate(24*time.Hour))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	pgDate := pgtype.Date{Time: date, Valid: true}

	readings, err := h.store.GetMeterReadings(r.Context(), pgDate)
	if err != nil {
		log.Printf("ERROR: failed to load meter readings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load daily sales"})
		return
	}
	fuelTotals, err := h.store.GetDailyFuelTotals(r.Context(), pgDate)
	if err != nil {
		log.Printf("ERROR: failed to load fuel totals: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load daily sales"})
		return
	}
	creditTotals, err := h.store.GetDailyCreditTotals(r.Context(), pgDate)
	if err != nil {
		log.Printf("ERROR: failed to load credit totals: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load daily sales"})
		return
	}

	resp := dailySalesResponse{
		Date:          date.Format("2006-01-02"),
		MeterReadings: make([]meterReadingResponse, 0, len(readings)),
		FuelTotals:    make([]fuelTotalResponse, 0, len(fuelTotals)),
		CreditTotals:  make([]fuelTotalResponse, 0, len(creditTotals)),
	}
	for _, row := range readings {
		resp.MeterReadings = append(resp.MeterReadings, meterReadingResponse{
			PumpName:   row.PumpName,
			NozzleName: row.NozzleName,
			FuelName:   row.FuelName,
			Opening:    numericString(row.Opening),
			Closing:    numericString(row.Closing),
			Litres:     numericString(row.Litres),
			Rate:       numericString(row.Rate),
			Amount:     numericString(row.Amount),
		})
	}
	for _, row := range fuelTotals {
		resp.FuelTotals = append(resp.FuelTotals, fuelTotalResponse{
			FuelName: row.FuelName,
			Litres:   numericString(row.Litres),
			Rate:     numericString(row.Rate),
			Amount:   numericString(row.Amount),
		})
	}
	for _, row := range creditTotals {
		resp.CreditTotals = append(resp.CreditTotals, fuelTotalResponse{
			FuelName: row.FuelName,
			Litres:   numericString(row.Quantity),
			Rate:     numericString(row.Rate),
			Amount:   numericString(row.Amount),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type shiftReadingResponse struct {
	ShiftName    string `json:"shift_name"`
	Date         string `json:"date"`
	PumpName     string `json:"pump_name"`
	NozzleName   string `json:"nozzle_name"`
	FuelName     string `json:"fuel_name"`
	StartReading string `json:"start_reading"`
	EndReading   string `json:"end_reading"`
	TotalReading string `json:"total_reading"`
	Price        string `json:"price"`
	Amount       string `json:"amount"`
}

// ShiftReadings lists per-shift nozzle readings over a date range.
func (h *ReportHandler) ShiftReadings(w http.ResponseWriter, r *http.Request) {
	start, end, ok := dateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.store.GetShiftWiseReadings(r.Context(), database.GetShiftWiseReadingsParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: failed to load shift readings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load shift readings"})
		return
	}

	resp := make([]shiftReadingResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, shiftReadingResponse{
			ShiftName:    row.ShiftName,
			Date:         row.CreatedAt.Format("2006-01-02"),
			PumpName:     row.PumpName,
			NozzleName:   row.NozzleName,
			FuelName:     row.FuelName,
			StartReading: numericString(row.StartReading),
			EndReading:   numericString(row.EndReading),
			TotalReading: numericString(row.TotalReading),
			Price:        numericString(row.Price),
			Amount:       numericString(row.Amount),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type customerOutstandingResponse struct {
	CustomerID        uuid.UUID `json:"customer_id"`
	CustomerName      string    `json:"customer_name"`
	InvoiceCount      int64     `json:"invoice_count"`
	TotalAmount       string    `json:"total_amount"`
	OutstandingAmount string    `json:"outstanding_amount"`
}

// CustomerOutstanding lists credit customers with unreconciled invoice
// amounts in the date range.
func (h *ReportHandler) CustomerOutstanding(w http.ResponseWriter, r *http.Request) {
	start, end, ok := dateRange(w, r)
	if !ok {
		return
	}
	customerIDs, err := parseUUIDList(r.URL.Query().Get("customer_ids"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer_ids"})
		return
	}
	if customerIDs == nil {
		customerIDs = []uuid.UUID{}
	}

	rows, err := h.store.GetCustomerOutstanding(r.Context(), database.GetCustomerOutstandingParams{
		StartDate:   start,
		EndDate:     end,
		CustomerIDs: customerIDs,
	})
	if err != nil {
		log.Printf("ERROR: failed to load customer outstanding: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load customer outstanding"})
		return
	}

	resp := make([]customerOutstandingResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, customerOutstandingResponse{
			CustomerID:        row.CustomerID,
			CustomerName:      row.CustomerName,
			InvoiceCount:      row.InvoiceCount,
			TotalAmount:       numericString(row.TotalAmount),
			OutstandingAmount: numericString(row.OutstandingAmount),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
