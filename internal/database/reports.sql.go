package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getPaymentModeSummary = `-- name: GetPaymentModeSummary :many
SELECT j.name AS journal_name,
       COUNT(p.id) AS payment_count,
       COALESCE(SUM(p.amount), 0)::numeric AS total_amount
FROM payments p
JOIN journals j ON j.id = p.journal_id
WHERE p.state = 'POSTED'
  AND p.payment_date BETWEEN $1 AND $2
  AND (cardinality($3::uuid[]) = 0 OR p.journal_id = ANY($3::uuid[]))
GROUP BY j.name
ORDER BY j.name
`

type GetPaymentModeSummaryParams struct {
	StartDate  pgtype.Date
	EndDate    pgtype.Date
	JournalIDs []uuid.UUID
}

type GetPaymentModeSummaryRow struct {
	JournalName  string
	PaymentCount int64
	TotalAmount  pgtype.Numeric
}

func (q *Queries) GetPaymentModeSummary(ctx context.Context, arg GetPaymentModeSummaryParams) ([]GetPaymentModeSummaryRow, error) {
	rows, err := q.db.Query(ctx, getPaymentModeSummary, arg.StartDate, arg.EndDate, arg.JournalIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetPaymentModeSummaryRow
	for rows.Next() {
		var i GetPaymentModeSummaryRow
		if err := rows.Scan(&i.JournalName, &i.PaymentCount, &i.TotalAmount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listPaymentsForReport = `-- name: ListPaymentsForReport :many
SELECT p.id, p.payment_date, j.name AS journal_name, p.ref, p.is_petty_cash, p.amount
FROM payments p
JOIN journals j ON j.id = p.journal_id
WHERE p.state = 'POSTED'
  AND p.payment_date BETWEEN $1 AND $2
  AND (cardinality($3::uuid[]) = 0 OR p.journal_id = ANY($3::uuid[]))
ORDER BY p.payment_date, j.name
`

type ListPaymentsForReportParams struct {
	StartDate  pgtype.Date
	EndDate    pgtype.Date
	JournalIDs []uuid.UUID
}

type ListPaymentsForReportRow struct {
	ID          uuid.UUID
	PaymentDate pgtype.Date
	JournalName string
	Ref         string
	IsPettyCash bool
	Amount      pgtype.Numeric
}

func (q *Queries) ListPaymentsForReport(ctx context.Context, arg ListPaymentsForReportParams) ([]ListPaymentsForReportRow, error) {
	rows, err := q.db.Query(ctx, listPaymentsForReport, arg.StartDate, arg.EndDate, arg.JournalIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPaymentsForReportRow
	for rows.Next() {
		var i ListPaymentsForReportRow
		if err := rows.Scan(&i.ID, &i.PaymentDate, &i.JournalName, &i.Ref, &i.IsPettyCash, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getMeterReadings = `-- name: GetMeterReadings :many
SELECT pu.name AS pump_name,
       n.name AS nozzle_name,
       f.name AS fuel_name,
       MIN(ce.start_reading)::numeric AS opening,
       MAX(ce.end_reading)::numeric AS closing,
       COALESCE(SUM(ce.end_reading - ce.start_reading), 0)::numeric AS litres,
       MAX(ce.price)::numeric AS rate,
       COALESCE(SUM((ce.end_reading - ce.start_reading) * ce.price), 0)::numeric AS amount
FROM closing_entries ce
JOIN pumps pu ON pu.id = ce.pump_id
JOIN nozzles n ON n.id = ce.nozzle_id
JOIN fuel_products f ON f.id = ce.fuel_product_id
WHERE ce.created_at::date = $1
GROUP BY pu.name, n.name, f.name
ORDER BY pu.name, n.name
`

type GetMeterReadingsRow struct {
	PumpName   string
	NozzleName string
	FuelName   string
	Opening    pgtype.Numeric
	Closing    pgtype.Numeric
	Litres     pgtype.Numeric
	Rate       pgtype.Numeric
	Amount     pgtype.Numeric
}

func (q *Queries) GetMeterReadings(ctx context.Context, date pgtype.Date) ([]GetMeterReadingsRow, error) {
	rows, err := q.db.Query(ctx, getMeterReadings, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetMeterReadingsRow
	for rows.Next() {
		var i GetMeterReadingsRow
		if err := rows.Scan(&i.PumpName, &i.NozzleName, &i.FuelName, &i.Opening, &i.Closing, &i.Litres, &i.Rate, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getDailyFuelTotals = `-- name: GetDailyFuelTotals :many
SELECT f.name AS fuel_name,
       COALESCE(SUM(ce.end_reading - ce.start_reading), 0)::numeric AS litres,
       MAX(ce.price)::numeric AS rate,
       COALESCE(SUM((ce.end_reading - ce.start_reading) * ce.price), 0)::numeric AS amount
FROM closing_entries ce
JOIN fuel_products f ON f.id = ce.fuel_product_id
WHERE ce.created_at::date = $1
GROUP BY f.name
ORDER BY f.name
`

type GetDailyFuelTotalsRow struct {
	FuelName string
	Litres   pgtype.Numeric
	Rate     pgtype.Numeric
	Amount   pgtype.Numeric
}

func (q *Queries) GetDailyFuelTotals(ctx context.Context, date pgtype.Date) ([]GetDailyFuelTotalsRow, error) {
	rows, err := q.db.Query(ctx, getDailyFuelTotals, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetDailyFuelTotalsRow
	for rows.Next() {
		var i GetDailyFuelTotalsRow
		if err := rows.Scan(&i.FuelName, &i.Litres, &i.Rate, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getDailyCreditTotals = `-- name: GetDailyCreditTotals :many
SELECT f.name AS fuel_name,
       COALESCE(SUM(csl.quantity), 0)::numeric AS quantity,
       MAX(csl.price)::numeric AS rate,
       COALESCE(SUM(csl.amount), 0)::numeric AS amount
FROM credit_sale_lines csl
JOIN closing_entries ce ON ce.id = csl.closing_entry_id
JOIN fuel_products f ON f.id = ce.fuel_product_id
WHERE ce.created_at::date = $1
GROUP BY f.name
ORDER BY f.name
`

type GetDailyCreditTotalsRow struct {
	FuelName string
	Quantity pgtype.Numeric
	Rate     pgtype.Numeric
	Amount   pgtype.Numeric
}

func (q *Queries) GetDailyCreditTotals(ctx context.Context, date pgtype.Date) ([]GetDailyCreditTotalsRow, error) {
	rows, err := q.db.Query(ctx, getDailyCreditTotals, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetDailyCreditTotalsRow
	for rows.Next() {
		var i GetDailyCreditTotalsRow
		if err := rows.Scan(&i.FuelName, &i.Quantity, &i.Rate, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getShiftWiseReadings = `-- name: GetShiftWiseReadings :many
SELECT s.name AS shift_name,
       ce.created_at,
       pu.name AS pump_name,
       n.name AS nozzle_name,
       f.name AS fuel_name,
       ce.start_reading,
       ce.end_reading,
       (ce.end_reading - ce.start_reading)::numeric AS total_reading,
       ce.price,
       ((ce.end_reading - ce.start_reading) * ce.price)::numeric AS amount
FROM closing_entries ce
JOIN shifts s ON s.id = ce.shift_id
JOIN pumps pu ON pu.id = ce.pump_id
JOIN nozzles n ON n.id = ce.nozzle_id
JOIN fuel_products f ON f.id = ce.fuel_product_id
WHERE ce.created_at::date BETWEEN $1 AND $2
ORDER BY s.sequence, pu.name, ce.created_at
`

type GetShiftWiseReadingsParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

type GetShiftWiseReadingsRow struct {
	ShiftName    string
	CreatedAt    time.Time
	PumpName     string
	NozzleName   string
	FuelName     string
	StartReading pgtype.Numeric
	EndReading   pgtype.Numeric
	TotalReading pgtype.Numeric
	Price        pgtype.Numeric
	Amount       pgtype.Numeric
}

func (q *Queries) GetShiftWiseReadings(ctx context.Context, arg GetShiftWiseReadingsParams) ([]GetShiftWiseReadingsRow, error) {
	rows, err := q.db.Query(ctx, getShiftWiseReadings, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetShiftWiseReadingsRow
	for rows.Next() {
		var i GetShiftWiseReadingsRow
		if err := rows.Scan(&i.ShiftName, &i.CreatedAt, &i.PumpName, &i.NozzleName, &i.FuelName,
			&i.StartReading, &i.EndReading, &i.TotalReading, &i.Price, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getCustomerOutstanding = `-- name: GetCustomerOutstanding :many
SELECT c.id AS customer_id,
       c.name AS customer_name,
       COUNT(DISTINCT je.id) AS invoice_count,
       COALESCE(SUM(jl.debit), 0)::numeric AS total_amount,
       COALESCE(SUM(jl.debit) FILTER (WHERE NOT jl.reconciled), 0)::numeric AS outstanding_amount
FROM journal_entries je
JOIN customers c ON c.id = je.customer_id
JOIN journal_lines jl ON jl.entry_id = je.id
JOIN accounts a ON a.id = jl.account_id
WHERE je.kind = 'OUT_INVOICE'
  AND je.state = 'POSTED'
  AND a.account_type = 'ASSET_RECEIVABLE'
  AND je.entry_date BETWEEN $1 AND $2
  AND c.is_credit_customer = TRUE
  AND (cardinality($3::uuid[]) = 0 OR c.id = ANY($3::uuid[]))
GROUP BY c.id, c.name
HAVING COALESCE(SUM(jl.debit) FILTER (WHERE NOT jl.reconciled), 0) > 0
ORDER BY c.name
`

type GetCustomerOutstandingParams struct {
	StartDate   pgtype.Date
	EndDate     pgtype.Date
	CustomerIDs []uuid.UUID
}

type GetCustomerOutstandingRow struct {
	CustomerID        uuid.UUID
	CustomerName      string
	InvoiceCount      int64
	TotalAmount       pgtype.Numeric
	OutstandingAmount pgtype.Numeric
}

func (q *Queries) GetCustomerOutstanding(ctx context.Context, arg GetCustomerOutstandingParams) ([]GetCustomerOutstandingRow, error) {
	rows, err := q.db.Query(ctx, getCustomerOutstanding, arg.StartDate, arg.EndDate, arg.CustomerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetCustomerOutstandingRow
	for rows.Next() {
		var i GetCustomerOutstandingRow
		if err := rows.Scan(&i.CustomerID, &i.CustomerName, &i.InvoiceCount, &i.TotalAmount, &i.OutstandingAmount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
