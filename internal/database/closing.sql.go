package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createClosingEntry = `-- name: CreateClosingEntry :one
INSERT INTO closing_entries (
    pump_id, nozzle_id, shift_id, shift_manager_id, fuel_product_id,
    employee_id, price, start_reading, end_reading,
    dip_taken_qty, dip_returned_qty, total_sale_amount, state
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, pump_id, nozzle_id, shift_id, shift_manager_id, fuel_product_id,
    employee_id, price, start_reading, end_reading, dip_taken_qty,
    dip_returned_qty, total_sale_amount, state, created_at
`

type CreateClosingEntryParams struct {
	PumpID          uuid.UUID
	NozzleID        uuid.UUID
	ShiftID         uuid.UUID
	ShiftManagerID  pgtype.UUID
	FuelProductID   uuid.UUID
	EmployeeID      uuid.UUID
	Price           pgtype.Numeric
	StartReading    pgtype.Numeric
	EndReading      pgtype.Numeric
	DipTakenQty     pgtype.Numeric
	DipReturnedQty  pgtype.Numeric
	TotalSaleAmount pgtype.Numeric
	State           string
}

func (q *Queries) CreateClosingEntry(ctx context.Context, arg CreateClosingEntryParams) (ClosingEntry, error) {
	row := q.db.QueryRow(ctx, createClosingEntry,
		arg.PumpID, arg.NozzleID, arg.ShiftID, arg.ShiftManagerID, arg.FuelProductID,
		arg.EmployeeID, arg.Price, arg.StartReading, arg.EndReading,
		arg.DipTakenQty, arg.DipReturnedQty, arg.TotalSaleAmount, arg.State,
	)
	return scanClosingEntry(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClosingEntry(row rowScanner) (ClosingEntry, error) {
	var i ClosingEntry
	err := row.Scan(
		&i.ID, &i.PumpID, &i.NozzleID, &i.ShiftID, &i.ShiftManagerID, &i.FuelProductID,
		&i.EmployeeID, &i.Price, &i.StartReading, &i.EndReading, &i.DipTakenQty,
		&i.DipReturnedQty, &i.TotalSaleAmount, &i.State, &i.CreatedAt,
	)
	return i, err
}

const listOpenClosingEntries = `-- name: ListOpenClosingEntries :many
SELECT id, pump_id, nozzle_id, shift_id, shift_manager_id, fuel_product_id,
    employee_id, price, start_reading, end_reading, dip_taken_qty,
    dip_returned_qty, total_sale_amount, state, created_at
FROM closing_entries
WHERE employee_id = $1
  AND state = 'OPEN'
  AND ($2::date IS NULL OR created_at::date = $2::date)
  AND (cardinality($3::uuid[]) = 0 OR shift_id = ANY($3::uuid[]))
  AND (cardinality($4::uuid[]) = 0 OR pump_id = ANY($4::uuid[]))
  AND (cardinality($5::uuid[]) = 0 OR nozzle_id = ANY($5::uuid[]))
ORDER BY created_at
`

type ListOpenClosingEntriesParams struct {
	EmployeeID uuid.UUID
	Date       pgtype.Date
	ShiftIDs   []uuid.UUID
	PumpIDs    []uuid.UUID
	NozzleIDs  []uuid.UUID
}

func (q *Queries) ListOpenClosingEntries(ctx context.Context, arg ListOpenClosingEntriesParams) ([]ClosingEntry, error) {
	rows, err := q.db.Query(ctx, listOpenClosingEntries,
		arg.EmployeeID, arg.Date, arg.ShiftIDs, arg.PumpIDs, arg.NozzleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ClosingEntry
	for rows.Next() {
		i, err := scanClosingEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const lockClosingEntriesForSettlement = `-- name: LockClosingEntriesForSettlement :many
SELECT id, pump_id, nozzle_id, shift_id, shift_manager_id, fuel_product_id,
    employee_id, price, start_reading, end_reading, dip_taken_qty,
    dip_returned_qty, total_sale_amount, state, created_at
FROM closing_entries
WHERE id = ANY($1::uuid[]) AND state <> 'SETTLED'
ORDER BY created_at
FOR UPDATE
`

// LockClosingEntriesForSettlement takes row locks so that two settlements
// racing over the same closing entries serialize; the loser sees the entries
// already settled and fails validation.
func (q *Queries) LockClosingEntriesForSettlement(ctx context.Context, ids []uuid.UUID) ([]ClosingEntry, error) {
	rows, err := q.db.Query(ctx, lockClosingEntriesForSettlement, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ClosingEntry
	for rows.Next() {
		i, err := scanClosingEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const markClosingEntriesSettled = `-- name: MarkClosingEntriesSettled :exec
UPDATE closing_entries SET state = 'SETTLED' WHERE id = ANY($1::uuid[])
`

func (q *Queries) MarkClosingEntriesSettled(ctx context.Context, ids []uuid.UUID) error {
	_, err := q.db.Exec(ctx, markClosingEntriesSettled, ids)
	return err
}

const createWalkinSaleLine = `-- name: CreateWalkinSaleLine :one
INSERT INTO walkin_sale_lines (closing_entry_id, quantity, price, amount)
VALUES ($1, $2, $3, $4)
RETURNING id, closing_entry_id, quantity, price, amount, created_at
`

type CreateWalkinSaleLineParams struct {
	ClosingEntryID uuid.UUID
	Quantity       pgtype.Numeric
	Price          pgtype.Numeric
	Amount         pgtype.Numeric
}

func (q *Queries) CreateWalkinSaleLine(ctx context.Context, arg CreateWalkinSaleLineParams) (WalkinSaleLine, error) {
	row := q.db.QueryRow(ctx, createWalkinSaleLine, arg.ClosingEntryID, arg.Quantity, arg.Price, arg.Amount)
	var i WalkinSaleLine
	err := row.Scan(&i.ID, &i.ClosingEntryID, &i.Quantity, &i.Price, &i.Amount, &i.CreatedAt)
	return i, err
}

const createCreditSaleLine = `-- name: CreateCreditSaleLine :one
INSERT INTO credit_sale_lines (closing_entry_id, customer_id, vehicle_no, quantity, price, amount)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, closing_entry_id, customer_id, vehicle_no, quantity, price, amount, created_at
`

type CreateCreditSaleLineParams struct {
	ClosingEntryID uuid.UUID
	CustomerID     uuid.UUID
	VehicleNo      pgtype.Text
	Quantity       pgtype.Numeric
	Price          pgtype.Numeric
	Amount         pgtype.Numeric
}

func (q *Queries) CreateCreditSaleLine(ctx context.Context, arg CreateCreditSaleLineParams) (CreditSaleLine, error) {
	row := q.db.QueryRow(ctx, createCreditSaleLine,
		arg.ClosingEntryID, arg.CustomerID, arg.VehicleNo, arg.Quantity, arg.Price, arg.Amount)
	var i CreditSaleLine
	err := row.Scan(&i.ID, &i.ClosingEntryID, &i.CustomerID, &i.VehicleNo, &i.Quantity, &i.Price, &i.Amount, &i.CreatedAt)
	return i, err
}

const createLoyaltySaleLine = `-- name: CreateLoyaltySaleLine :one
INSERT INTO loyalty_sale_lines (closing_entry_id, customer_id, quantity, price, amount)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, closing_entry_id, customer_id, quantity, price, amount, created_at
`

type CreateLoyaltySaleLineParams struct {
	ClosingEntryID uuid.UUID
	CustomerID     uuid.UUID
	Quantity       pgtype.Numeric
	Price          pgtype.Numeric
	Amount         pgtype.Numeric
}

func (q *Queries) CreateLoyaltySaleLine(ctx context.Context, arg CreateLoyaltySaleLineParams) (LoyaltySaleLine, error) {
	row := q.db.QueryRow(ctx, createLoyaltySaleLine,
		arg.ClosingEntryID, arg.CustomerID, arg.Quantity, arg.Price, arg.Amount)
	var i LoyaltySaleLine
	err := row.Scan(&i.ID, &i.ClosingEntryID, &i.CustomerID, &i.Quantity, &i.Price, &i.Amount, &i.CreatedAt)
	return i, err
}

const listWalkinSaleLines = `-- name: ListWalkinSaleLines :many
SELECT id, closing_entry_id, quantity, price, amount, created_at
FROM walkin_sale_lines
WHERE closing_entry_id = ANY($1::uuid[])
ORDER BY created_at
`

func (q *Queries) ListWalkinSaleLines(ctx context.Context, closingEntryIDs []uuid.UUID) ([]WalkinSaleLine, error) {
	rows, err := q.db.Query(ctx, listWalkinSaleLines, closingEntryIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WalkinSaleLine
	for rows.Next() {
		var i WalkinSaleLine
		if err := rows.Scan(&i.ID, &i.ClosingEntryID, &i.Quantity, &i.Price, &i.Amount, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listCreditSaleLines = `-- name: ListCreditSaleLines :many
SELECT id, closing_entry_id, customer_id, vehicle_no, quantity, price, amount, created_at
FROM credit_sale_lines
WHERE closing_entry_id = ANY($1::uuid[])
ORDER BY created_at
`

func (q *Queries) ListCreditSaleLines(ctx context.Context, closingEntryIDs []uuid.UUID) ([]CreditSaleLine, error) {
	rows, err := q.db.Query(ctx, listCreditSaleLines, closingEntryIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CreditSaleLine
	for rows.Next() {
		var i CreditSaleLine
		if err := rows.Scan(&i.ID, &i.ClosingEntryID, &i.CustomerID, &i.VehicleNo, &i.Quantity, &i.Price, &i.Amount, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listLoyaltySaleLines = `-- name: ListLoyaltySaleLines :many
SELECT id, closing_entry_id, customer_id, quantity, price, amount, created_at
FROM loyalty_sale_lines
WHERE closing_entry_id = ANY($1::uuid[])
ORDER BY created_at
`

func (q *Queries) ListLoyaltySaleLines(ctx context.Context, closingEntryIDs []uuid.UUID) ([]LoyaltySaleLine, error) {
	rows, err := q.db.Query(ctx, listLoyaltySaleLines, closingEntryIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LoyaltySaleLine
	for rows.Next() {
		var i LoyaltySaleLine
		if err := rows.Scan(&i.ID, &i.ClosingEntryID, &i.CustomerID, &i.Quantity, &i.Price, &i.Amount, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
