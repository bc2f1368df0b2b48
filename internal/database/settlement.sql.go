package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createCashSettlement = `-- name: CreateCashSettlement :one
INSERT INTO cash_settlements (employee_id, shift_id, settlement_date, expected_amount, submitted_amount, state)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, employee_id, shift_id, settlement_date, expected_amount, submitted_amount, state, created_at
`

type CreateCashSettlementParams struct {
	EmployeeID      uuid.UUID
	ShiftID         uuid.UUID
	SettlementDate  pgtype.Date
	ExpectedAmount  pgtype.Numeric
	SubmittedAmount pgtype.Numeric
	State           string
}

func (q *Queries) CreateCashSettlement(ctx context.Context, arg CreateCashSettlementParams) (CashSettlement, error) {
	row := q.db.QueryRow(ctx, createCashSettlement,
		arg.EmployeeID, arg.ShiftID, arg.SettlementDate, arg.ExpectedAmount, arg.SubmittedAmount, arg.State)
	var i CashSettlement
	err := row.Scan(&i.ID, &i.EmployeeID, &i.ShiftID, &i.SettlementDate,
		&i.ExpectedAmount, &i.SubmittedAmount, &i.State, &i.CreatedAt)
	return i, err
}

const getCashSettlement = `-- name: GetCashSettlement :one
SELECT id, employee_id, shift_id, settlement_date, expected_amount, submitted_amount, state, created_at
FROM cash_settlements
WHERE id = $1
`

func (q *Queries) GetCashSettlement(ctx context.Context, id uuid.UUID) (CashSettlement, error) {
	row := q.db.QueryRow(ctx, getCashSettlement, id)
	var i CashSettlement
	err := row.Scan(&i.ID, &i.EmployeeID, &i.ShiftID, &i.SettlementDate,
		&i.ExpectedAmount, &i.SubmittedAmount, &i.State, &i.CreatedAt)
	return i, err
}

const setCashSettlementState = `-- name: SetCashSettlementState :exec
UPDATE cash_settlements SET state = $2 WHERE id = $1
`

type SetCashSettlementStateParams struct {
	ID    uuid.UUID
	State string
}

func (q *Queries) SetCashSettlementState(ctx context.Context, arg SetCashSettlementStateParams) error {
	_, err := q.db.Exec(ctx, setCashSettlementState, arg.ID, arg.State)
	return err
}

const setCashSettlementSubmittedAmount = `-- name: SetCashSettlementSubmittedAmount :exec
UPDATE cash_settlements SET submitted_amount = $2 WHERE id = $1
`

type SetCashSettlementSubmittedAmountParams struct {
	ID              uuid.UUID
	SubmittedAmount pgtype.Numeric
}

func (q *Queries) SetCashSettlementSubmittedAmount(ctx context.Context, arg SetCashSettlementSubmittedAmountParams) error {
	_, err := q.db.Exec(ctx, setCashSettlementSubmittedAmount, arg.ID, arg.SubmittedAmount)
	return err
}

const createSettlementLine = `-- name: CreateSettlementLine :one
INSERT INTO settlement_lines (
    settlement_id, closing_entry_id, customer_id, shift_id, shift_manager_id,
    pump_id, nozzle_id, fuel_product_id, price, quantity, amount, sale_type,
    dip_taken_qty, dip_returned_qty
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id, settlement_id, closing_entry_id, customer_id, shift_id, shift_manager_id,
    pump_id, nozzle_id, fuel_product_id, price, quantity, amount, sale_type,
    dip_taken_qty, dip_returned_qty, created_at
`

type CreateSettlementLineParams struct {
	SettlementID   uuid.UUID
	ClosingEntryID uuid.UUID
	CustomerID     uuid.UUID
	ShiftID        uuid.UUID
	ShiftManagerID pgtype.UUID
	PumpID         pgtype.UUID
	NozzleID       uuid.UUID
	FuelProductID  uuid.UUID
	Price          pgtype.Numeric
	Quantity       pgtype.Numeric
	Amount         pgtype.Numeric
	SaleType       string
	DipTakenQty    pgtype.Numeric
	DipReturnedQty pgtype.Numeric
}

func (q *Queries) CreateSettlementLine(ctx context.Context, arg CreateSettlementLineParams) (SettlementLine, error) {
	row := q.db.QueryRow(ctx, createSettlementLine,
		arg.SettlementID, arg.ClosingEntryID, arg.CustomerID, arg.ShiftID, arg.ShiftManagerID,
		arg.PumpID, arg.NozzleID, arg.FuelProductID, arg.Price, arg.Quantity, arg.Amount,
		arg.SaleType, arg.DipTakenQty, arg.DipReturnedQty)
	return scanSettlementLine(row)
}

func scanSettlementLine(row rowScanner) (SettlementLine, error) {
	var i SettlementLine
	err := row.Scan(&i.ID, &i.SettlementID, &i.ClosingEntryID, &i.CustomerID, &i.ShiftID,
		&i.ShiftManagerID, &i.PumpID, &i.NozzleID, &i.FuelProductID, &i.Price, &i.Quantity,
		&i.Amount, &i.SaleType, &i.DipTakenQty, &i.DipReturnedQty, &i.CreatedAt)
	return i, err
}

const listSettlementLines = `-- name: ListSettlementLines :many
SELECT id, settlement_id, closing_entry_id, customer_id, shift_id, shift_manager_id,
    pump_id, nozzle_id, fuel_product_id, price, quantity, amount, sale_type,
    dip_taken_qty, dip_returned_qty, created_at
FROM settlement_lines
WHERE settlement_id = $1
ORDER BY created_at
`

func (q *Queries) ListSettlementLines(ctx context.Context, settlementID uuid.UUID) ([]SettlementLine, error) {
	rows, err := q.db.Query(ctx, listSettlementLines, settlementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SettlementLine
	for rows.Next() {
		i, err := scanSettlementLine(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createSettlementPaymentLine = `-- name: CreateSettlementPaymentLine :one
INSERT INTO settlement_payment_lines (settlement_id, journal_id, ref, amount, payment_type, state)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, settlement_id, journal_id, payment_id, ref, amount, payment_type, state, created_at
`

type CreateSettlementPaymentLineParams struct {
	SettlementID uuid.UUID
	JournalID    uuid.UUID
	Ref          string
	Amount       pgtype.Numeric
	PaymentType  string
	State        string
}

func (q *Queries) CreateSettlementPaymentLine(ctx context.Context, arg CreateSettlementPaymentLineParams) (SettlementPaymentLine, error) {
	row := q.db.QueryRow(ctx, createSettlementPaymentLine,
		arg.SettlementID, arg.JournalID, arg.Ref, arg.Amount, arg.PaymentType, arg.State)
	var i SettlementPaymentLine
	err := row.Scan(&i.ID, &i.SettlementID, &i.JournalID, &i.PaymentID, &i.Ref,
		&i.Amount, &i.PaymentType, &i.State, &i.CreatedAt)
	return i, err
}

const listSettlementPaymentLines = `-- name: ListSettlementPaymentLines :many
SELECT id, settlement_id, journal_id, payment_id, ref, amount, payment_type, state, created_at
FROM settlement_payment_lines
WHERE settlement_id = $1
ORDER BY created_at
`

func (q *Queries) ListSettlementPaymentLines(ctx context.Context, settlementID uuid.UUID) ([]SettlementPaymentLine, error) {
	rows, err := q.db.Query(ctx, listSettlementPaymentLines, settlementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SettlementPaymentLine
	for rows.Next() {
		var i SettlementPaymentLine
		if err := rows.Scan(&i.ID, &i.SettlementID, &i.JournalID, &i.PaymentID, &i.Ref,
			&i.Amount, &i.PaymentType, &i.State, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const linkSettlementPaymentLine = `-- name: LinkSettlementPaymentLine :exec
UPDATE settlement_payment_lines SET payment_id = $2, state = 'POSTED' WHERE id = $1
`

type LinkSettlementPaymentLineParams struct {
	ID        uuid.UUID
	PaymentID pgtype.UUID
}

func (q *Queries) LinkSettlementPaymentLine(ctx context.Context, arg LinkSettlementPaymentLineParams) error {
	_, err := q.db.Exec(ctx, linkSettlementPaymentLine, arg.ID, arg.PaymentID)
	return err
}

const createSettlementMove = `-- name: CreateSettlementMove :one
INSERT INTO settlement_moves (settlement_id, entry_id, move_type)
VALUES ($1, $2, $3)
RETURNING id, settlement_id, entry_id, move_type, created_at
`

type CreateSettlementMoveParams struct {
	SettlementID uuid.UUID
	EntryID      uuid.UUID
	MoveType     string
}

func (q *Queries) CreateSettlementMove(ctx context.Context, arg CreateSettlementMoveParams) (SettlementMove, error) {
	row := q.db.QueryRow(ctx, createSettlementMove, arg.SettlementID, arg.EntryID, arg.MoveType)
	var i SettlementMove
	err := row.Scan(&i.ID, &i.SettlementID, &i.EntryID, &i.MoveType, &i.CreatedAt)
	return i, err
}
