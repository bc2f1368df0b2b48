package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getNextSaleOrderNumber = `-- name: GetNextSaleOrderNumber :one
SELECT COALESCE(MAX(CAST(SUBSTRING(order_number FROM 4) AS INTEGER)), 0) + 1
FROM sale_orders
`

func (q *Queries) GetNextSaleOrderNumber(ctx context.Context) (int32, error) {
	row := q.db.QueryRow(ctx, getNextSaleOrderNumber)
	var next int32
	err := row.Scan(&next)
	return next, err
}

const createSaleOrder = `-- name: CreateSaleOrder :one
INSERT INTO sale_orders (
    order_number, settlement_id, customer_id, fuel_product_id, nozzle_id,
    shift_manager_id, sale_type, quantity, unit_price, dip_taken_qty,
    dip_returned_qty, state
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, order_number, settlement_id, customer_id, fuel_product_id, nozzle_id,
    shift_manager_id, sale_type, quantity, unit_price, dip_taken_qty,
    dip_returned_qty, state, invoice_id, created_at
`

type CreateSaleOrderParams struct {
	OrderNumber    string
	SettlementID   uuid.UUID
	CustomerID     uuid.UUID
	FuelProductID  uuid.UUID
	NozzleID       uuid.UUID
	ShiftManagerID pgtype.UUID
	SaleType       string
	Quantity       pgtype.Numeric
	UnitPrice      pgtype.Numeric
	DipTakenQty    pgtype.Numeric
	DipReturnedQty pgtype.Numeric
	State          string
}

func (q *Queries) CreateSaleOrder(ctx context.Context, arg CreateSaleOrderParams) (SaleOrder, error) {
	row := q.db.QueryRow(ctx, createSaleOrder,
		arg.OrderNumber, arg.SettlementID, arg.CustomerID, arg.FuelProductID, arg.NozzleID,
		arg.ShiftManagerID, arg.SaleType, arg.Quantity, arg.UnitPrice, arg.DipTakenQty,
		arg.DipReturnedQty, arg.State)
	return scanSaleOrder(row)
}

func scanSaleOrder(row rowScanner) (SaleOrder, error) {
	var i SaleOrder
	err := row.Scan(&i.ID, &i.OrderNumber, &i.SettlementID, &i.CustomerID, &i.FuelProductID,
		&i.NozzleID, &i.ShiftManagerID, &i.SaleType, &i.Quantity, &i.UnitPrice,
		&i.DipTakenQty, &i.DipReturnedQty, &i.State, &i.InvoiceID, &i.CreatedAt)
	return i, err
}

const getSaleOrder = `-- name: GetSaleOrder :one
SELECT id, order_number, settlement_id, customer_id, fuel_product_id, nozzle_id,
    shift_manager_id, sale_type, quantity, unit_price, dip_taken_qty,
    dip_returned_qty, state, invoice_id, created_at
FROM sale_orders
WHERE id = $1
`

func (q *Queries) GetSaleOrder(ctx context.Context, id uuid.UUID) (SaleOrder, error) {
	row := q.db.QueryRow(ctx, getSaleOrder, id)
	return scanSaleOrder(row)
}

const listSaleOrdersBySettlement = `-- name: ListSaleOrdersBySettlement :many
SELECT id, order_number, settlement_id, customer_id, fuel_product_id, nozzle_id,
    shift_manager_id, sale_type, quantity, unit_price, dip_taken_qty,
    dip_returned_qty, state, invoice_id, created_at
FROM sale_orders
WHERE settlement_id = $1
ORDER BY order_number
`

func (q *Queries) ListSaleOrdersBySettlement(ctx context.Context, settlementID uuid.UUID) ([]SaleOrder, error) {
	rows, err := q.db.Query(ctx, listSaleOrdersBySettlement, settlementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SaleOrder
	for rows.Next() {
		i, err := scanSaleOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const confirmSaleOrder = `-- name: ConfirmSaleOrder :exec
UPDATE sale_orders SET state = 'CONFIRMED', invoice_id = $2 WHERE id = $1
`

type ConfirmSaleOrderParams struct {
	ID        uuid.UUID
	InvoiceID pgtype.UUID
}

func (q *Queries) ConfirmSaleOrder(ctx context.Context, arg ConfirmSaleOrderParams) error {
	_, err := q.db.Exec(ctx, confirmSaleOrder, arg.ID, arg.InvoiceID)
	return err
}
