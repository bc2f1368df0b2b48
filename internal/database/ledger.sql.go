package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (code, name, account_type)
VALUES ($1, $2, $3)
RETURNING id, code, name, account_type, created_at
`

type CreateAccountParams struct {
	Code        string
	Name        string
	AccountType string
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, createAccount, arg.Code, arg.Name, arg.AccountType)
	var i Account
	err := row.Scan(&i.ID, &i.Code, &i.Name, &i.AccountType, &i.CreatedAt)
	return i, err
}

const getAccount = `-- name: GetAccount :one
SELECT id, code, name, account_type, created_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	row := q.db.QueryRow(ctx, getAccount, id)
	var i Account
	err := row.Scan(&i.ID, &i.Code, &i.Name, &i.AccountType, &i.CreatedAt)
	return i, err
}

const getReceivableAccount = `-- name: GetReceivableAccount :one
SELECT id, code, name, account_type, created_at
FROM accounts
WHERE account_type = 'ASSET_RECEIVABLE'
ORDER BY code
LIMIT 1
`

func (q *Queries) GetReceivableAccount(ctx context.Context) (Account, error) {
	row := q.db.QueryRow(ctx, getReceivableAccount)
	var i Account
	err := row.Scan(&i.ID, &i.Code, &i.Name, &i.AccountType, &i.CreatedAt)
	return i, err
}

const getFuelSalesAccount = `-- name: GetFuelSalesAccount :one
SELECT id, code, name, account_type, created_at
FROM accounts
WHERE account_type = 'INCOME'
ORDER BY code
LIMIT 1
`

func (q *Queries) GetFuelSalesAccount(ctx context.Context) (Account, error) {
	row := q.db.QueryRow(ctx, getFuelSalesAccount)
	var i Account
	err := row.Scan(&i.ID, &i.Code, &i.Name, &i.AccountType, &i.CreatedAt)
	return i, err
}

const createJournal = `-- name: CreateJournal :one
INSERT INTO journals (name, journal_type, default_account_id)
VALUES ($1, $2, $3)
RETURNING id, name, journal_type, default_account_id, created_at
`

type CreateJournalParams struct {
	Name             string
	JournalType      string
	DefaultAccountID uuid.UUID
}

func (q *Queries) CreateJournal(ctx context.Context, arg CreateJournalParams) (Journal, error) {
	row := q.db.QueryRow(ctx, createJournal, arg.Name, arg.JournalType, arg.DefaultAccountID)
	var i Journal
	err := row.Scan(&i.ID, &i.Name, &i.JournalType, &i.DefaultAccountID, &i.CreatedAt)
	return i, err
}

const getJournal = `-- name: GetJournal :one
SELECT id, name, journal_type, default_account_id, created_at FROM journals WHERE id = $1
`

func (q *Queries) GetJournal(ctx context.Context, id uuid.UUID) (Journal, error) {
	row := q.db.QueryRow(ctx, getJournal, id)
	var i Journal
	err := row.Scan(&i.ID, &i.Name, &i.JournalType, &i.DefaultAccountID, &i.CreatedAt)
	return i, err
}

const getCashJournal = `-- name: GetCashJournal :one
SELECT id, name, journal_type, default_account_id, created_at
FROM journals
WHERE journal_type = 'CASH'
ORDER BY created_at
LIMIT 1
`

func (q *Queries) GetCashJournal(ctx context.Context) (Journal, error) {
	row := q.db.QueryRow(ctx, getCashJournal)
	var i Journal
	err := row.Scan(&i.ID, &i.Name, &i.JournalType, &i.DefaultAccountID, &i.CreatedAt)
	return i, err
}

const getSaleJournal = `-- name: GetSaleJournal :one
SELECT id, name, journal_type, default_account_id, created_at
FROM journals
WHERE journal_type = 'SALE'
ORDER BY created_at
LIMIT 1
`

func (q *Queries) GetSaleJournal(ctx context.Context) (Journal, error) {
	row := q.db.QueryRow(ctx, getSaleJournal)
	var i Journal
	err := row.Scan(&i.ID, &i.Name, &i.JournalType, &i.DefaultAccountID, &i.CreatedAt)
	return i, err
}

const listJournals = `-- name: ListJournals :many
SELECT id, name, journal_type, default_account_id, created_at FROM journals ORDER BY name
`

func (q *Queries) ListJournals(ctx context.Context) ([]Journal, error) {
	rows, err := q.db.Query(ctx, listJournals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Journal
	for rows.Next() {
		var i Journal
		if err := rows.Scan(&i.ID, &i.Name, &i.JournalType, &i.DefaultAccountID, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createJournalEntry = `-- name: CreateJournalEntry :one
INSERT INTO journal_entries (journal_id, entry_date, ref, kind, state, settlement_id, customer_id, sale_type)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, journal_id, entry_date, ref, kind, state, settlement_id, customer_id, sale_type, created_at
`

type CreateJournalEntryParams struct {
	JournalID    uuid.UUID
	EntryDate    pgtype.Date
	Ref          string
	Kind         string
	State        string
	SettlementID pgtype.UUID
	CustomerID   pgtype.UUID
	SaleType     pgtype.Text
}

func (q *Queries) CreateJournalEntry(ctx context.Context, arg CreateJournalEntryParams) (JournalEntry, error) {
	row := q.db.QueryRow(ctx, createJournalEntry,
		arg.JournalID, arg.EntryDate, arg.Ref, arg.Kind, arg.State,
		arg.SettlementID, arg.CustomerID, arg.SaleType)
	var i JournalEntry
	err := row.Scan(&i.ID, &i.JournalID, &i.EntryDate, &i.Ref, &i.Kind, &i.State,
		&i.SettlementID, &i.CustomerID, &i.SaleType, &i.CreatedAt)
	return i, err
}

const getJournalEntry = `-- name: GetJournalEntry :one
SELECT id, journal_id, entry_date, ref, kind, state, settlement_id, customer_id, sale_type, created_at
FROM journal_entries
WHERE id = $1
`

func (q *Queries) GetJournalEntry(ctx context.Context, id uuid.UUID) (JournalEntry, error) {
	row := q.db.QueryRow(ctx, getJournalEntry, id)
	var i JournalEntry
	err := row.Scan(&i.ID, &i.JournalID, &i.EntryDate, &i.Ref, &i.Kind, &i.State,
		&i.SettlementID, &i.CustomerID, &i.SaleType, &i.CreatedAt)
	return i, err
}

const postJournalEntry = `-- name: PostJournalEntry :exec
UPDATE journal_entries SET state = 'POSTED' WHERE id = $1
`

func (q *Queries) PostJournalEntry(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, postJournalEntry, id)
	return err
}

const createJournalLine = `-- name: CreateJournalLine :one
INSERT INTO journal_lines (entry_id, account_id, debit, credit, label)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, entry_id, account_id, debit, credit, label, reconciled, created_at
`

type CreateJournalLineParams struct {
	EntryID   uuid.UUID
	AccountID uuid.UUID
	Debit     pgtype.Numeric
	Credit    pgtype.Numeric
	Label     string
}

func (q *Queries) CreateJournalLine(ctx context.Context, arg CreateJournalLineParams) (JournalLine, error) {
	row := q.db.QueryRow(ctx, createJournalLine,
		arg.EntryID, arg.AccountID, arg.Debit, arg.Credit, arg.Label)
	var i JournalLine
	err := row.Scan(&i.ID, &i.EntryID, &i.AccountID, &i.Debit, &i.Credit, &i.Label, &i.Reconciled, &i.CreatedAt)
	return i, err
}

const listJournalLinesByEntry = `-- name: ListJournalLinesByEntry :many
SELECT id, entry_id, account_id, debit, credit, label, reconciled, created_at
FROM journal_lines
WHERE entry_id = $1
ORDER BY created_at
`

func (q *Queries) ListJournalLinesByEntry(ctx context.Context, entryID uuid.UUID) ([]JournalLine, error) {
	rows, err := q.db.Query(ctx, listJournalLinesByEntry, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []JournalLine
	for rows.Next() {
		var i JournalLine
		if err := rows.Scan(&i.ID, &i.EntryID, &i.AccountID, &i.Debit, &i.Credit, &i.Label, &i.Reconciled, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const markJournalLinesReconciled = `-- name: MarkJournalLinesReconciled :exec
UPDATE journal_lines SET reconciled = TRUE WHERE id = ANY($1::uuid[])
`

func (q *Queries) MarkJournalLinesReconciled(ctx context.Context, ids []uuid.UUID) error {
	_, err := q.db.Exec(ctx, markJournalLinesReconciled, ids)
	return err
}

const accountBalance = `-- name: AccountBalance :one
SELECT COALESCE(SUM(jl.debit - jl.credit), 0)::numeric
FROM journal_lines jl
JOIN journal_entries je ON je.id = jl.entry_id
WHERE jl.account_id = $1 AND je.state = 'POSTED'
`

// AccountBalance returns debit minus credit over posted lines.
func (q *Queries) AccountBalance(ctx context.Context, accountID uuid.UUID) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, accountBalance, accountID)
	var balance pgtype.Numeric
	err := row.Scan(&balance)
	return balance, err
}

const createPayment = `-- name: CreatePayment :one
INSERT INTO payments (journal_id, customer_id, amount, payment_date, ref, state, is_petty_cash, settlement_id, entry_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, journal_id, customer_id, amount, payment_date, ref, state, is_petty_cash, settlement_id, entry_id, created_at
`

type CreatePaymentParams struct {
	JournalID    uuid.UUID
	CustomerID   uuid.UUID
	Amount       pgtype.Numeric
	PaymentDate  pgtype.Date
	Ref          string
	State        string
	IsPettyCash  bool
	SettlementID pgtype.UUID
	EntryID      pgtype.UUID
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRow(ctx, createPayment,
		arg.JournalID, arg.CustomerID, arg.Amount, arg.PaymentDate, arg.Ref,
		arg.State, arg.IsPettyCash, arg.SettlementID, arg.EntryID)
	var i Payment
	err := row.Scan(&i.ID, &i.JournalID, &i.CustomerID, &i.Amount, &i.PaymentDate, &i.Ref,
		&i.State, &i.IsPettyCash, &i.SettlementID, &i.EntryID, &i.CreatedAt)
	return i, err
}

const listPostedPaymentsBySettlement = `-- name: ListPostedPaymentsBySettlement :many
SELECT id, journal_id, customer_id, amount, payment_date, ref, state, is_petty_cash, settlement_id, entry_id, created_at
FROM payments
WHERE settlement_id = $1
  AND state = 'POSTED'
  AND amount <> 0
  AND (NOT $2::boolean OR is_petty_cash = FALSE)
ORDER BY created_at
`

type ListPostedPaymentsBySettlementParams struct {
	SettlementID     pgtype.UUID
	ExcludePettyCash bool
}

func (q *Queries) ListPostedPaymentsBySettlement(ctx context.Context, arg ListPostedPaymentsBySettlementParams) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPostedPaymentsBySettlement, arg.SettlementID, arg.ExcludePettyCash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Payment
	for rows.Next() {
		var i Payment
		if err := rows.Scan(&i.ID, &i.JournalID, &i.CustomerID, &i.Amount, &i.PaymentDate, &i.Ref,
			&i.State, &i.IsPettyCash, &i.SettlementID, &i.EntryID, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
