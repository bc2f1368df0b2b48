package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stationbooks/api/internal/database"
	"github.com/stationbooks/api/internal/enum"
)

// Errors returned by the ledger.
var (
	ErrEmptyEntry         = errors.New("journal entry requires at least two lines")
	ErrUnbalancedEntry    = errors.New("journal entry debits and credits do not balance")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrNoPettyCashAccount = errors.New("employee has no petty cash account")
)

// Store defines the database methods the ledger needs.
// Satisfied by *database.Queries (and its WithTx variant).
type Store interface {
	CreateJournalEntry(ctx context.Context, arg database.CreateJournalEntryParams) (database.JournalEntry, error)
	CreateJournalLine(ctx context.Context, arg database.CreateJournalLineParams) (database.JournalLine, error)
	PostJournalEntry(ctx context.Context, id uuid.UUID) error
	ListJournalLinesByEntry(ctx context.Context, entryID uuid.UUID) ([]database.JournalLine, error)
	MarkJournalLinesReconciled(ctx context.Context, ids []uuid.UUID) error
	AccountBalance(ctx context.Context, accountID uuid.UUID) (pgtype.Numeric, error)
	GetJournal(ctx context.Context, id uuid.UUID) (database.Journal, error)
	GetReceivableAccount(ctx context.Context) (database.Account, error)
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	ListPostedPaymentsBySettlement(ctx context.Context, arg database.ListPostedPaymentsBySettlementParams) ([]database.Payment, error)
}

// Ledger posts and reads double-entry records. It carries no state beyond
// its store, so one instance per transaction is the expected usage.
type Ledger struct {
	store Store
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Line is one side of a journal entry, expressed in business decimals.
type Line struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Label     string
}

// EntryParams describes a journal entry to create.
type EntryParams struct {
	JournalID    uuid.UUID
	Date         time.Time
	Ref          string
	Kind         string
	SettlementID pgtype.UUID
	CustomerID   pgtype.UUID
	SaleType     pgtype.Text
	Lines        []Line
}

// CreateEntry creates a draft journal entry with its lines. Lines must
// balance to the cent.
func (l *Ledger) CreateEntry(ctx context.Context, arg EntryParams) (database.JournalEntry, error) {
	if len(arg.Lines) < 2 {
		return database.JournalEntry{}, ErrEmptyEntry
	}

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, line := range arg.Lines {
		debitTotal = debitTotal.Add(line.Debit)
		creditTotal = creditTotal.Add(line.Credit)
	}
	if !debitTotal.Equal(creditTotal) {
		return database.JournalEntry{}, ErrUnbalancedEntry
	}

	kind := arg.Kind
	if kind == "" {
		kind = enum.EntryKindManual
	}

	entry, err := l.store.CreateJournalEntry(ctx, database.CreateJournalEntryParams{
		JournalID:    arg.JournalID,
		EntryDate:    pgtype.Date{Time: arg.Date, Valid: true},
		Ref:          arg.Ref,
		Kind:         kind,
		State:        enum.EntryStateDraft,
		SettlementID: arg.SettlementID,
		CustomerID:   arg.CustomerID,
		SaleType:     arg.SaleType,
	})
	if err != nil {
		return database.JournalEntry{}, fmt.Errorf("create journal entry: %w", err)
	}

	for _, line := range arg.Lines {
		_, err := l.store.CreateJournalLine(ctx, database.CreateJournalLineParams{
			EntryID:   entry.ID,
			AccountID: line.AccountID,
			Debit:     decimalToNumeric(line.Debit),
			Credit:    decimalToNumeric(line.Credit),
			Label:     line.Label,
		})
		if err != nil {
			return database.JournalEntry{}, fmt.Errorf("create journal line: %w", err)
		}
	}

	return entry, nil
}

// PostEntry moves a draft entry to posted.
func (l *Ledger) PostEntry(ctx context.Context, id uuid.UUID) error {
	if err := l.store.PostJournalEntry(ctx, id); err != nil {
		return fmt.Errorf("post journal entry: %w", err)
	}
	return nil
}

// PaymentParams describes an inbound payment to create and post.
type PaymentParams struct {
	JournalID    uuid.UUID
	CustomerID   uuid.UUID
	Amount       decimal.Decimal
	Date         time.Time
	Ref          string
	SettlementID pgtype.UUID
	IsPettyCash  bool
}

// CreatePayment creates a posted inbound payment together with its backing
// journal entry (debit journal default account, credit receivable).
func (l *Ledger) CreatePayment(ctx context.Context, arg PaymentParams) (database.Payment, error) {
	if arg.Amount.LessThanOrEqual(decimal.Zero) {
		return database.Payment{}, ErrInvalidAmount
	}

	journal, err := l.store.GetJournal(ctx, arg.JournalID)
	if err != nil {
		return database.Payment{}, fmt.Errorf("get journal: %w", err)
	}
	receivable, err := l.store.GetReceivableAccount(ctx)
	if err != nil {
		return database.Payment{}, fmt.Errorf("get receivable account: %w", err)
	}

	entry, err := l.CreateEntry(ctx, EntryParams{
		JournalID:    arg.JournalID,
		Date:         arg.Date,
		Ref:          arg.Ref,
		Kind:         enum.EntryKindManual,
		SettlementID: arg.SettlementID,
		Lines: []Line{
			{AccountID: journal.DefaultAccountID, Debit: arg.Amount, Label: arg.Ref},
			{AccountID: receivable.ID, Credit: arg.Amount, Label: arg.Ref},
		},
	})
	if err != nil {
		return database.Payment{}, err
	}
	if err := l.PostEntry(ctx, entry.ID); err != nil {
		return database.Payment{}, err
	}

	payment, err := l.store.CreatePayment(ctx, database.CreatePaymentParams{
		JournalID:    arg.JournalID,
		CustomerID:   arg.CustomerID,
		Amount:       decimalToNumeric(arg.Amount),
		PaymentDate:  pgtype.Date{Time: arg.Date, Valid: true},
		Ref:          arg.Ref,
		State:        enum.EntryStatePosted,
		IsPettyCash:  arg.IsPettyCash,
		SettlementID: arg.SettlementID,
		EntryID:      pgtype.UUID{Bytes: entry.ID, Valid: true},
	})
	if err != nil {
		return database.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return payment, nil
}

// Reconcile pairs two journal lines and marks both reconciled.
func (l *Ledger) Reconcile(ctx context.Context, lineA, lineB uuid.UUID) error {
	if err := l.store.MarkJournalLinesReconciled(ctx, []uuid.UUID{lineA, lineB}); err != nil {
		return fmt.Errorf("reconcile lines: %w", err)
	}
	return nil
}

// EmployeePettyCashBalance returns debit minus credit over posted lines on
// the employee's petty cash account. Employees without an account hold zero.
func (l *Ledger) EmployeePettyCashBalance(ctx context.Context, employee database.Employee) (decimal.Decimal, error) {
	if !employee.PettyCashAccountID.Valid {
		return decimal.Zero, nil
	}
	balance, err := l.store.AccountBalance(ctx, uuid.UUID(employee.PettyCashAccountID.Bytes))
	if err != nil {
		return decimal.Zero, fmt.Errorf("petty cash balance: %w", err)
	}
	return numericToDecimal(balance), nil
}

// PaymentsBySettlement lists posted non-zero payments linked to a settlement.
func (l *Ledger) PaymentsBySettlement(ctx context.Context, settlementID uuid.UUID, excludePettyCash bool) ([]database.Payment, error) {
	return l.store.ListPostedPaymentsBySettlement(ctx, database.ListPostedPaymentsBySettlementParams{
		SettlementID:     pgtype.UUID{Bytes: settlementID, Valid: true},
		ExcludePettyCash: excludePettyCash,
	})
}

// EntryLines returns the lines of a journal entry.
func (l *Ledger) EntryLines(ctx context.Context, entryID uuid.UUID) ([]database.JournalLine, error) {
	return l.store.ListJournalLinesByEntry(ctx, entryID)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
