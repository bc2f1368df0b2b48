package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stationbooks/api/internal/database"
	"github.com/stationbooks/api/internal/enum"
	"github.com/stationbooks/api/internal/ledger"
)

// Errors returned by the settlement service.
var (
	ErrNoEmployee          = errors.New("no employee linked to user")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrNozzleNotFound      = errors.New("nozzle not found")
	ErrNozzleMismatch      = errors.New("nozzle does not belong to pump")
	ErrDipExceedsSale      = errors.New("dip quantity exceeds dispensed quantity")
	ErrNoPettyCashAccount  = errors.New("employee has no petty cash account")
	ErrNoClosingEntries    = errors.New("no open closing entries to settle")
	ErrEntriesSettled      = errors.New("closing entries already settled")
	ErrShiftNotFound       = errors.New("shift not found")
	ErrNoCashJournal       = errors.New("cash journal not configured")
	ErrNoSaleJournal       = errors.New("sale journal not configured")
	ErrNoDefaultCustomer   = errors.New("walk-in customer not configured")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrAlreadySubmitted    = errors.New("settlement already submitted")
	ErrNoSettlementLines   = errors.New("settlement has no lines to invoice")
	ErrMissingCustomer     = errors.New("settlement line has no customer")
	ErrOrderNotFound       = errors.New("sale order not found")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store defines the DB methods needed for settlement processing.
// Satisfied by *database.Queries (and its WithTx variant).
type Store interface {
	ledger.Store

	GetEmployee(ctx context.Context, id uuid.UUID) (database.Employee, error)
	GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (database.Employee, error)
	SetEmployeePettyCashAccount(ctx context.Context, arg database.SetEmployeePettyCashAccountParams) error
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	GetDefaultCustomer(ctx context.Context) (database.Customer, error)
	AddLoyaltyPoints(ctx context.Context, arg database.AddLoyaltyPointsParams) error
	GetShift(ctx context.Context, id uuid.UUID) (database.Shift, error)
	GetNozzle(ctx context.Context, id uuid.UUID) (database.Nozzle, error)
	ListShifts(ctx context.Context) ([]database.Shift, error)
	ListPumps(ctx context.Context) ([]database.Pump, error)
	ListNozzles(ctx context.Context) ([]database.Nozzle, error)
	ListFuelProducts(ctx context.Context) ([]database.FuelProduct, error)
	CreateAccount(ctx context.Context, arg database.CreateAccountParams) (database.Account, error)
	GetCashJournal(ctx context.Context) (database.Journal, error)
	GetSaleJournal(ctx context.Context) (database.Journal, error)
	GetFuelSalesAccount(ctx context.Context) (database.Account, error)

	CreateClosingEntry(ctx context.Context, arg database.CreateClosingEntryParams) (database.ClosingEntry, error)
	CreateWalkinSaleLine(ctx context.Context, arg database.CreateWalkinSaleLineParams) (database.WalkinSaleLine, error)
	CreateCreditSaleLine(ctx context.Context, arg database.CreateCreditSaleLineParams) (database.CreditSaleLine, error)
	CreateLoyaltySaleLine(ctx context.Context, arg database.CreateLoyaltySaleLineParams) (database.LoyaltySaleLine, error)
	ListOpenClosingEntries(ctx context.Context, arg database.ListOpenClosingEntriesParams) ([]database.ClosingEntry, error)
	LockClosingEntriesForSettlement(ctx context.Context, ids []uuid.UUID) ([]database.ClosingEntry, error)
	MarkClosingEntriesSettled(ctx context.Context, ids []uuid.UUID) error
	ListWalkinSaleLines(ctx context.Context, closingEntryIDs []uuid.UUID) ([]database.WalkinSaleLine, error)
	ListCreditSaleLines(ctx context.Context, closingEntryIDs []uuid.UUID) ([]database.CreditSaleLine, error)
	ListLoyaltySaleLines(ctx context.Context, closingEntryIDs []uuid.UUID) ([]database.LoyaltySaleLine, error)

	CreateCashSettlement(ctx context.Context, arg database.CreateCashSettlementParams) (database.CashSettlement, error)
	GetCashSettlement(ctx context.Context, id uuid.UUID) (database.CashSettlement, error)
	SetCashSettlementState(ctx context.Context, arg database.SetCashSettlementStateParams) error
	SetCashSettlementSubmittedAmount(ctx context.Context, arg database.SetCashSettlementSubmittedAmountParams) error
	CreateSettlementLine(ctx context.Context, arg database.CreateSettlementLineParams) (database.SettlementLine, error)
	ListSettlementLines(ctx context.Context, settlementID uuid.UUID) ([]database.SettlementLine, error)
	CreateSettlementPaymentLine(ctx context.Context, arg database.CreateSettlementPaymentLineParams) (database.SettlementPaymentLine, error)
	ListSettlementPaymentLines(ctx context.Context, settlementID uuid.UUID) ([]database.SettlementPaymentLine, error)
	LinkSettlementPaymentLine(ctx context.Context, arg database.LinkSettlementPaymentLineParams) error
	CreateSettlementMove(ctx context.Context, arg database.CreateSettlementMoveParams) (database.SettlementMove, error)

	GetNextSaleOrderNumber(ctx context.Context) (int32, error)
	CreateSaleOrder(ctx context.Context, arg database.CreateSaleOrderParams) (database.SaleOrder, error)
	GetSaleOrder(ctx context.Context, id uuid.UUID) (database.SaleOrder, error)
	ListSaleOrdersBySettlement(ctx context.Context, settlementID uuid.UUID) ([]database.SaleOrder, error)
	ConfirmSaleOrder(ctx context.Context, arg database.ConfirmSaleOrderParams) error
}

// NewStore creates a Store from a DBTX (pool or tx).
type NewStore func(db database.DBTX) Store

// Config holds the settlement behaviour toggles, read once at boot.
type Config struct {
	AutoConfirmSale      bool
	CreditLoyaltyAllowed bool
}

// Service handles cash settlement business logic.
type Service struct {
	store    Store
	pool     TxBeginner
	newStore NewStore
	cfg      Config
}

// NewService creates a new settlement Service. store is pool-backed and used
// for reads; writes run in their own transactions via pool and newStore.
func NewService(store Store, pool TxBeginner, newStore NewStore, cfg Config) *Service {
	return &Service{store: store, pool: pool, newStore: newStore, cfg: cfg}
}

// Actor identifies who is performing an operation. Admins may act on behalf
// of another employee by setting EmployeeID.
type Actor struct {
	UserID     uuid.UUID
	IsAdmin    bool
	EmployeeID uuid.UUID
}

func (s *Service) resolveEmployee(ctx context.Context, store Store, actor Actor) (database.Employee, error) {
	if actor.EmployeeID != uuid.Nil && actor.IsAdmin {
		employee, err := store.GetEmployee(ctx, actor.EmployeeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return database.Employee{}, ErrEmployeeNotFound
			}
			return database.Employee{}, fmt.Errorf("get employee: %w", err)
		}
		return employee, nil
	}
	employee, err := store.GetEmployeeByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Employee{}, ErrNoEmployee
		}
		return database.Employee{}, fmt.Errorf("get employee by user: %w", err)
	}
	return employee, nil
}

// EntriesFilter narrows the pending-entries view.
type EntriesFilter struct {
	Date      time.Time
	ShiftIDs  []uuid.UUID
	PumpIDs   []uuid.UUID
	NozzleIDs []uuid.UUID
}

// PendingEntries returns the aggregated open closing entries for the actor's
// employee, grouped per shift and fuel, together with the employee record.
func (s *Service) PendingEntries(ctx context.Context, actor Actor, filter EntriesFilter) (Summary, database.Employee, error) {
	employee, err := s.resolveEmployee(ctx, s.store, actor)
	if err != nil {
		return Summary{}, database.Employee{}, err
	}

	led := ledger.New(s.store)
	pettyCash, err := led.EmployeePettyCashBalance(ctx, employee)
	if err != nil {
		return Summary{}, database.Employee{}, err
	}

	// Nil slices encode as SQL NULL; the filter predicates expect empty arrays.
	if filter.ShiftIDs == nil {
		filter.ShiftIDs = []uuid.UUID{}
	}
	if filter.PumpIDs == nil {
		filter.PumpIDs = []uuid.UUID{}
	}
	if filter.NozzleIDs == nil {
		filter.NozzleIDs = []uuid.UUID{}
	}

	entries, err := s.store.ListOpenClosingEntries(ctx, database.ListOpenClosingEntriesParams{
		EmployeeID: employee.ID,
		Date:       pgtype.Date{Time: filter.Date, Valid: !filter.Date.IsZero()},
		ShiftIDs:   filter.ShiftIDs,
		PumpIDs:    filter.PumpIDs,
		NozzleIDs:  filter.NozzleIDs,
	})
	if err != nil {
		return Summary{}, database.Employee{}, fmt.Errorf("list closing entries: %w", err)
	}
	if len(entries) == 0 {
		return Summary{PettyCashBalance: pettyCash, ExpectedAmount: pettyCash}, employee, nil
	}

	views, err := s.loadEntryViews(ctx, s.store, entries)
	if err != nil {
		return Summary{}, database.Employee{}, err
	}

	return BuildSummary(views, pettyCash), employee, nil
}

// loadEntryViews joins closing entries with registry names and their
// per-channel sale line totals.
func (s *Service) loadEntryViews(ctx context.Context, store Store, entries []database.ClosingEntry) ([]EntryView, error) {
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	walkin, err := store.ListWalkinSaleLines(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list walk-in lines: %w", err)
	}
	credit, err := store.ListCreditSaleLines(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list credit lines: %w", err)
	}
	loyalty, err := store.ListLoyaltySaleLines(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list loyalty lines: %w", err)
	}

	walkinByEntry := map[uuid.UUID]SaleFigures{}
	for _, l := range walkin {
		f := walkinByEntry[l.ClosingEntryID]
		f.Quantity = f.Quantity.Add(numericToDecimal(l.Quantity))
		f.Amount = f.Amount.Add(numericToDecimal(l.Amount))
		walkinByEntry[l.ClosingEntryID] = f
	}
	creditByEntry := map[uuid.UUID]SaleFigures{}
	for _, l := range credit {
		f := creditByEntry[l.ClosingEntryID]
		f.Quantity = f.Quantity.Add(numericToDecimal(l.Quantity))
		f.Amount = f.Amount.Add(numericToDecimal(l.Amount))
		creditByEntry[l.ClosingEntryID] = f
	}
	loyaltyByEntry := map[uuid.UUID]SaleFigures{}
	for _, l := range loyalty {
		f := loyaltyByEntry[l.ClosingEntryID]
		f.Quantity = f.Quantity.Add(numericToDecimal(l.Quantity))
		f.Amount = f.Amount.Add(numericToDecimal(l.Amount))
		loyaltyByEntry[l.ClosingEntryID] = f
	}

	shiftNames, pumpNames, nozzleNames, fuelNames, err := s.registryNames(ctx, store)
	if err != nil {
		return nil, err
	}

	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, EntryView{
			ID:              e.ID,
			ShiftID:         e.ShiftID,
			ShiftName:       shiftNames[e.ShiftID],
			PumpName:        pumpNames[e.PumpID],
			NozzleName:      nozzleNames[e.NozzleID],
			FuelProductID:   e.FuelProductID,
			FuelName:        fuelNames[e.FuelProductID],
			Price:           numericToDecimal(e.Price),
			StartReading:    numericToDecimal(e.StartReading),
			EndReading:      numericToDecimal(e.EndReading),
			DipTakenQty:     numericToDecimal(e.DipTakenQty),
			TotalSaleAmount: numericToDecimal(e.TotalSaleAmount),
			Walkin:          walkinByEntry[e.ID],
			Credit:          creditByEntry[e.ID],
			Loyalty:         loyaltyByEntry[e.ID],
		})
	}
	return views, nil
}

func (s *Service) registryNames(ctx context.Context, store Store) (shifts, pumps, nozzles, fuels map[uuid.UUID]string, err error) {
	shiftList, err := store.ListShifts(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("list shifts: %w", err)
	}
	pumpList, err := store.ListPumps(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("list pumps: %w", err)
	}
	nozzleList, err := store.ListNozzles(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("list nozzles: %w", err)
	}
	fuelList, err := store.ListFuelProducts(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("list fuel products: %w", err)
	}

	shifts = map[uuid.UUID]string{}
	for _, v := range shiftList {
		shifts[v.ID] = v.Name
	}
	pumps = map[uuid.UUID]string{}
	for _, v := range pumpList {
		pumps[v.ID] = v.Name
	}
	nozzles = map[uuid.UUID]string{}
	for _, v := range nozzleList {
		nozzles[v.ID] = v.Name
	}
	fuels = map[uuid.UUID]string{}
	for _, v := range fuelList {
		fuels[v.ID] = v.Name
	}
	return shifts, pumps, nozzles, fuels, nil
}

// ClosingLine is one credit or loyalty sale within a closing entry.
type ClosingLine struct {
	CustomerID uuid.UUID
	VehicleNo  string
	Quantity   decimal.Decimal
}

// ClosingEntryRequest is the validated input for recording a shift closing
// entry with its sale lines.
type ClosingEntryRequest struct {
	PumpID         uuid.UUID
	NozzleID       uuid.UUID
	ShiftID        uuid.UUID
	ShiftManagerID pgtype.UUID
	FuelProductID  uuid.UUID
	EmployeeID     uuid.UUID
	Price          decimal.Decimal
	StartReading   decimal.Decimal
	EndReading     decimal.Decimal
	WalkinQty      decimal.Decimal
	DipTakenQty    decimal.Decimal
	DipReturnedQty decimal.Decimal
	CreditLines    []ClosingLine
	LoyaltyLines   []ClosingLine
}

// RecordClosingEntry writes a closing entry and all of its sale lines in one
// transaction, so a failed line never leaves behind an entry whose stored
// total counts quantities that were not persisted. The total covers walk-in
// and loyalty volumes net of DIP test pours; credit volumes are invoiced
// separately and excluded.
func (s *Service) RecordClosingEntry(ctx context.Context, req ClosingEntryRequest) (database.ClosingEntry, error) {
	loyaltyQty := decimal.Zero
	for _, l := range req.LoyaltyLines {
		loyaltyQty = loyaltyQty.Add(l.Quantity)
	}
	totalSale := req.WalkinQty.Add(loyaltyQty).Sub(req.DipTakenQty).Mul(req.Price)
	if totalSale.IsNegative() {
		return database.ClosingEntry{}, ErrDipExceedsSale
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.ClosingEntry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	nozzle, err := store.GetNozzle(ctx, req.NozzleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.ClosingEntry{}, ErrNozzleNotFound
		}
		return database.ClosingEntry{}, fmt.Errorf("get nozzle: %w", err)
	}
	if nozzle.PumpID != req.PumpID {
		return database.ClosingEntry{}, ErrNozzleMismatch
	}

	entry, err := store.CreateClosingEntry(ctx, database.CreateClosingEntryParams{
		PumpID:          req.PumpID,
		NozzleID:        req.NozzleID,
		ShiftID:         req.ShiftID,
		ShiftManagerID:  req.ShiftManagerID,
		FuelProductID:   req.FuelProductID,
		EmployeeID:      req.EmployeeID,
		Price:           decimalToNumeric(req.Price),
		StartReading:    decimalToNumeric(req.StartReading),
		EndReading:      decimalToNumeric(req.EndReading),
		DipTakenQty:     decimalToNumeric(req.DipTakenQty),
		DipReturnedQty:  decimalToNumeric(req.DipReturnedQty),
		TotalSaleAmount: decimalToNumeric(totalSale),
		State:           enum.ClosingEntryStateOpen,
	})
	if err != nil {
		return database.ClosingEntry{}, fmt.Errorf("create closing entry: %w", err)
	}

	if req.WalkinQty.IsPositive() {
		if _, err := store.CreateWalkinSaleLine(ctx, database.CreateWalkinSaleLineParams{
			ClosingEntryID: entry.ID,
			Quantity:       decimalToNumeric(req.WalkinQty),
			Price:          decimalToNumeric(req.Price),
			Amount:         decimalToNumeric(req.WalkinQty.Mul(req.Price)),
		}); err != nil {
			return database.ClosingEntry{}, fmt.Errorf("create walk-in sale line: %w", err)
		}
	}
	for _, l := range req.CreditLines {
		vehicleNo := pgtype.Text{}
		if l.VehicleNo != "" {
			vehicleNo = pgtype.Text{String: l.VehicleNo, Valid: true}
		}
		if _, err := store.CreateCreditSaleLine(ctx, database.CreateCreditSaleLineParams{
			ClosingEntryID: entry.ID,
			CustomerID:     l.CustomerID,
			VehicleNo:      vehicleNo,
			Quantity:       decimalToNumeric(l.Quantity),
			Price:          decimalToNumeric(req.Price),
			Amount:         decimalToNumeric(l.Quantity.Mul(req.Price)),
		}); err != nil {
			return database.ClosingEntry{}, fmt.Errorf("create credit sale line: %w", err)
		}
	}
	for _, l := range req.LoyaltyLines {
		if _, err := store.CreateLoyaltySaleLine(ctx, database.CreateLoyaltySaleLineParams{
			ClosingEntryID: entry.ID,
			CustomerID:     l.CustomerID,
			Quantity:       decimalToNumeric(l.Quantity),
			Price:          decimalToNumeric(req.Price),
			Amount:         decimalToNumeric(l.Quantity.Mul(req.Price)),
		}); err != nil {
			return database.ClosingEntry{}, fmt.Errorf("create loyalty sale line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return database.ClosingEntry{}, fmt.Errorf("commit tx: %w", err)
	}
	return entry, nil
}

// OpenClosingEntries lists an employee's open closing entries, optionally
// narrowed by date, shift, pump or nozzle.
func (s *Service) OpenClosingEntries(ctx context.Context, arg database.ListOpenClosingEntriesParams) ([]database.ClosingEntry, error) {
	return s.store.ListOpenClosingEntries(ctx, arg)
}

// PaymentInput is one submitted funds line: an amount handed over through a
// cash or bank journal.
type PaymentInput struct {
	JournalID uuid.UUID
	Amount    decimal.Decimal
}

// SubmitRequest is the validated input for submitting a settlement.
type SubmitRequest struct {
	Actor           Actor
	ClosingEntryIDs []uuid.UUID
	ShiftID         uuid.UUID
	Date            time.Time
	Payments        []PaymentInput
}

// Submit settles a batch of closing entries atomically: it locks the entries,
// allocates the submitted funds against the shift total, records payment
// lines and any corrective ledger entry, writes per-sale audit lines, and
// marks the entries settled. Entries already settled are skipped; the batch
// fails with ErrEntriesSettled only when none remain, which is also how a
// settlement racing over the same entries loses after the row locks release.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (database.CashSettlement, error) {
	if len(req.ClosingEntryIDs) == 0 {
		return database.CashSettlement{}, ErrNoClosingEntries
	}
	for _, p := range req.Payments {
		if p.Amount.LessThanOrEqual(decimal.Zero) {
			return database.CashSettlement{}, ErrInvalidAmount
		}
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.CashSettlement{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	led := ledger.New(store)

	employee, err := s.resolveEmployee(ctx, store, req.Actor)
	if err != nil {
		return database.CashSettlement{}, err
	}
	if !employee.PettyCashAccountID.Valid {
		return database.CashSettlement{}, ErrNoPettyCashAccount
	}

	shift, err := store.GetShift(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.CashSettlement{}, ErrShiftNotFound
		}
		return database.CashSettlement{}, fmt.Errorf("get shift: %w", err)
	}

	entries, err := store.LockClosingEntriesForSettlement(ctx, req.ClosingEntryIDs)
	if err != nil {
		return database.CashSettlement{}, fmt.Errorf("lock closing entries: %w", err)
	}
	if len(entries) == 0 {
		return database.CashSettlement{}, ErrEntriesSettled
	}

	shiftTotal := decimal.Zero
	for _, e := range entries {
		shiftTotal = shiftTotal.Add(numericToDecimal(e.TotalSaleAmount))
	}

	settlement, err := store.CreateCashSettlement(ctx, database.CreateCashSettlementParams{
		EmployeeID:      employee.ID,
		ShiftID:         req.ShiftID,
		SettlementDate:  pgtype.Date{Time: req.Date, Valid: true},
		ExpectedAmount:  decimalToNumeric(shiftTotal),
		SubmittedAmount: decimalToNumeric(decimal.Zero),
		State:           enum.SettlementStateDraft,
	})
	if err != nil {
		return database.CashSettlement{}, fmt.Errorf("create settlement: %w", err)
	}

	cashJournal, err := store.GetCashJournal(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.CashSettlement{}, ErrNoCashJournal
		}
		return database.CashSettlement{}, fmt.Errorf("get cash journal: %w", err)
	}

	// Split submitted funds by journal type.
	cashTotal := decimal.Zero
	bankTotal := decimal.Zero
	var bankPayments []PaymentInput
	for _, p := range req.Payments {
		journal, err := store.GetJournal(ctx, p.JournalID)
		if err != nil {
			return database.CashSettlement{}, fmt.Errorf("get journal: %w", err)
		}
		if journal.JournalType == enum.JournalTypeCash {
			cashTotal = cashTotal.Add(p.Amount)
		} else {
			bankTotal = bankTotal.Add(p.Amount)
			bankPayments = append(bankPayments, p)
		}
	}

	alloc := Allocate(shiftTotal, cashTotal, bankTotal)
	ref := fmt.Sprintf("%s / %s", shift.Name, req.Date.Format("2006-01-02"))

	for _, p := range bankPayments {
		_, err := store.CreateSettlementPaymentLine(ctx, database.CreateSettlementPaymentLineParams{
			SettlementID: settlement.ID,
			JournalID:    p.JournalID,
			Ref:          ref,
			Amount:       decimalToNumeric(p.Amount),
			PaymentType:  enum.PaymentTypeShift,
			State:        enum.PaymentLineStateDraft,
		})
		if err != nil {
			return database.CashSettlement{}, fmt.Errorf("create bank payment line: %w", err)
		}
	}
	if alloc.ShiftCash.IsPositive() {
		_, err := store.CreateSettlementPaymentLine(ctx, database.CreateSettlementPaymentLineParams{
			SettlementID: settlement.ID,
			JournalID:    cashJournal.ID,
			Ref:          ref,
			Amount:       decimalToNumeric(alloc.ShiftCash),
			PaymentType:  enum.PaymentTypeShift,
			State:        enum.PaymentLineStateDraft,
		})
		if err != nil {
			return database.CashSettlement{}, fmt.Errorf("create cash payment line: %w", err)
		}
	}
	if alloc.PettyCash.IsPositive() {
		_, err := store.CreateSettlementPaymentLine(ctx, database.CreateSettlementPaymentLineParams{
			SettlementID: settlement.ID,
			JournalID:    cashJournal.ID,
			Ref:          ref,
			Amount:       decimalToNumeric(alloc.PettyCash),
			PaymentType:  enum.PaymentTypePettyCash,
			State:        enum.PaymentLineStateDraft,
		})
		if err != nil {
			return database.CashSettlement{}, fmt.Errorf("create petty cash payment line: %w", err)
		}
	}

	employeeAccount := uuid.UUID(employee.PettyCashAccountID.Bytes)
	settlementRef := pgtype.UUID{Bytes: settlement.ID, Valid: true}

	// Excess cash returns against the employee's float; an uncovered
	// remainder is booked against it. Never both for the same settlement.
	switch {
	case alloc.PettyCash.IsPositive():
		entry, err := led.CreateEntry(ctx, ledger.EntryParams{
			JournalID:    cashJournal.ID,
			Date:         req.Date,
			Ref:          "Petty Cash Adjustment " + ref,
			SettlementID: settlementRef,
			Lines: []ledger.Line{
				{AccountID: cashJournal.DefaultAccountID, Debit: alloc.PettyCash, Label: "Petty Cash Adjustment"},
				{AccountID: employeeAccount, Credit: alloc.PettyCash, Label: "Petty Cash Adjustment"},
			},
		})
		if err != nil {
			return database.CashSettlement{}, err
		}
		if err := led.PostEntry(ctx, entry.ID); err != nil {
			return database.CashSettlement{}, err
		}
		if _, err := store.CreateSettlementMove(ctx, database.CreateSettlementMoveParams{
			SettlementID: settlement.ID,
			EntryID:      entry.ID,
			MoveType:     enum.MoveTypePettyReturn,
		}); err != nil {
			return database.CashSettlement{}, fmt.Errorf("create settlement move: %w", err)
		}
	case alloc.Shortage.IsPositive():
		entry, err := led.CreateEntry(ctx, ledger.EntryParams{
			JournalID:    cashJournal.ID,
			Date:         req.Date,
			Ref:          "Shift Shortage " + ref,
			SettlementID: settlementRef,
			Lines: []ledger.Line{
				{AccountID: employeeAccount, Debit: alloc.Shortage, Label: "Shift Shortage"},
				{AccountID: cashJournal.DefaultAccountID, Credit: alloc.Shortage, Label: "Shift Shortage"},
			},
		})
		if err != nil {
			return database.CashSettlement{}, err
		}
		if err := led.PostEntry(ctx, entry.ID); err != nil {
			return database.CashSettlement{}, err
		}
		if _, err := store.CreateSettlementMove(ctx, database.CreateSettlementMoveParams{
			SettlementID: settlement.ID,
			EntryID:      entry.ID,
			MoveType:     enum.MoveTypeShortage,
		}); err != nil {
			return database.CashSettlement{}, fmt.Errorf("create settlement move: %w", err)
		}
	}

	if err := s.writeAuditLines(ctx, store, settlement.ID, entries); err != nil {
		return database.CashSettlement{}, err
	}

	submitted := cashTotal.Add(bankTotal)
	if err := store.SetCashSettlementSubmittedAmount(ctx, database.SetCashSettlementSubmittedAmountParams{
		ID:              settlement.ID,
		SubmittedAmount: decimalToNumeric(submitted),
	}); err != nil {
		return database.CashSettlement{}, fmt.Errorf("set submitted amount: %w", err)
	}

	entryIDs := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
	}
	if err := store.MarkClosingEntriesSettled(ctx, entryIDs); err != nil {
		return database.CashSettlement{}, fmt.Errorf("mark entries settled: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.CashSettlement{}, fmt.Errorf("commit tx: %w", err)
	}

	settlement.SubmittedAmount = decimalToNumeric(submitted)
	return settlement, nil
}

// writeAuditLines copies each sale line of the settled entries into
// settlement lines. Walk-in sales go to the default counter customer; the
// entry's DIP quantities ride on its first walk-in line so sale order
// grouping can net them off.
func (s *Service) writeAuditLines(ctx context.Context, store Store, settlementID uuid.UUID, entries []database.ClosingEntry) error {
	ids := make([]uuid.UUID, len(entries))
	entryByID := map[uuid.UUID]database.ClosingEntry{}
	for i, e := range entries {
		ids[i] = e.ID
		entryByID[e.ID] = e
	}

	walkin, err := store.ListWalkinSaleLines(ctx, ids)
	if err != nil {
		return fmt.Errorf("list walk-in lines: %w", err)
	}
	credit, err := store.ListCreditSaleLines(ctx, ids)
	if err != nil {
		return fmt.Errorf("list credit lines: %w", err)
	}
	loyalty, err := store.ListLoyaltySaleLines(ctx, ids)
	if err != nil {
		return fmt.Errorf("list loyalty lines: %w", err)
	}

	var defaultCustomer database.Customer
	if len(walkin) > 0 {
		defaultCustomer, err = store.GetDefaultCustomer(ctx)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNoDefaultCustomer
			}
			return fmt.Errorf("get default customer: %w", err)
		}
	}

	lineParams := func(e database.ClosingEntry, customerID uuid.UUID, saleType string, qty, price, amount pgtype.Numeric) database.CreateSettlementLineParams {
		return database.CreateSettlementLineParams{
			SettlementID:   settlementID,
			ClosingEntryID: e.ID,
			CustomerID:     customerID,
			ShiftID:        e.ShiftID,
			ShiftManagerID: e.ShiftManagerID,
			PumpID:         pgtype.UUID{Bytes: e.PumpID, Valid: true},
			NozzleID:       e.NozzleID,
			FuelProductID:  e.FuelProductID,
			Price:          price,
			Quantity:       qty,
			Amount:         amount,
			SaleType:       saleType,
			DipTakenQty:    decimalToNumeric(decimal.Zero),
			DipReturnedQty: decimalToNumeric(decimal.Zero),
		}
	}

	dipWritten := map[uuid.UUID]bool{}
	for _, l := range walkin {
		e := entryByID[l.ClosingEntryID]
		params := lineParams(e, defaultCustomer.ID, enum.SaleTypeWalkin, l.Quantity, l.Price, l.Amount)
		if !dipWritten[e.ID] {
			params.DipTakenQty = e.DipTakenQty
			params.DipReturnedQty = e.DipReturnedQty
			dipWritten[e.ID] = true
		}
		if _, err := store.CreateSettlementLine(ctx, params); err != nil {
			return fmt.Errorf("create walk-in settlement line: %w", err)
		}
	}
	for _, l := range credit {
		e := entryByID[l.ClosingEntryID]
		if _, err := store.CreateSettlementLine(ctx, lineParams(e, l.CustomerID, enum.SaleTypeCredit, l.Quantity, l.Price, l.Amount)); err != nil {
			return fmt.Errorf("create credit settlement line: %w", err)
		}
	}
	for _, l := range loyalty {
		e := entryByID[l.ClosingEntryID]
		if _, err := store.CreateSettlementLine(ctx, lineParams(e, l.CustomerID, enum.SaleTypeLoyalty, l.Quantity, l.Price, l.Amount)); err != nil {
			return fmt.Errorf("create loyalty settlement line: %w", err)
		}
	}
	return nil
}

// orderKey groups settlement lines that belong on one sale order.
type orderKey struct {
	saleType       string
	customerID     uuid.UUID
	fuelProductID  uuid.UUID
	nozzleID       uuid.UUID
	shiftManagerID uuid.UUID
}

type orderGroup struct {
	qty         decimal.Decimal
	price       decimal.Decimal
	dipTaken    decimal.Decimal
	dipReturned decimal.Decimal
	shiftMgr    pgtype.UUID
}

// CreateSaleOrders posts the settlement's pending payment lines and turns its
// audit lines into sale orders, one per customer, fuel, nozzle and shift
// manager combination. The settlement moves to SUBMITTED; re-submitting is
// rejected. With auto-confirm enabled each order is invoiced immediately.
func (s *Service) CreateSaleOrders(ctx context.Context, settlementID uuid.UUID) ([]database.SaleOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	led := ledger.New(store)

	settlement, err := store.GetCashSettlement(ctx, settlementID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettlementNotFound
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	if settlement.State == enum.SettlementStateSubmitted {
		return nil, ErrAlreadySubmitted
	}

	if err := s.postPaymentLines(ctx, store, led, settlement); err != nil {
		return nil, err
	}

	lines, err := store.ListSettlementLines(ctx, settlement.ID)
	if err != nil {
		return nil, fmt.Errorf("list settlement lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrNoSettlementLines
	}

	groups := map[orderKey]*orderGroup{}
	var order []orderKey
	for _, l := range lines {
		if l.CustomerID == uuid.Nil {
			return nil, ErrMissingCustomer
		}
		key := orderKey{
			saleType:      l.SaleType,
			customerID:    l.CustomerID,
			fuelProductID: l.FuelProductID,
			nozzleID:      l.NozzleID,
		}
		if l.ShiftManagerID.Valid {
			key.shiftManagerID = uuid.UUID(l.ShiftManagerID.Bytes)
		}
		g, ok := groups[key]
		if !ok {
			g = &orderGroup{price: numericToDecimal(l.Price), shiftMgr: l.ShiftManagerID}
			groups[key] = g
			order = append(order, key)
		}
		g.qty = g.qty.Add(numericToDecimal(l.Quantity))
		g.dipTaken = g.dipTaken.Add(numericToDecimal(l.DipTakenQty))
		g.dipReturned = g.dipReturned.Add(numericToDecimal(l.DipReturnedQty))
	}

	next, err := store.GetNextSaleOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get next order number: %w", err)
	}

	var orders []database.SaleOrder
	for _, key := range order {
		g := groups[key]
		qty := g.qty.Sub(g.dipTaken)
		if !qty.IsPositive() {
			continue
		}
		created, err := store.CreateSaleOrder(ctx, database.CreateSaleOrderParams{
			OrderNumber:    fmt.Sprintf("SO-%05d", next),
			SettlementID:   settlement.ID,
			CustomerID:     key.customerID,
			FuelProductID:  key.fuelProductID,
			NozzleID:       key.nozzleID,
			ShiftManagerID: g.shiftMgr,
			SaleType:       key.saleType,
			Quantity:       decimalToNumeric(qty),
			UnitPrice:      decimalToNumeric(g.price),
			DipTakenQty:    decimalToNumeric(g.dipTaken),
			DipReturnedQty: decimalToNumeric(g.dipReturned),
			State:          enum.SaleOrderStateDraft,
		})
		if err != nil {
			return nil, fmt.Errorf("create sale order: %w", err)
		}
		next++

		if s.cfg.AutoConfirmSale {
			created, err = s.confirmOrder(ctx, store, led, settlement, created)
			if err != nil {
				return nil, err
			}
		}
		orders = append(orders, created)
	}

	if err := store.SetCashSettlementState(ctx, database.SetCashSettlementStateParams{
		ID:    settlement.ID,
		State: enum.SettlementStateSubmitted,
	}); err != nil {
		return nil, fmt.Errorf("set settlement state: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return orders, nil
}

// postPaymentLines creates the real posted payments for payment lines that
// have none yet. Already-linked lines are left alone, so a retried submission
// never pays twice.
func (s *Service) postPaymentLines(ctx context.Context, store Store, led *ledger.Ledger, settlement database.CashSettlement) error {
	paymentLines, err := store.ListSettlementPaymentLines(ctx, settlement.ID)
	if err != nil {
		return fmt.Errorf("list payment lines: %w", err)
	}

	var defaultCustomer database.Customer
	haveCustomer := false

	for _, line := range paymentLines {
		if line.PaymentID.Valid {
			continue
		}
		amount := numericToDecimal(line.Amount)
		if !amount.IsPositive() {
			continue
		}
		if !haveCustomer {
			defaultCustomer, err = store.GetDefaultCustomer(ctx)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrNoDefaultCustomer
				}
				return fmt.Errorf("get default customer: %w", err)
			}
			haveCustomer = true
		}

		payment, err := led.CreatePayment(ctx, ledger.PaymentParams{
			JournalID:    line.JournalID,
			CustomerID:   defaultCustomer.ID,
			Amount:       amount,
			Date:         settlement.SettlementDate.Time,
			Ref:          line.Ref,
			SettlementID: pgtype.UUID{Bytes: settlement.ID, Valid: true},
			IsPettyCash:  line.PaymentType == enum.PaymentTypePettyCash,
		})
		if err != nil {
			return err
		}
		if err := store.LinkSettlementPaymentLine(ctx, database.LinkSettlementPaymentLineParams{
			ID:        line.ID,
			PaymentID: pgtype.UUID{Bytes: payment.ID, Valid: true},
		}); err != nil {
			return fmt.Errorf("link payment line: %w", err)
		}
	}
	return nil
}

// ConfirmOrder invoices a draft sale order: it posts the customer invoice,
// accrues loyalty points where allowed, and reconciles walk-in and loyalty
// invoices against the settlement's posted payments.
func (s *Service) ConfirmOrder(ctx context.Context, orderID uuid.UUID) (database.SaleOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.SaleOrder{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	led := ledger.New(store)

	order, err := store.GetSaleOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.SaleOrder{}, ErrOrderNotFound
		}
		return database.SaleOrder{}, fmt.Errorf("get sale order: %w", err)
	}
	settlement, err := store.GetCashSettlement(ctx, order.SettlementID)
	if err != nil {
		return database.SaleOrder{}, fmt.Errorf("get settlement: %w", err)
	}

	order, err = s.confirmOrder(ctx, store, led, settlement, order)
	if err != nil {
		return database.SaleOrder{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return database.SaleOrder{}, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

func (s *Service) confirmOrder(ctx context.Context, store Store, led *ledger.Ledger, settlement database.CashSettlement, order database.SaleOrder) (database.SaleOrder, error) {
	if order.State == enum.SaleOrderStateConfirmed {
		return order, nil
	}

	customer, err := store.GetCustomer(ctx, order.CustomerID)
	if err != nil {
		return database.SaleOrder{}, fmt.Errorf("get customer: %w", err)
	}
	saleJournal, err := store.GetSaleJournal(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.SaleOrder{}, ErrNoSaleJournal
		}
		return database.SaleOrder{}, fmt.Errorf("get sale journal: %w", err)
	}
	receivable, err := store.GetReceivableAccount(ctx)
	if err != nil {
		return database.SaleOrder{}, fmt.Errorf("get receivable account: %w", err)
	}
	income, err := store.GetFuelSalesAccount(ctx)
	if err != nil {
		return database.SaleOrder{}, fmt.Errorf("get fuel sales account: %w", err)
	}

	qty := numericToDecimal(order.Quantity)
	amount := qty.Mul(numericToDecimal(order.UnitPrice))

	invoice, err := led.CreateEntry(ctx, ledger.EntryParams{
		JournalID:    saleJournal.ID,
		Date:         settlement.SettlementDate.Time,
		Ref:          order.OrderNumber,
		Kind:         enum.EntryKindInvoice,
		SettlementID: pgtype.UUID{Bytes: settlement.ID, Valid: true},
		CustomerID:   pgtype.UUID{Bytes: order.CustomerID, Valid: true},
		SaleType:     pgtype.Text{String: order.SaleType, Valid: true},
		Lines: []ledger.Line{
			{AccountID: receivable.ID, Debit: amount, Label: order.OrderNumber},
			{AccountID: income.ID, Credit: amount, Label: order.OrderNumber},
		},
	})
	if err != nil {
		return database.SaleOrder{}, err
	}
	if err := led.PostEntry(ctx, invoice.ID); err != nil {
		return database.SaleOrder{}, err
	}

	if err := store.ConfirmSaleOrder(ctx, database.ConfirmSaleOrderParams{
		ID:        order.ID,
		InvoiceID: pgtype.UUID{Bytes: invoice.ID, Valid: true},
	}); err != nil {
		return database.SaleOrder{}, fmt.Errorf("confirm sale order: %w", err)
	}

	if customer.IsLoyaltyCustomer {
		earns := order.SaleType == enum.SaleTypeLoyalty ||
			(order.SaleType == enum.SaleTypeCredit && s.cfg.CreditLoyaltyAllowed)
		if earns {
			if err := store.AddLoyaltyPoints(ctx, database.AddLoyaltyPointsParams{
				ID:     customer.ID,
				Points: decimalToNumeric(qty),
			}); err != nil {
				return database.SaleOrder{}, fmt.Errorf("add loyalty points: %w", err)
			}
		}
	}

	// Credit invoices stay open until the customer actually pays; the funds
	// submitted at settlement only cover walk-in and loyalty sales.
	if order.SaleType != enum.SaleTypeCredit {
		if err := s.reconcileInvoice(ctx, led, invoice.ID, settlement.ID, receivable.ID); err != nil {
			return database.SaleOrder{}, err
		}
	}

	order.State = enum.SaleOrderStateConfirmed
	order.InvoiceID = pgtype.UUID{Bytes: invoice.ID, Valid: true}
	return order, nil
}

// reconcileInvoice pairs the invoice's open receivable line with the first
// matching open payment line of the settlement. Petty cash payments never
// settle invoices. Missing lines are skipped silently; an invoice that finds
// no counterpart simply stays open.
func (s *Service) reconcileInvoice(ctx context.Context, led *ledger.Ledger, invoiceEntryID, settlementID, receivableAccountID uuid.UUID) error {
	invLines, err := led.EntryLines(ctx, invoiceEntryID)
	if err != nil {
		return fmt.Errorf("list invoice lines: %w", err)
	}
	var invLine *database.JournalLine
	for i := range invLines {
		l := &invLines[i]
		if l.AccountID == receivableAccountID && !l.Reconciled && numericToDecimal(l.Debit).IsPositive() {
			invLine = l
			break
		}
	}
	if invLine == nil {
		return nil
	}

	payments, err := led.PaymentsBySettlement(ctx, settlementID, true)
	if err != nil {
		return fmt.Errorf("list settlement payments: %w", err)
	}
	for _, p := range payments {
		if !p.EntryID.Valid {
			continue
		}
		payLines, err := led.EntryLines(ctx, uuid.UUID(p.EntryID.Bytes))
		if err != nil {
			return fmt.Errorf("list payment lines: %w", err)
		}
		for _, pl := range payLines {
			if pl.AccountID == receivableAccountID && !pl.Reconciled && numericToDecimal(pl.Credit).IsPositive() {
				return led.Reconcile(ctx, invLine.ID, pl.ID)
			}
		}
	}
	return nil
}

// PettyCashRequest allocates float to an employee out of the cash box.
type PettyCashRequest struct {
	EmployeeID uuid.UUID
	Amount     decimal.Decimal
	Date       time.Time
	Note       string
}

// AllocatePettyCash hands cash float to an employee, creating their petty
// cash account on first use.
func (s *Service) AllocatePettyCash(ctx context.Context, req PettyCashRequest) (database.JournalEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return database.JournalEntry{}, ErrInvalidAmount
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.JournalEntry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	led := ledger.New(store)

	employee, err := store.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.JournalEntry{}, ErrEmployeeNotFound
		}
		return database.JournalEntry{}, fmt.Errorf("get employee: %w", err)
	}

	if !employee.PettyCashAccountID.Valid {
		account, err := store.CreateAccount(ctx, database.CreateAccountParams{
			Code:        "PC-" + employee.ID.String()[:8],
			Name:        "Petty Cash - " + employee.Name,
			AccountType: enum.AccountTypeCash,
		})
		if err != nil {
			return database.JournalEntry{}, fmt.Errorf("create petty cash account: %w", err)
		}
		if err := store.SetEmployeePettyCashAccount(ctx, database.SetEmployeePettyCashAccountParams{
			ID:                 employee.ID,
			PettyCashAccountID: pgtype.UUID{Bytes: account.ID, Valid: true},
		}); err != nil {
			return database.JournalEntry{}, fmt.Errorf("link petty cash account: %w", err)
		}
		employee.PettyCashAccountID = pgtype.UUID{Bytes: account.ID, Valid: true}
	}

	cashJournal, err := store.GetCashJournal(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.JournalEntry{}, ErrNoCashJournal
		}
		return database.JournalEntry{}, fmt.Errorf("get cash journal: %w", err)
	}

	ref := "Petty Cash Allocation"
	if req.Note != "" {
		ref = ref + " / " + req.Note
	}
	entry, err := led.CreateEntry(ctx, ledger.EntryParams{
		JournalID: cashJournal.ID,
		Date:      req.Date,
		Ref:       ref,
		Lines: []ledger.Line{
			{AccountID: uuid.UUID(employee.PettyCashAccountID.Bytes), Debit: req.Amount, Label: ref},
			{AccountID: cashJournal.DefaultAccountID, Credit: req.Amount, Label: ref},
		},
	})
	if err != nil {
		return database.JournalEntry{}, err
	}
	if err := led.PostEntry(ctx, entry.ID); err != nil {
		return database.JournalEntry{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return database.JournalEntry{}, fmt.Errorf("commit tx: %w", err)
	}
	return entry, nil
}

// PettyCashBalance resolves the actor's employee and returns their current
// float balance.
func (s *Service) PettyCashBalance(ctx context.Context, actor Actor) (decimal.Decimal, database.Employee, error) {
	employee, err := s.resolveEmployee(ctx, s.store, actor)
	if err != nil {
		return decimal.Zero, database.Employee{}, err
	}
	led := ledger.New(s.store)
	balance, err := led.EmployeePettyCashBalance(ctx, employee)
	if err != nil {
		return decimal.Zero, database.Employee{}, err
	}
	return balance, employee, nil
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
