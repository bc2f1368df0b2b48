package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stationbooks/api/internal/database"
	"github.com/stationbooks/api/internal/enum"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr   error
	rollbackErr error
	committed   bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitErr == nil {
		m.committed = true
	}
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error { return m.rollbackErr }
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// fakeStore is an in-memory Store. Settlement flows touch too many queries
// for per-method function mocks to stay readable, so tests drive the real
// service logic against this fake and assert on the resulting records.
type fakeStore struct {
	employees       map[uuid.UUID]database.Employee
	customers       map[uuid.UUID]database.Customer
	shifts          []database.Shift
	pumps           []database.Pump
	nozzles         []database.Nozzle
	fuels           []database.FuelProduct
	accounts        map[uuid.UUID]database.Account
	journals        map[uuid.UUID]database.Journal
	journalEntries  map[uuid.UUID]database.JournalEntry
	journalLines    []database.JournalLine
	payments        []database.Payment
	closingEntries  map[uuid.UUID]database.ClosingEntry
	walkinLines     []database.WalkinSaleLine
	creditLines     []database.CreditSaleLine
	loyaltyLines    []database.LoyaltySaleLine
	settlements     map[uuid.UUID]database.CashSettlement
	settlementLines []database.SettlementLine
	paymentLines    []database.SettlementPaymentLine
	moves           []database.SettlementMove
	saleOrders      map[uuid.UUID]database.SaleOrder
	orderIDs        []uuid.UUID
	pointsAdded     map[uuid.UUID]decimal.Decimal

	failWalkinLine  error
	failCreditLine  error
	failLoyaltyLine error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees:      map[uuid.UUID]database.Employee{},
		customers:      map[uuid.UUID]database.Customer{},
		accounts:       map[uuid.UUID]database.Account{},
		journals:       map[uuid.UUID]database.Journal{},
		journalEntries: map[uuid.UUID]database.JournalEntry{},
		closingEntries: map[uuid.UUID]database.ClosingEntry{},
		settlements:    map[uuid.UUID]database.CashSettlement{},
		saleOrders:     map[uuid.UUID]database.SaleOrder{},
		pointsAdded:    map[uuid.UUID]decimal.Decimal{},
	}
}

func (f *fakeStore) GetEmployee(ctx context.Context, id uuid.UUID) (database.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return database.Employee{}, pgx.ErrNoRows
	}
	return e, nil
}

func (f *fakeStore) GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (database.Employee, error) {
	for _, e := range f.employees {
		if e.UserID.Valid && uuid.UUID(e.UserID.Bytes) == userID {
			return e, nil
		}
	}
	return database.Employee{}, pgx.ErrNoRows
}

func (f *fakeStore) SetEmployeePettyCashAccount(ctx context.Context, arg database.SetEmployeePettyCashAccountParams) error {
	e := f.employees[arg.ID]
	e.PettyCashAccountID = arg.PettyCashAccountID
	f.employees[arg.ID] = e
	return nil
}

func (f *fakeStore) GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return database.Customer{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeStore) GetDefaultCustomer(ctx context.Context) (database.Customer, error) {
	for _, c := range f.customers {
		if c.IsDefaultCustomer {
			return c, nil
		}
	}
	return database.Customer{}, pgx.ErrNoRows
}

func (f *fakeStore) AddLoyaltyPoints(ctx context.Context, arg database.AddLoyaltyPointsParams) error {
	f.pointsAdded[arg.ID] = f.pointsAdded[arg.ID].Add(numericToDecimal(arg.Points))
	return nil
}

func (f *fakeStore) GetShift(ctx context.Context, id uuid.UUID) (database.Shift, error) {
	for _, s := range f.shifts {
		if s.ID == id {
			return s, nil
		}
	}
	return database.Shift{}, pgx.ErrNoRows
}

func (f *fakeStore) ListShifts(ctx context.Context) ([]database.Shift, error)     { return f.shifts, nil }
func (f *fakeStore) ListPumps(ctx context.Context) ([]database.Pump, error)       { return f.pumps, nil }
func (f *fakeStore) ListNozzles(ctx context.Context) ([]database.Nozzle, error)   { return f.nozzles, nil }
func (f *fakeStore) ListFuelProducts(ctx context.Context) ([]database.FuelProduct, error) {
	return f.fuels, nil
}

func (f *fakeStore) CreateAccount(ctx context.Context, arg database.CreateAccountParams) (database.Account, error) {
	a := database.Account{ID: uuid.New(), Code: arg.Code, Name: arg.Name, AccountType: arg.AccountType}
	f.accounts[a.ID] = a
	return a, nil
}

func (f *fakeStore) GetJournal(ctx context.Context, id uuid.UUID) (database.Journal, error) {
	j, ok := f.journals[id]
	if !ok {
		return database.Journal{}, pgx.ErrNoRows
	}
	return j, nil
}

func (f *fakeStore) journalByType(journalType string) (database.Journal, error) {
	for _, j := range f.journals {
		if j.JournalType == journalType {
			return j, nil
		}
	}
	return database.Journal{}, pgx.ErrNoRows
}

func (f *fakeStore) GetCashJournal(ctx context.Context) (database.Journal, error) {
	return f.journalByType(enum.JournalTypeCash)
}

func (f *fakeStore) GetSaleJournal(ctx context.Context) (database.Journal, error) {
	return f.journalByType(enum.JournalTypeSale)
}

func (f *fakeStore) accountByType(accountType string) (database.Account, error) {
	for _, a := range f.accounts {
		if a.AccountType == accountType {
			return a, nil
		}
	}
	return database.Account{}, pgx.ErrNoRows
}

func (f *fakeStore) GetReceivableAccount(ctx context.Context) (database.Account, error) {
	return f.accountByType(enum.AccountTypeReceivable)
}

func (f *fakeStore) GetFuelSalesAccount(ctx context.Context) (database.Account, error) {
	return f.accountByType(enum.AccountTypeIncome)
}

func (f *fakeStore) CreateJournalEntry(ctx context.Context, arg database.CreateJournalEntryParams) (database.JournalEntry, error) {
	e := database.JournalEntry{
		ID:           uuid.New(),
		JournalID:    arg.JournalID,
		EntryDate:    arg.EntryDate,
		Ref:          arg.Ref,
		Kind:         arg.Kind,
		State:        arg.State,
		SettlementID: arg.SettlementID,
		CustomerID:   arg.CustomerID,
		SaleType:     arg.SaleType,
	}
	f.journalEntries[e.ID] = e
	return e, nil
}

func (f *fakeStore) CreateJournalLine(ctx context.Context, arg database.CreateJournalLineParams) (database.JournalLine, error) {
	l := database.JournalLine{
		ID:        uuid.New(),
		EntryID:   arg.EntryID,
		AccountID: arg.AccountID,
		Debit:     arg.Debit,
		Credit:    arg.Credit,
		Label:     arg.Label,
	}
	f.journalLines = append(f.journalLines, l)
	return l, nil
}

func (f *fakeStore) PostJournalEntry(ctx context.Context, id uuid.UUID) error {
	e := f.journalEntries[id]
	e.State = enum.EntryStatePosted
	f.journalEntries[id] = e
	return nil
}

func (f *fakeStore) ListJournalLinesByEntry(ctx context.Context, entryID uuid.UUID) ([]database.JournalLine, error) {
	var out []database.JournalLine
	for _, l := range f.journalLines {
		if l.EntryID == entryID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkJournalLinesReconciled(ctx context.Context, ids []uuid.UUID) error {
	for i := range f.journalLines {
		for _, id := range ids {
			if f.journalLines[i].ID == id {
				f.journalLines[i].Reconciled = true
			}
		}
	}
	return nil
}

func (f *fakeStore) AccountBalance(ctx context.Context, accountID uuid.UUID) (pgtype.Numeric, error) {
	balance := decimal.Zero
	for _, l := range f.journalLines {
		if l.AccountID != accountID {
			continue
		}
		if f.journalEntries[l.EntryID].State != enum.EntryStatePosted {
			continue
		}
		balance = balance.Add(numericToDecimal(l.Debit)).Sub(numericToDecimal(l.Credit))
	}
	return makeNumeric(balance.StringFixed(2)), nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
	p := database.Payment{
		ID:           uuid.New(),
		JournalID:    arg.JournalID,
		CustomerID:   arg.CustomerID,
		Amount:       arg.Amount,
		PaymentDate:  arg.PaymentDate,
		Ref:          arg.Ref,
		State:        arg.State,
		IsPettyCash:  arg.IsPettyCash,
		SettlementID: arg.SettlementID,
		EntryID:      arg.EntryID,
	}
	f.payments = append(f.payments, p)
	return p, nil
}

func (f *fakeStore) ListPostedPaymentsBySettlement(ctx context.Context, arg database.ListPostedPaymentsBySettlementParams) ([]database.Payment, error) {
	var out []database.Payment
	for _, p := range f.payments {
		if p.SettlementID != arg.SettlementID || p.State != enum.EntryStatePosted {
			continue
		}
		if numericToDecimal(p.Amount).IsZero() {
			continue
		}
		if arg.ExcludePettyCash && p.IsPettyCash {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) GetNozzle(ctx context.Context, id uuid.UUID) (database.Nozzle, error) {
	for _, n := range f.nozzles {
		if n.ID == id {
			return n, nil
		}
	}
	return database.Nozzle{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateClosingEntry(ctx context.Context, arg database.CreateClosingEntryParams) (database.ClosingEntry, error) {
	e := database.ClosingEntry{
		ID:              uuid.New(),
		PumpID:          arg.PumpID,
		NozzleID:        arg.NozzleID,
		ShiftID:         arg.ShiftID,
		ShiftManagerID:  arg.ShiftManagerID,
		FuelProductID:   arg.FuelProductID,
		EmployeeID:      arg.EmployeeID,
		Price:           arg.Price,
		StartReading:    arg.StartReading,
		EndReading:      arg.EndReading,
		DipTakenQty:     arg.DipTakenQty,
		DipReturnedQty:  arg.DipReturnedQty,
		TotalSaleAmount: arg.TotalSaleAmount,
		State:           arg.State,
	}
	f.closingEntries[e.ID] = e
	return e, nil
}

func (f *fakeStore) CreateWalkinSaleLine(ctx context.Context, arg database.CreateWalkinSaleLineParams) (database.WalkinSaleLine, error) {
	if f.failWalkinLine != nil {
		return database.WalkinSaleLine{}, f.failWalkinLine
	}
	l := database.WalkinSaleLine{
		ID:             uuid.New(),
		ClosingEntryID: arg.ClosingEntryID,
		Quantity:       arg.Quantity,
		Price:          arg.Price,
		Amount:         arg.Amount,
	}
	f.walkinLines = append(f.walkinLines, l)
	return l, nil
}

func (f *fakeStore) CreateCreditSaleLine(ctx context.Context, arg database.CreateCreditSaleLineParams) (database.CreditSaleLine, error) {
	if f.failCreditLine != nil {
		return database.CreditSaleLine{}, f.failCreditLine
	}
	l := database.CreditSaleLine{
		ID:             uuid.New(),
		ClosingEntryID: arg.ClosingEntryID,
		CustomerID:     arg.CustomerID,
		VehicleNo:      arg.VehicleNo,
		Quantity:       arg.Quantity,
		Price:          arg.Price,
		Amount:         arg.Amount,
	}
	f.creditLines = append(f.creditLines, l)
	return l, nil
}

func (f *fakeStore) CreateLoyaltySaleLine(ctx context.Context, arg database.CreateLoyaltySaleLineParams) (database.LoyaltySaleLine, error) {
	if f.failLoyaltyLine != nil {
		return database.LoyaltySaleLine{}, f.failLoyaltyLine
	}
	l := database.LoyaltySaleLine{
		ID:             uuid.New(),
		ClosingEntryID: arg.ClosingEntryID,
		CustomerID:     arg.CustomerID,
		Quantity:       arg.Quantity,
		Price:          arg.Price,
		Amount:         arg.Amount,
	}
	f.loyaltyLines = append(f.loyaltyLines, l)
	return l, nil
}

func (f *fakeStore) ListOpenClosingEntries(ctx context.Context, arg database.ListOpenClosingEntriesParams) ([]database.ClosingEntry, error) {
	var out []database.ClosingEntry
	for _, e := range f.closingEntries {
		if e.EmployeeID == arg.EmployeeID && e.State == enum.ClosingEntryStateOpen {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) LockClosingEntriesForSettlement(ctx context.Context, ids []uuid.UUID) ([]database.ClosingEntry, error) {
	var out []database.ClosingEntry
	for _, id := range ids {
		e, ok := f.closingEntries[id]
		if ok && e.State != enum.ClosingEntryStateSettled {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkClosingEntriesSettled(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		e := f.closingEntries[id]
		e.State = enum.ClosingEntryStateSettled
		f.closingEntries[id] = e
	}
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (f *fakeStore) ListWalkinSaleLines(ctx context.Context, ids []uuid.UUID) ([]database.WalkinSaleLine, error) {
	var out []database.WalkinSaleLine
	for _, l := range f.walkinLines {
		if containsID(ids, l.ClosingEntryID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCreditSaleLines(ctx context.Context, ids []uuid.UUID) ([]database.CreditSaleLine, error) {
	var out []database.CreditSaleLine
	for _, l := range f.creditLines {
		if containsID(ids, l.ClosingEntryID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) ListLoyaltySaleLines(ctx context.Context, ids []uuid.UUID) ([]database.LoyaltySaleLine, error) {
	var out []database.LoyaltySaleLine
	for _, l := range f.loyaltyLines {
		if containsID(ids, l.ClosingEntryID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateCashSettlement(ctx context.Context, arg database.CreateCashSettlementParams) (database.CashSettlement, error) {
	s := database.CashSettlement{
		ID:              uuid.New(),
		EmployeeID:      arg.EmployeeID,
		ShiftID:         arg.ShiftID,
		SettlementDate:  arg.SettlementDate,
		ExpectedAmount:  arg.ExpectedAmount,
		SubmittedAmount: arg.SubmittedAmount,
		State:           arg.State,
	}
	f.settlements[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetCashSettlement(ctx context.Context, id uuid.UUID) (database.CashSettlement, error) {
	s, ok := f.settlements[id]
	if !ok {
		return database.CashSettlement{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeStore) SetCashSettlementState(ctx context.Context, arg database.SetCashSettlementStateParams) error {
	s := f.settlements[arg.ID]
	s.State = arg.State
	f.settlements[arg.ID] = s
	return nil
}

func (f *fakeStore) SetCashSettlementSubmittedAmount(ctx context.Context, arg database.SetCashSettlementSubmittedAmountParams) error {
	s := f.settlements[arg.ID]
	s.SubmittedAmount = arg.SubmittedAmount
	f.settlements[arg.ID] = s
	return nil
}

func (f *fakeStore) CreateSettlementLine(ctx context.Context, arg database.CreateSettlementLineParams) (database.SettlementLine, error) {
	l := database.SettlementLine{
		ID:             uuid.New(),
		SettlementID:   arg.SettlementID,
		ClosingEntryID: arg.ClosingEntryID,
		CustomerID:     arg.CustomerID,
		ShiftID:        arg.ShiftID,
		ShiftManagerID: arg.ShiftManagerID,
		PumpID:         arg.PumpID,
		NozzleID:       arg.NozzleID,
		FuelProductID:  arg.FuelProductID,
		Price:          arg.Price,
		Quantity:       arg.Quantity,
		Amount:         arg.Amount,
		SaleType:       arg.SaleType,
		DipTakenQty:    arg.DipTakenQty,
		DipReturnedQty: arg.DipReturnedQty,
	}
	f.settlementLines = append(f.settlementLines, l)
	return l, nil
}

func (f *fakeStore) ListSettlementLines(ctx context.Context, settlementID uuid.UUID) ([]database.SettlementLine, error) {
	var out []database.SettlementLine
	for _, l := range f.settlementLines {
		if l.SettlementID == settlementID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateSettlementPaymentLine(ctx context.Context, arg database.CreateSettlementPaymentLineParams) (database.SettlementPaymentLine, error) {
	l := database.SettlementPaymentLine{
		ID:           uuid.New(),
		SettlementID: arg.SettlementID,
		JournalID:    arg.JournalID,
		Ref:          arg.Ref,
		Amount:       arg.Amount,
		PaymentType:  arg.PaymentType,
		State:        arg.State,
	}
	f.paymentLines = append(f.paymentLines, l)
	return l, nil
}

func (f *fakeStore) ListSettlementPaymentLines(ctx context.Context, settlementID uuid.UUID) ([]database.SettlementPaymentLine, error) {
	var out []database.SettlementPaymentLine
	for _, l := range f.paymentLines {
		if l.SettlementID == settlementID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) LinkSettlementPaymentLine(ctx context.Context, arg database.LinkSettlementPaymentLineParams) error {
	for i := range f.paymentLines {
		if f.paymentLines[i].ID == arg.ID {
			f.paymentLines[i].PaymentID = arg.PaymentID
			f.paymentLines[i].State = enum.PaymentLineStatePosted
		}
	}
	return nil
}

func (f *fakeStore) CreateSettlementMove(ctx context.Context, arg database.CreateSettlementMoveParams) (database.SettlementMove, error) {
	m := database.SettlementMove{
		ID:           uuid.New(),
		SettlementID: arg.SettlementID,
		EntryID:      arg.EntryID,
		MoveType:     arg.MoveType,
	}
	f.moves = append(f.moves, m)
	return m, nil
}

func (f *fakeStore) GetNextSaleOrderNumber(ctx context.Context) (int32, error) {
	return int32(len(f.saleOrders)) + 1, nil
}

func (f *fakeStore) CreateSaleOrder(ctx context.Context, arg database.CreateSaleOrderParams) (database.SaleOrder, error) {
	o := database.SaleOrder{
		ID:             uuid.New(),
		OrderNumber:    arg.OrderNumber,
		SettlementID:   arg.SettlementID,
		CustomerID:     arg.CustomerID,
		FuelProductID:  arg.FuelProductID,
		NozzleID:       arg.NozzleID,
		ShiftManagerID: arg.ShiftManagerID,
		SaleType:       arg.SaleType,
		Quantity:       arg.Quantity,
		UnitPrice:      arg.UnitPrice,
		DipTakenQty:    arg.DipTakenQty,
		DipReturnedQty: arg.DipReturnedQty,
		State:          arg.State,
	}
	f.saleOrders[o.ID] = o
	f.orderIDs = append(f.orderIDs, o.ID)
	return o, nil
}

func (f *fakeStore) GetSaleOrder(ctx context.Context, id uuid.UUID) (database.SaleOrder, error) {
	o, ok := f.saleOrders[id]
	if !ok {
		return database.SaleOrder{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeStore) ListSaleOrdersBySettlement(ctx context.Context, settlementID uuid.UUID) ([]database.SaleOrder, error) {
	var out []database.SaleOrder
	for _, id := range f.orderIDs {
		if f.saleOrders[id].SettlementID == settlementID {
			out = append(out, f.saleOrders[id])
		}
	}
	return out, nil
}

func (f *fakeStore) ConfirmSaleOrder(ctx context.Context, arg database.ConfirmSaleOrderParams) error {
	o := f.saleOrders[arg.ID]
	o.State = enum.SaleOrderStateConfirmed
	o.InvoiceID = arg.InvoiceID
	f.saleOrders[arg.ID] = o
	return nil
}

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	exp, _ := decimal.NewFromString(expected)
	return numericToDecimal(n).Equal(exp)
}

// fixture is a fully wired station: one employee with a petty cash float
// account, the master ledger accounts and journals, and one shift.
type fixture struct {
	store           *fakeStore
	userID          uuid.UUID
	employee        database.Employee
	employeeAccount uuid.UUID
	cashJournal     database.Journal
	bankJournal     database.Journal
	shift           database.Shift
	fuel            database.FuelProduct
	pump            database.Pump
	nozzle          database.Nozzle
	walkinCustomer  database.Customer
}

func newFixture() *fixture {
	f := &fixture{store: newFakeStore()}
	f.userID = uuid.New()

	cashAccount := database.Account{ID: uuid.New(), Code: "1000", Name: "Cash", AccountType: enum.AccountTypeCash}
	bankAccount := database.Account{ID: uuid.New(), Code: "1100", Name: "Bank", AccountType: enum.AccountTypeCash}
	receivable := database.Account{ID: uuid.New(), Code: "1200", Name: "Receivable", AccountType: enum.AccountTypeReceivable}
	income := database.Account{ID: uuid.New(), Code: "4000", Name: "Fuel Sales", AccountType: enum.AccountTypeIncome}
	pettyAccount := database.Account{ID: uuid.New(), Code: "PC-1", Name: "Petty Cash", AccountType: enum.AccountTypeCash}
	for _, a := range []database.Account{cashAccount, bankAccount, receivable, income, pettyAccount} {
		f.store.accounts[a.ID] = a
	}
	f.employeeAccount = pettyAccount.ID

	f.cashJournal = database.Journal{ID: uuid.New(), Name: "Cash", JournalType: enum.JournalTypeCash, DefaultAccountID: cashAccount.ID}
	f.bankJournal = database.Journal{ID: uuid.New(), Name: "Bank", JournalType: enum.JournalTypeBank, DefaultAccountID: bankAccount.ID}
	saleJournal := database.Journal{ID: uuid.New(), Name: "Sales", JournalType: enum.JournalTypeSale, DefaultAccountID: income.ID}
	for _, j := range []database.Journal{f.cashJournal, f.bankJournal, saleJournal} {
		f.store.journals[j.ID] = j
	}

	f.employee = database.Employee{
		ID:                 uuid.New(),
		UserID:             pgtype.UUID{Bytes: f.userID, Valid: true},
		Name:               "Ravi",
		PettyCashAccountID: pgtype.UUID{Bytes: pettyAccount.ID, Valid: true},
	}
	f.store.employees[f.employee.ID] = f.employee

	f.walkinCustomer = database.Customer{ID: uuid.New(), Name: "Walk-in Counter", IsDefaultCustomer: true}
	f.store.customers[f.walkinCustomer.ID] = f.walkinCustomer

	f.shift = database.Shift{ID: uuid.New(), Name: "Morning", Sequence: 1}
	f.store.shifts = []database.Shift{f.shift}
	f.fuel = database.FuelProduct{ID: uuid.New(), Name: "Diesel", UnitPrice: makeNumeric("90.00")}
	f.store.fuels = []database.FuelProduct{f.fuel}
	f.pump = database.Pump{ID: uuid.New(), Name: "Pump 1"}
	f.store.pumps = []database.Pump{f.pump}
	f.nozzle = database.Nozzle{ID: uuid.New(), Name: "N1", PumpID: f.pump.ID, FuelProductID: f.fuel.ID}
	f.store.nozzles = []database.Nozzle{f.nozzle}

	return f
}

// addClosingEntry records an open closing entry with one walk-in line
// covering the full amount.
func (f *fixture) addClosingEntry(qty, price, total string) database.ClosingEntry {
	e := database.ClosingEntry{
		ID:              uuid.New(),
		PumpID:          f.pump.ID,
		NozzleID:        f.nozzle.ID,
		ShiftID:         f.shift.ID,
		FuelProductID:   f.fuel.ID,
		EmployeeID:      f.employee.ID,
		Price:           makeNumeric(price),
		DipTakenQty:     makeNumeric("0"),
		DipReturnedQty:  makeNumeric("0"),
		TotalSaleAmount: makeNumeric(total),
		State:           enum.ClosingEntryStateOpen,
	}
	f.store.closingEntries[e.ID] = e
	f.store.walkinLines = append(f.store.walkinLines, database.WalkinSaleLine{
		ID:             uuid.New(),
		ClosingEntryID: e.ID,
		Quantity:       makeNumeric(qty),
		Price:          makeNumeric(price),
		Amount:         makeNumeric(total),
	})
	return e
}

func (f *fixture) service(cfg Config) (*Service, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	newStore := func(db database.DBTX) Store { return f.store }
	return NewService(f.store, pool, newStore, cfg), tx
}

func (f *fixture) actor() Actor {
	return Actor{UserID: f.userID}
}

// --- Tests ---

func TestSubmitReturnsExcessAsPettyCash(t *testing.T) {
	fx := newFixture()
	entry := fx.addClosingEntry("11.11", "90.00", "1000")
	svc, tx := fx.service(Config{})

	settlement, err := svc.Submit(context.Background(), SubmitRequest{
		Actor:           fx.actor(),
		ClosingEntryIDs: []uuid.UUID{entry.ID},
		ShiftID:         fx.shift.ID,
		Date:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Payments: []PaymentInput{
			{JournalID: fx.bankJournal.ID, Amount: d("600")},
			{JournalID: fx.cashJournal.ID, Amount: d("500")},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !tx.committed {
		t.Fatal("transaction not committed")
	}
	if !numericEquals(settlement.ExpectedAmount, "1000") {
		t.Errorf("expected amount = %v, want 1000", settlement.ExpectedAmount)
	}
	if !numericEquals(settlement.SubmittedAmount, "1100") {
		t.Errorf("submitted amount = %v, want 1100", settlement.SubmittedAmount)
	}

	lines := fx.store.paymentLines
	if len(lines) != 3 {
		t.Fatalf("got %d payment lines, want 3", len(lines))
	}
	byType := map[string]decimal.Decimal{}
	for _, l := range lines {
		byType[l.PaymentType] = byType[l.PaymentType].Add(numericToDecimal(l.Amount))
	}
	if !byType[enum.PaymentTypeShift].Equal(d("1000")) {
		t.Errorf("shift payment lines total %s, want 1000", byType[enum.PaymentTypeShift])
	}
	if !byType[enum.PaymentTypePettyCash].Equal(d("100")) {
		t.Errorf("petty cash payment line total %s, want 100", byType[enum.PaymentTypePettyCash])
	}

	if len(fx.store.moves) != 1 || fx.store.moves[0].MoveType != enum.MoveTypePettyReturn {
		t.Fatalf("moves = %+v, want one PETTY_RETURN", fx.store.moves)
	}
	moveEntry := fx.store.journalEntries[fx.store.moves[0].EntryID]
	if moveEntry.State != enum.EntryStatePosted {
		t.Errorf("corrective entry state = %s, want POSTED", moveEntry.State)
	}
	moveLines, _ := fx.store.ListJournalLinesByEntry(context.Background(), moveEntry.ID)
	var creditedEmployee bool
	for _, l := range moveLines {
		if l.AccountID == fx.employeeAccount && numericEquals(l.Credit, "100") {
			creditedEmployee = true
		}
	}
	if !creditedEmployee {
		t.Error("petty cash return did not credit the employee float account for 100")
	}

	if fx.store.closingEntries[entry.ID].State != enum.ClosingEntryStateSettled {
		t.Error("closing entry not marked settled")
	}
	if len(fx.store.settlementLines) != 1 {
		t.Errorf("got %d settlement lines, want 1", len(fx.store.settlementLines))
	}
	if fx.store.settlementLines[0].CustomerID != fx.walkinCustomer.ID {
		t.Error("walk-in settlement line not assigned to the default customer")
	}
}

func TestSubmitRecordsShortage(t *testing.T) {
	fx := newFixture()
	entry := fx.addClosingEntry("11.11", "90.00", "1000")
	svc, _ := fx.service(Config{})

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Actor:           fx.actor(),
		ClosingEntryIDs: []uuid.UUID{entry.ID},
		ShiftID:         fx.shift.ID,
		Payments: []PaymentInput{
			{JournalID: fx.bankJournal.ID, Amount: d("600")},
			{JournalID: fx.cashJournal.ID, Amount: d("300")},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(fx.store.moves) != 1 || fx.store.moves[0].MoveType != enum.MoveTypeShortage {
		t.Fatalf("moves = %+v, want one SHORTAGE", fx.store.moves)
	}
	moveLines, _ := fx.store.ListJournalLinesByEntry(context.Background(), fx.store.moves[0].EntryID)
	var debitedEmployee bool
	for _, l := range moveLines {
		if l.AccountID == fx.employeeAccount && numericEquals(l.Debit, "100") {
			debitedEmployee = true
		}
	}
	if !debitedEmployee {
		t.Error("shortage did not debit the employee float account for 100")
	}
	for _, l := range fx.store.paymentLines {
		if l.PaymentType == enum.PaymentTypePettyCash {
			t.Error("shortage settlement must not create a petty cash payment line")
		}
	}
}

func TestSubmitExactBalanceCreatesNoCorrection(t *testing.T) {
	fx := newFixture()
	entry := fx.addClosingEntry("11.11", "90.00", "1000")
	svc, _ := fx.service(Config{})

	settlement, err := svc.Submit(context.Background(), SubmitRequest{
		Actor:           fx.actor(),
		ClosingEntryIDs: []uuid.UUID{entry.ID},
		ShiftID:         fx.shift.ID,
		Payments:        []PaymentInput{{JournalID: fx.cashJournal.ID, Amount: d("1000")}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(fx.store.moves) != 0 {
		t.Errorf("got %d corrective moves, want 0", len(fx.store.moves))
	}
	if !numericEquals(settlement.SubmittedAmount, "1000") {
		t.Errorf("submitted amount = %v, want 1000", settlement.SubmittedAmount)
	}
	if len(fx.store.paymentLines) != 1 {
		t.Errorf("got %d payment lines, want 1", len(fx.store.paymentLines))
	}
}

func TestSubmitRejectsSettledEntries(t *testing.T) {
	fx := newFixture()
	entry := fx.addClosingEntry("11.11", "90.00", "1000")
	settled := fx.store.closingEntries[entry.ID]
	settled.State = enum.ClosingEntryStateSettled
	fx.store.closingEntries[entry.ID] = settled

	svc, _ := fx.service(Config{})
	_, err := svc.Submit(context.Background(), SubmitRequest{
		Actor:           fx.actor(),
		ClosingEntryIDs: []uuid.UUID{entry.ID},
		ShiftID:         fx.shift.ID,
		Payments:        []PaymentInput{{JournalID: fx.cashJournal.ID, Amount: d("1000")}},
	})
	if !errors.Is(err, ErrEntriesSettled) {
		t.Errorf("err = %v, want ErrEntriesSettled", err)
	}
}

func TestSubmitSkipsSettledEntriesInBatch(t *testing.T) {
	fx := newFixture()
	open := fx.addClosingEntry("5", "90.00", "450")
	gone := fx.addClosingEntry("5", "90.00", "450")
	settled := fx.store.closingEntries[gone.ID]
	settled.State = enum.ClosingEntryStateSettled
	fx.store.closingEntries[gone.ID] = settled

	svc, _ := fx.service(Config{})
	settlement, err := svc.Submit(context.Background(), SubmitRequest{
		Actor:           fx.actor(),
		ClosingEntryIDs: []uuid.UUID{open.ID, gone.ID},
		ShiftID:         fx.shift.ID,
		Payments:        []PaymentInput{{JournalID: fx.cashJournal.ID, Amount: d("450")}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !numericEquals(settlement.ExpectedAmount, "450") {
		t.Errorf("expected amount = %v, want 450 for the remaining open entry", settlement.ExpectedAmount)
	}
	if len(fx.store.settlementLines) != 1 || fx.store.settlementLines[0].ClosingEntryID != open.ID {
		t.Errorf("settlement lines = %+v, want only the open entry's line", fx.store.settlementLines)
	}
	if fx.store.closingEntries[open.ID].State != enum.ClosingEntryStateSettled {
		t.Error("open entry not marked settled")
	}
}

func TestSubmitRequiresPettyCashAccount(t *testing.T) {
	fx := newFixture()
	entry := fx.addClosingEntry("11.11", "90.00", "1000")
	emp := fx.store.employees[fx.employee.ID]
	emp.PettyCashAccountID = pgtype.UUID{}
	fx.store.employees[fx.employee.ID] = emp

	svc, _ := fx.service(Config{})
	_, err := svc.Submit(context.Background(), SubmitRequest{
		Actor:           fx.actor(),
		ClosingEntryIDs: []uuid.UUID{entry.ID},
		ShiftID:         fx.shift.ID,
		Payments:        []PaymentInput{{JournalID: fx.cashJournal.ID, Amount: d("1000")}},
	})
	if !errors.Is(err, ErrNoPettyCashAccount) {
		t.Errorf("err = %v, want ErrNoPettyCashAccount", err)
	}
}

func TestSubmitRejectsNonPositivePayment(t *testing.T) {
	fx := newFixture()
	entry := fx.addClosingEntry("11.11", "90.00", "1000")
	svc, _ := fx.service(Config{})

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Actor:           fx.actor(),
		ClosingEntryIDs: []uuid.UUID{entry.ID},
		ShiftID:         fx.shift.ID,
		Payments:        []PaymentInput{{JournalID: fx.cashJournal.ID, Amount: decimal.Zero}},
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}

// submitFixture settles one walk-in entry so sale order tests start from a
// draft settlement with audit and payment lines in place.
func submitFixture(t *testing.T, fx *fixture, svc *Service) database.CashSettlement {
	t.Helper()
	entry := fx.addClosingEntry("10", "90.00", "900")
	settlement, err := svc.Submit(context.Background(), SubmitRequest{
		Actor:           fx.actor(),
		ClosingEntryIDs: []uuid.UUID{entry.ID},
		ShiftID:         fx.shift.ID,
		Payments:        []PaymentInput{{JournalID: fx.cashJournal.ID, Amount: d("900")}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return settlement
}

func TestCreateSaleOrdersPostsPaymentsAndGroups(t *testing.T) {
	fx := newFixture()
	svc, _ := fx.service(Config{})
	settlement := submitFixture(t, fx, svc)

	orders, err := svc.CreateSaleOrders(context.Background(), settlement.ID)
	if err != nil {
		t.Fatalf("CreateSaleOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	order := orders[0]
	if order.OrderNumber != "SO-00001" {
		t.Errorf("order number = %s, want SO-00001", order.OrderNumber)
	}
	if !numericEquals(order.Quantity, "10") {
		t.Errorf("order quantity = %v, want 10", order.Quantity)
	}
	if order.SaleType != enum.SaleTypeWalkin {
		t.Errorf("sale type = %s, want WALKIN", order.SaleType)
	}

	if len(fx.store.payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(fx.store.payments))
	}
	if fx.store.payments[0].State != enum.EntryStatePosted {
		t.Error("payment not posted")
	}
	for _, l := range fx.store.paymentLines {
		if !l.PaymentID.Valid {
			t.Error("payment line not linked to its payment")
		}
	}
	if fx.store.settlements[settlement.ID].State != enum.SettlementStateSubmitted {
		t.Error("settlement not moved to SUBMITTED")
	}

	if _, err := svc.CreateSaleOrders(context.Background(), settlement.ID); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second run err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestCreateSaleOrdersMergesSameCustomerFuelNozzle(t *testing.T) {
	fx := newFixture()
	svc, _ := fx.service(Config{})

	e1 := fx.addClosingEntry("10", "90.00", "900")
	e2 := fx.addClosingEntry("5", "90.00", "450")
	settlement, err := svc.Submit(context.Background(), SubmitRequest{
		Actor:           fx.actor(),
		ClosingEntryIDs: []uuid.UUID{e1.ID, e2.ID},
		ShiftID:         fx.shift.ID,
		Payments:        []PaymentInput{{JournalID: fx.cashJournal.ID, Amount: d("1350")}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	orders, err := svc.CreateSaleOrders(context.Background(), settlement.ID)
	if err != nil {
		t.Fatalf("CreateSaleOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1 merged order", len(orders))
	}
	if !numericEquals(orders[0].Quantity, "15") {
		t.Errorf("merged quantity = %v, want 15", orders[0].Quantity)
	}
}

func TestCreateSaleOrdersAutoConfirm(t *testing.T) {
	fx := newFixture()
	svc, _ := fx.service(Config{AutoConfirmSale: true})
	settlement := submitFixture(t, fx, svc)

	orders, err := svc.CreateSaleOrders(context.Background(), settlement.ID)
	if err != nil {
		t.Fatalf("CreateSaleOrders: %v", err)
	}
	if orders[0].State != enum.SaleOrderStateConfirmed {
		t.Errorf("order state = %s, want CONFIRMED with auto-confirm on", orders[0].State)
	}
	if !orders[0].InvoiceID.Valid {
		t.Error("auto-confirmed order has no invoice")
	}
}

func TestConfirmOrderInvoicesAndReconcilesWalkin(t *testing.T) {
	fx := newFixture()
	svc, _ := fx.service(Config{})
	settlement := submitFixture(t, fx, svc)

	orders, err := svc.CreateSaleOrders(context.Background(), settlement.ID)
	if err != nil {
		t.Fatalf("CreateSaleOrders: %v", err)
	}

	order, err := svc.ConfirmOrder(context.Background(), orders[0].ID)
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}
	if order.State != enum.SaleOrderStateConfirmed {
		t.Errorf("order state = %s, want CONFIRMED", order.State)
	}

	invoice := fx.store.journalEntries[uuid.UUID(order.InvoiceID.Bytes)]
	if invoice.Kind != enum.EntryKindInvoice {
		t.Errorf("invoice kind = %s, want OUT_INVOICE", invoice.Kind)
	}
	if invoice.State != enum.EntryStatePosted {
		t.Errorf("invoice state = %s, want POSTED", invoice.State)
	}
	if !invoice.SaleType.Valid || invoice.SaleType.String != enum.SaleTypeWalkin {
		t.Errorf("invoice sale type = %+v, want WALKIN", invoice.SaleType)
	}

	receivable, _ := fx.store.GetReceivableAccount(context.Background())
	var reconciledCount int
	for _, l := range fx.store.journalLines {
		if l.AccountID == receivable.ID && l.Reconciled {
			reconciledCount++
		}
	}
	if reconciledCount != 2 {
		t.Errorf("got %d reconciled receivable lines, want 2 (invoice debit and payment credit)", reconciledCount)
	}
}

func TestConfirmOrderCreditStaysOpen(t *testing.T) {
	fx := newFixture()
	creditCustomer := database.Customer{ID: uuid.New(), Name: "Transport Co", IsCreditCustomer: true}
	fx.store.customers[creditCustomer.ID] = creditCustomer
	svc, _ := fx.service(Config{})
	settlement := submitFixture(t, fx, svc)

	// A credit sale line alongside the walk-in ones.
	fx.store.settlementLines = append(fx.store.settlementLines, database.SettlementLine{
		ID:            uuid.New(),
		SettlementID:  settlement.ID,
		CustomerID:    creditCustomer.ID,
		ShiftID:       fx.shift.ID,
		NozzleID:      fx.nozzle.ID,
		FuelProductID: fx.fuel.ID,
		Price:         makeNumeric("90.00"),
		Quantity:      makeNumeric("20"),
		Amount:        makeNumeric("1800"),
		SaleType:      enum.SaleTypeCredit,
	})

	orders, err := svc.CreateSaleOrders(context.Background(), settlement.ID)
	if err != nil {
		t.Fatalf("CreateSaleOrders: %v", err)
	}

	var creditOrder database.SaleOrder
	for _, o := range orders {
		if o.SaleType == enum.SaleTypeCredit {
			creditOrder = o
		}
	}
	if creditOrder.ID == uuid.Nil {
		t.Fatal("no credit sale order created")
	}

	order, err := svc.ConfirmOrder(context.Background(), creditOrder.ID)
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}

	invLines, _ := fx.store.ListJournalLinesByEntry(context.Background(), uuid.UUID(order.InvoiceID.Bytes))
	for _, l := range invLines {
		if l.Reconciled {
			t.Error("credit invoice line reconciled; credit sales stay open until the customer pays")
		}
	}
}

func TestConfirmOrderLoyaltyPoints(t *testing.T) {
	fx := newFixture()
	loyaltyCustomer := database.Customer{ID: uuid.New(), Name: "Member", IsLoyaltyCustomer: true}
	fx.store.customers[loyaltyCustomer.ID] = loyaltyCustomer

	svc, _ := fx.service(Config{})
	settlement := submitFixture(t, fx, svc)
	fx.store.settlementLines = append(fx.store.settlementLines, database.SettlementLine{
		ID:            uuid.New(),
		SettlementID:  settlement.ID,
		CustomerID:    loyaltyCustomer.ID,
		ShiftID:       fx.shift.ID,
		NozzleID:      fx.nozzle.ID,
		FuelProductID: fx.fuel.ID,
		Price:         makeNumeric("90.00"),
		Quantity:      makeNumeric("25"),
		Amount:        makeNumeric("2250"),
		SaleType:      enum.SaleTypeLoyalty,
	})

	orders, err := svc.CreateSaleOrders(context.Background(), settlement.ID)
	if err != nil {
		t.Fatalf("CreateSaleOrders: %v", err)
	}
	for _, o := range orders {
		if o.SaleType == enum.SaleTypeLoyalty {
			if _, err := svc.ConfirmOrder(context.Background(), o.ID); err != nil {
				t.Fatalf("ConfirmOrder: %v", err)
			}
		}
	}

	if !fx.store.pointsAdded[loyaltyCustomer.ID].Equal(d("25")) {
		t.Errorf("loyalty points added = %s, want 25", fx.store.pointsAdded[loyaltyCustomer.ID])
	}
}

func TestPendingEntriesIncludesFloatInExpected(t *testing.T) {
	fx := newFixture()
	fx.addClosingEntry("10", "90.00", "900")
	svc, _ := fx.service(Config{})

	// Give the employee a posted 150 float.
	if _, err := svc.AllocatePettyCash(context.Background(), PettyCashRequest{
		EmployeeID: fx.employee.ID,
		Amount:     d("150"),
	}); err != nil {
		t.Fatalf("AllocatePettyCash: %v", err)
	}

	summary, employee, err := svc.PendingEntries(context.Background(), fx.actor(), EntriesFilter{})
	if err != nil {
		t.Fatalf("PendingEntries: %v", err)
	}
	if employee.ID != fx.employee.ID {
		t.Errorf("resolved employee %s, want %s", employee.ID, fx.employee.ID)
	}
	if !summary.PettyCashBalance.Equal(d("150")) {
		t.Errorf("petty cash balance = %s, want 150", summary.PettyCashBalance)
	}
	if !summary.ExpectedAmount.Equal(d("1050")) {
		t.Errorf("expected amount = %s, want 1050", summary.ExpectedAmount)
	}
	if len(summary.Shifts) != 1 || summary.Shifts[0].ShiftName != "Morning" {
		t.Errorf("shifts = %+v, want one Morning shift", summary.Shifts)
	}
}

func TestPendingEntriesUnknownUser(t *testing.T) {
	fx := newFixture()
	svc, _ := fx.service(Config{})
	_, _, err := svc.PendingEntries(context.Background(), Actor{UserID: uuid.New()}, EntriesFilter{})
	if !errors.Is(err, ErrNoEmployee) {
		t.Errorf("err = %v, want ErrNoEmployee", err)
	}
}

func TestAllocatePettyCashCreatesAccountOnFirstUse(t *testing.T) {
	fx := newFixture()
	fresh := database.Employee{ID: uuid.New(), Name: "Anita"}
	fx.store.employees[fresh.ID] = fresh
	svc, _ := fx.service(Config{})

	if _, err := svc.AllocatePettyCash(context.Background(), PettyCashRequest{
		EmployeeID: fresh.ID,
		Amount:     d("200"),
	}); err != nil {
		t.Fatalf("AllocatePettyCash: %v", err)
	}

	updated := fx.store.employees[fresh.ID]
	if !updated.PettyCashAccountID.Valid {
		t.Fatal("petty cash account not created and linked")
	}
	balance, err := fx.store.AccountBalance(context.Background(), uuid.UUID(updated.PettyCashAccountID.Bytes))
	if err != nil {
		t.Fatalf("AccountBalance: %v", err)
	}
	if !numericEquals(balance, "200") {
		t.Errorf("float balance = %v, want 200", balance)
	}
}

func (f *fixture) closingRequest() ClosingEntryRequest {
	return ClosingEntryRequest{
		PumpID:        f.pump.ID,
		NozzleID:      f.nozzle.ID,
		ShiftID:       f.shift.ID,
		FuelProductID: f.fuel.ID,
		EmployeeID:    f.employee.ID,
		Price:         d("90"),
		StartReading:  d("1000"),
		EndReading:    d("1012"),
		WalkinQty:     d("10"),
		DipTakenQty:   d("2"),
	}
}

func TestRecordClosingEntryTotalNetsOutDip(t *testing.T) {
	fx := newFixture()
	svc, tx := fx.service(Config{})

	entry, err := svc.RecordClosingEntry(context.Background(), fx.closingRequest())
	if err != nil {
		t.Fatalf("RecordClosingEntry: %v", err)
	}
	if !tx.committed {
		t.Fatal("transaction not committed")
	}
	// (10 walk-in - 2 dip) * 90
	if !numericEquals(entry.TotalSaleAmount, "720") {
		t.Errorf("total = %v, want 720", entry.TotalSaleAmount)
	}
	if entry.State != enum.ClosingEntryStateOpen {
		t.Errorf("state = %s, want OPEN", entry.State)
	}
	if len(fx.store.walkinLines) != 1 || !numericEquals(fx.store.walkinLines[0].Amount, "900") {
		t.Errorf("walk-in lines = %+v, want one line of 900", fx.store.walkinLines)
	}
}

func TestRecordClosingEntryIncludesLoyaltyInTotal(t *testing.T) {
	fx := newFixture()
	svc, _ := fx.service(Config{})

	req := fx.closingRequest()
	req.LoyaltyLines = []ClosingLine{{CustomerID: uuid.New(), Quantity: d("5")}}

	entry, err := svc.RecordClosingEntry(context.Background(), req)
	if err != nil {
		t.Fatalf("RecordClosingEntry: %v", err)
	}
	// (10 walk-in + 5 loyalty - 2 dip) * 90
	if !numericEquals(entry.TotalSaleAmount, "1170") {
		t.Errorf("total = %v, want 1170", entry.TotalSaleAmount)
	}
	if len(fx.store.loyaltyLines) != 1 {
		t.Errorf("loyalty lines = %d, want 1", len(fx.store.loyaltyLines))
	}
}

func TestRecordClosingEntryCreditExcludedFromTotal(t *testing.T) {
	fx := newFixture()
	svc, _ := fx.service(Config{})

	req := fx.closingRequest()
	req.CreditLines = []ClosingLine{{CustomerID: uuid.New(), VehicleNo: "KA-01-1234", Quantity: d("20")}}

	entry, err := svc.RecordClosingEntry(context.Background(), req)
	if err != nil {
		t.Fatalf("RecordClosingEntry: %v", err)
	}
	if !numericEquals(entry.TotalSaleAmount, "720") {
		t.Errorf("total = %v, want 720 (credit volumes invoiced separately)", entry.TotalSaleAmount)
	}
	if len(fx.store.creditLines) != 1 || !numericEquals(fx.store.creditLines[0].Amount, "1800") {
		t.Errorf("credit lines = %+v, want one line of 1800", fx.store.creditLines)
	}
}

func TestRecordClosingEntryRollsBackOnLineFailure(t *testing.T) {
	fx := newFixture()
	fx.store.failLoyaltyLine = errors.New("insert failed")
	svc, tx := fx.service(Config{})

	req := fx.closingRequest()
	req.LoyaltyLines = []ClosingLine{{CustomerID: uuid.New(), Quantity: d("5")}}

	_, err := svc.RecordClosingEntry(context.Background(), req)
	if err == nil {
		t.Fatal("expected error when a sale line insert fails")
	}
	if tx.committed {
		t.Error("transaction committed despite a failed sale line; entry and lines must commit together")
	}
}

func TestRecordClosingEntryNozzleMismatch(t *testing.T) {
	fx := newFixture()
	svc, tx := fx.service(Config{})

	req := fx.closingRequest()
	req.PumpID = uuid.New()

	_, err := svc.RecordClosingEntry(context.Background(), req)
	if !errors.Is(err, ErrNozzleMismatch) {
		t.Errorf("err = %v, want ErrNozzleMismatch", err)
	}
	if tx.committed {
		t.Error("transaction committed for a mismatched nozzle")
	}
}

func TestRecordClosingEntryDipExceedsSale(t *testing.T) {
	fx := newFixture()
	svc, _ := fx.service(Config{})

	req := fx.closingRequest()
	req.DipTakenQty = d("50")

	_, err := svc.RecordClosingEntry(context.Background(), req)
	if !errors.Is(err, ErrDipExceedsSale) {
		t.Errorf("err = %v, want ErrDipExceedsSale", err)
	}
}

func TestAllocatePettyCashRejectsNonPositiveAmount(t *testing.T) {
	fx := newFixture()
	svc, _ := fx.service(Config{})
	_, err := svc.AllocatePettyCash(context.Background(), PettyCashRequest{
		EmployeeID: fx.employee.ID,
		Amount:     d("-5"),
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}
