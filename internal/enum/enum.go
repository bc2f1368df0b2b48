package enum

// State machines. Values mirror the CHECK constraints in the schema.

const (
	ClosingEntryStateOpen    = "OPEN"
	ClosingEntryStateSettled = "SETTLED"
)

const (
	SettlementStateDraft     = "DRAFT"
	SettlementStateSubmitted = "SUBMITTED"
)

const (
	PaymentLineStateDraft  = "DRAFT"
	PaymentLineStatePosted = "POSTED"
)

const (
	EntryStateDraft  = "DRAFT"
	EntryStatePosted = "POSTED"
)

const (
	SaleOrderStateDraft     = "DRAFT"
	SaleOrderStateConfirmed = "CONFIRMED"
)

// Classifications.

const (
	UserRoleAdmin     = "ADMIN"
	UserRoleManager   = "MANAGER"
	UserRoleAttendant = "ATTENDANT"
)

const (
	SaleTypeWalkin  = "WALKIN"
	SaleTypeCredit  = "CREDIT"
	SaleTypeLoyalty = "LOYALTY"
)

const (
	PaymentTypeShift     = "SHIFT"
	PaymentTypePettyCash = "PETTY_CASH"
	PaymentTypeShortage  = "SHORTAGE"
)

const (
	MoveTypePettyReturn = "PETTY_RETURN"
	MoveTypeShortage    = "SHORTAGE"
)

const (
	JournalTypeCash = "CASH"
	JournalTypeBank = "BANK"
	JournalTypeSale = "SALE"
)

const (
	AccountTypeCash       = "ASSET_CASH"
	AccountTypeReceivable = "ASSET_RECEIVABLE"
	AccountTypeIncome     = "INCOME"
	AccountTypeExpense    = "EXPENSE"
)

// Journal entry kinds. Invoices are journal entries carrying customer and
// settlement references; payments post their own backing entry.
const (
	EntryKindManual  = "ENTRY"
	EntryKindInvoice = "OUT_INVOICE"
)
