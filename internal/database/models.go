package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Employee struct {
	ID                 uuid.UUID
	UserID             pgtype.UUID
	Name               string
	PettyCashAccountID pgtype.UUID
	PettyCashNeed      bool
	CreatedAt          time.Time
}

type Customer struct {
	ID                uuid.UUID
	Name              string
	IsCreditCustomer  bool
	IsLoyaltyCustomer bool
	IsDefaultCustomer bool
	LoyaltyPoints     pgtype.Numeric
	CreatedAt         time.Time
}

type FuelProduct struct {
	ID        uuid.UUID
	Name      string
	UnitPrice pgtype.Numeric
	CreatedAt time.Time
}

type Tank struct {
	ID            uuid.UUID
	Name          string
	FuelProductID uuid.UUID
	Capacity      pgtype.Numeric
	CreatedAt     time.Time
}

type Pump struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Nozzle struct {
	ID            uuid.UUID
	Name          string
	PumpID        uuid.UUID
	TankID        uuid.UUID
	FuelProductID uuid.UUID
	CreatedAt     time.Time
}

type Shift struct {
	ID        uuid.UUID
	Name      string
	Sequence  int32
	CreatedAt time.Time
}

type ShiftManager struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	ShiftID    uuid.UUID
	PumpID     pgtype.UUID
	CreatedAt  time.Time
}

type Account struct {
	ID          uuid.UUID
	Code        string
	Name        string
	AccountType string
	CreatedAt   time.Time
}

type Journal struct {
	ID               uuid.UUID
	Name             string
	JournalType      string
	DefaultAccountID uuid.UUID
	CreatedAt        time.Time
}

type JournalEntry struct {
	ID           uuid.UUID
	JournalID    uuid.UUID
	EntryDate    pgtype.Date
	Ref          string
	Kind         string
	State        string
	SettlementID pgtype.UUID
	CustomerID   pgtype.UUID
	SaleType     pgtype.Text
	CreatedAt    time.Time
}

type JournalLine struct {
	ID         uuid.UUID
	EntryID    uuid.UUID
	AccountID  uuid.UUID
	Debit      pgtype.Numeric
	Credit     pgtype.Numeric
	Label      string
	Reconciled bool
	CreatedAt  time.Time
}

type Payment struct {
	ID           uuid.UUID
	JournalID    uuid.UUID
	CustomerID   uuid.UUID
	Amount       pgtype.Numeric
	PaymentDate  pgtype.Date
	Ref          string
	State        string
	IsPettyCash  bool
	SettlementID pgtype.UUID
	EntryID      pgtype.UUID
	CreatedAt    time.Time
}

type ClosingEntry struct {
	ID              uuid.UUID
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
	CreatedAt       time.Time
}

type WalkinSaleLine struct {
	ID             uuid.UUID
	ClosingEntryID uuid.UUID
	Quantity       pgtype.Numeric
	Price          pgtype.Numeric
	Amount         pgtype.Numeric
	CreatedAt      time.Time
}

type CreditSaleLine struct {
	ID             uuid.UUID
	ClosingEntryID uuid.UUID
	CustomerID     uuid.UUID
	VehicleNo      pgtype.Text
	Quantity       pgtype.Numeric
	Price          pgtype.Numeric
	Amount         pgtype.Numeric
	CreatedAt      time.Time
}

type LoyaltySaleLine struct {
	ID             uuid.UUID
	ClosingEntryID uuid.UUID
	CustomerID     uuid.UUID
	Quantity       pgtype.Numeric
	Price          pgtype.Numeric
	Amount         pgtype.Numeric
	CreatedAt      time.Time
}

type CashSettlement struct {
	ID              uuid.UUID
	EmployeeID      uuid.UUID
	ShiftID         uuid.UUID
	SettlementDate  pgtype.Date
	ExpectedAmount  pgtype.Numeric
	SubmittedAmount pgtype.Numeric
	State           string
	CreatedAt       time.Time
}

type SettlementLine struct {
	ID             uuid.UUID
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
	CreatedAt      time.Time
}

type SettlementPaymentLine struct {
	ID           uuid.UUID
	SettlementID uuid.UUID
	JournalID    uuid.UUID
	PaymentID    pgtype.UUID
	Ref          string
	Amount       pgtype.Numeric
	PaymentType  string
	State        string
	CreatedAt    time.Time
}

type SettlementMove struct {
	ID           uuid.UUID
	SettlementID uuid.UUID
	EntryID      uuid.UUID
	MoveType     string
	CreatedAt    time.Time
}

type SaleOrder struct {
	ID             uuid.UUID
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
	InvoiceID      pgtype.UUID
	CreatedAt      time.Time
}
