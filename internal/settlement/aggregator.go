package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleFigures is a quantity and amount pair for one sale channel.
type SaleFigures struct {
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// EntryView is a closing entry joined with its registry names and per-channel
// sale totals, ready for aggregation.
type EntryView struct {
	ID              uuid.UUID
	ShiftID         uuid.UUID
	ShiftName       string
	PumpName        string
	NozzleName      string
	FuelProductID   uuid.UUID
	FuelName        string
	Price           decimal.Decimal
	StartReading    decimal.Decimal
	EndReading      decimal.Decimal
	DipTakenQty     decimal.Decimal
	TotalSaleAmount decimal.Decimal
	Walkin          SaleFigures
	Credit          SaleFigures
	Loyalty         SaleFigures
}

// FuelRow is one aggregated row of a shift summary: all closing entries for
// the same fuel at the same price merged together.
type FuelRow struct {
	FuelID        uuid.UUID
	FuelName      string
	Price         decimal.Decimal
	Pumps         []string
	Nozzles       []string
	Opening       decimal.Decimal
	Closing       decimal.Decimal
	WalkinQty     decimal.Decimal
	WalkinAmount  decimal.Decimal
	CreditQty     decimal.Decimal
	CreditAmount  decimal.Decimal
	LoyaltyQty    decimal.Decimal
	LoyaltyAmount decimal.Decimal
	DipQty        decimal.Decimal
	DipAmount     decimal.Decimal
	RowTotal      decimal.Decimal
}

// ShiftSummary groups the fuel rows of one shift.
type ShiftSummary struct {
	ShiftID    uuid.UUID
	ShiftName  string
	EntryIDs   []uuid.UUID
	Rows       []FuelRow
	ShiftTotal decimal.Decimal
}

// Summary is the full pending-settlement view for an employee.
type Summary struct {
	Shifts           []ShiftSummary
	GrandTotal       decimal.Decimal
	PettyCashBalance decimal.Decimal
	ExpectedAmount   decimal.Decimal
}

// BuildSummary aggregates open closing entries into per-shift, per-fuel rows.
// Entries for the same fuel at the same price within a shift merge into one
// row with their pumps and nozzles unioned. The displayed walk-in figures
// subtract the DIP (test pour) quantity so attendants see what they actually
// owe; the row total always comes from the stored entry totals, which already
// account for DIP.
func BuildSummary(entries []EntryView, pettyCashBalance decimal.Decimal) Summary {
	summary := Summary{PettyCashBalance: pettyCashBalance}

	shiftIndex := map[uuid.UUID]int{}
	rowIndex := map[uuid.UUID]map[string]int{}

	for _, e := range entries {
		if e.Price.IsZero() {
			continue
		}

		si, ok := shiftIndex[e.ShiftID]
		if !ok {
			si = len(summary.Shifts)
			shiftIndex[e.ShiftID] = si
			rowIndex[e.ShiftID] = map[string]int{}
			summary.Shifts = append(summary.Shifts, ShiftSummary{
				ShiftID:   e.ShiftID,
				ShiftName: e.ShiftName,
			})
		}
		shift := &summary.Shifts[si]
		shift.EntryIDs = append(shift.EntryIDs, e.ID)

		key := e.FuelProductID.String() + "|" + e.Price.String()
		ri, ok := rowIndex[e.ShiftID][key]
		if !ok {
			ri = len(shift.Rows)
			rowIndex[e.ShiftID][key] = ri
			shift.Rows = append(shift.Rows, FuelRow{
				FuelID:   e.FuelProductID,
				FuelName: e.FuelName,
				Price:    e.Price,
				Opening:  e.StartReading,
				Closing:  e.EndReading,
			})
		} else {
			// Merged rows span meter readings: earliest opening, latest closing.
			if e.StartReading.LessThan(shift.Rows[ri].Opening) {
				shift.Rows[ri].Opening = e.StartReading
			}
			if e.EndReading.GreaterThan(shift.Rows[ri].Closing) {
				shift.Rows[ri].Closing = e.EndReading
			}
		}
		row := &shift.Rows[ri]

		row.Pumps = appendUnique(row.Pumps, e.PumpName)
		row.Nozzles = appendUnique(row.Nozzles, e.NozzleName)

		walkinQty := e.Walkin.Quantity.Sub(e.DipTakenQty)
		row.WalkinQty = row.WalkinQty.Add(walkinQty)
		row.WalkinAmount = row.WalkinAmount.Add(walkinQty.Mul(e.Price))
		row.CreditQty = row.CreditQty.Add(e.Credit.Quantity)
		row.CreditAmount = row.CreditAmount.Add(e.Credit.Amount)
		row.LoyaltyQty = row.LoyaltyQty.Add(e.Loyalty.Quantity)
		row.LoyaltyAmount = row.LoyaltyAmount.Add(e.Loyalty.Amount)
		row.DipQty = row.DipQty.Add(e.DipTakenQty)
		row.DipAmount = row.DipAmount.Add(e.DipTakenQty.Mul(e.Price))

		row.RowTotal = row.RowTotal.Add(e.TotalSaleAmount)
		shift.ShiftTotal = shift.ShiftTotal.Add(e.TotalSaleAmount)
		summary.GrandTotal = summary.GrandTotal.Add(e.TotalSaleAmount)
	}

	summary.ExpectedAmount = summary.GrandTotal.Add(pettyCashBalance)
	return summary
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
