package settlement

import "github.com/shopspring/decimal"

// Allocation is the split of submitted funds against the expected shift total.
// At most one of PettyCash and Shortage is non-zero for any input.
type Allocation struct {
	ShiftCash decimal.Decimal
	PettyCash decimal.Decimal
	Shortage  decimal.Decimal
}

// Allocate reconciles the expected shift total against the cash and bank
// amounts an employee hands over. Bank deposits count against the shift
// total first; cash covers what remains. Cash beyond the remainder goes
// back to the employee as petty cash, and any amount still uncovered by
// both channels is recorded as a shortage.
func Allocate(shiftTotal, cashSubmitted, bankSubmitted decimal.Decimal) Allocation {
	remaining := shiftTotal.Sub(bankSubmitted)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	pettyCash := cashSubmitted.Sub(remaining)
	if pettyCash.IsNegative() {
		pettyCash = decimal.Zero
	}

	shortage := shiftTotal.Sub(bankSubmitted.Add(cashSubmitted))
	if shortage.IsNegative() {
		shortage = decimal.Zero
	}

	return Allocation{
		ShiftCash: cashSubmitted.Sub(pettyCash),
		PettyCash: pettyCash,
		Shortage:  shortage,
	}
}
