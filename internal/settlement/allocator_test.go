package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name          string
		shiftTotal    string
		cashSubmitted string
		bankSubmitted string
		wantShiftCash string
		wantPettyCash string
		wantShortage  string
	}{
		{
			name:       "cash over remainder returns petty cash",
			shiftTotal: "1000", cashSubmitted: "500", bankSubmitted: "600",
			wantShiftCash: "400", wantPettyCash: "100", wantShortage: "0",
		},
		{
			name:       "cash under remainder records shortage",
			shiftTotal: "1000", cashSubmitted: "300", bankSubmitted: "600",
			wantShiftCash: "300", wantPettyCash: "0", wantShortage: "100",
		},
		{
			name:       "exact cash submission balances cleanly",
			shiftTotal: "1000", cashSubmitted: "1000", bankSubmitted: "0",
			wantShiftCash: "1000", wantPettyCash: "0", wantShortage: "0",
		},
		{
			name:       "bank covers everything",
			shiftTotal: "1000", cashSubmitted: "0", bankSubmitted: "1000",
			wantShiftCash: "0", wantPettyCash: "0", wantShortage: "0",
		},
		{
			name:       "bank over shift total clamps remainder",
			shiftTotal: "1000", cashSubmitted: "200", bankSubmitted: "1200",
			wantShiftCash: "0", wantPettyCash: "200", wantShortage: "0",
		},
		{
			name:       "nothing submitted is all shortage",
			shiftTotal: "1000", cashSubmitted: "0", bankSubmitted: "0",
			wantShiftCash: "0", wantPettyCash: "0", wantShortage: "1000",
		},
		{
			name:       "fractional amounts",
			shiftTotal: "750.50", cashSubmitted: "300.25", bankSubmitted: "400",
			wantShiftCash: "300.25", wantPettyCash: "0", wantShortage: "50.25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(d(tt.shiftTotal), d(tt.cashSubmitted), d(tt.bankSubmitted))
			if !got.ShiftCash.Equal(d(tt.wantShiftCash)) {
				t.Errorf("ShiftCash = %s, want %s", got.ShiftCash, tt.wantShiftCash)
			}
			if !got.PettyCash.Equal(d(tt.wantPettyCash)) {
				t.Errorf("PettyCash = %s, want %s", got.PettyCash, tt.wantPettyCash)
			}
			if !got.Shortage.Equal(d(tt.wantShortage)) {
				t.Errorf("Shortage = %s, want %s", got.Shortage, tt.wantShortage)
			}
		})
	}
}

func TestAllocateExclusivity(t *testing.T) {
	// Petty cash and shortage can never both be positive, and shift cash
	// never goes negative, regardless of input combination.
	amounts := []string{"0", "100", "250.75", "600", "1000", "1500"}
	for _, total := range amounts {
		for _, cash := range amounts {
			for _, bank := range amounts {
				got := Allocate(d(total), d(cash), d(bank))
				if got.PettyCash.IsPositive() && got.Shortage.IsPositive() {
					t.Errorf("Allocate(%s, %s, %s): petty cash %s and shortage %s both positive",
						total, cash, bank, got.PettyCash, got.Shortage)
				}
				if got.ShiftCash.IsNegative() {
					t.Errorf("Allocate(%s, %s, %s): shift cash %s negative",
						total, cash, bank, got.ShiftCash)
				}
				submitted := got.ShiftCash.Add(got.PettyCash)
				if !submitted.Equal(d(cash)) {
					t.Errorf("Allocate(%s, %s, %s): shift cash + petty cash = %s, want %s",
						total, cash, bank, submitted, cash)
				}
			}
		}
	}
}
