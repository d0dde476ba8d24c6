package holdings

import (
	"errors"
	"slices"
	"testing"
)

func USD(v float64) Money { return M(v, "USD") }

// symbols returns the ledger symbols in iteration order.
func symbols(l *Ledger) []string {
	var got []string
	for sym := range l.Positions() {
		got = append(got, sym)
	}
	return got
}

func TestLedger_AddPosition(t *testing.T) {
	testCases := []struct {
		name       string
		method     CostBasisMethod
		buys       []Position // Symbol, Shares and CostBasis as the purchase price
		wantShares Quantity
		wantBasis  Money
	}{
		{
			name:       "single purchase",
			method:     PairwiseAverage,
			buys:       []Position{{"AAPL", Q(10), USD(150)}},
			wantShares: Q(10),
			wantBasis:  USD(150),
		},
		{
			name:       "pairwise average ignores share counts",
			method:     PairwiseAverage,
			buys:       []Position{{"AAPL", Q(10), USD(150)}, {"AAPL", Q(5), USD(170)}},
			wantShares: Q(15),
			wantBasis:  USD(160),
		},
		{
			name:       "pairwise average is applied in call order",
			method:     PairwiseAverage,
			buys:       []Position{{"AAPL", Q(10), USD(100)}, {"aapl", Q(5), USD(200)}, {" Aapl ", Q(5), USD(300)}},
			wantShares: Q(20),
			wantBasis:  USD(225),
		},
		{
			name:       "fractional shares",
			method:     PairwiseAverage,
			buys:       []Position{{"VTI", Q(0.5), USD(200)}, {"VTI", Q(0.25), USD(210)}},
			wantShares: Q(0.75),
			wantBasis:  USD(205),
		},
		{
			name:       "weighted average",
			method:     WeightedAverage,
			buys:       []Position{{"AAPL", Q(10), USD(150)}, {"AAPL", Q(5), USD(180)}},
			wantShares: Q(15),
			wantBasis:  USD(160),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := NewLedger("USD", tc.method)
			for _, buy := range tc.buys {
				if _, err := ledger.AddPosition(buy.Symbol, buy.Shares, buy.CostBasis); err != nil {
					t.Fatalf("AddPosition(%q) error = %v", buy.Symbol, err)
				}
			}
			if ledger.Len() != 1 {
				t.Fatalf("Len() = %d, want 1", ledger.Len())
			}
			pos, ok := ledger.Position(tc.buys[0].Symbol)
			if !ok {
				t.Fatalf("Position(%q) not found", tc.buys[0].Symbol)
			}
			if !pos.Shares.Equal(tc.wantShares) {
				t.Errorf("Shares = %v, want %v", pos.Shares, tc.wantShares)
			}
			if !pos.CostBasis.Equal(tc.wantBasis) {
				t.Errorf("CostBasis = %v, want %v", pos.CostBasis.value, tc.wantBasis.value)
			}
		})
	}
}

func TestLedger_AddPosition_OrderDependence(t *testing.T) {
	forward := NewLedger("USD", PairwiseAverage)
	forward.AddPosition("AAPL", Q(10), USD(150))
	forward.AddPosition("AAPL", Q(5), USD(170))
	forward.AddPosition("AAPL", Q(5), USD(250))

	backward := NewLedger("USD", PairwiseAverage)
	backward.AddPosition("AAPL", Q(5), USD(250))
	backward.AddPosition("AAPL", Q(5), USD(170))
	backward.AddPosition("AAPL", Q(10), USD(150))

	f, _ := forward.Position("AAPL")
	b, _ := backward.Position("AAPL")
	if !f.Shares.Equal(b.Shares) {
		t.Errorf("Shares depend on order: %v != %v", f.Shares, b.Shares)
	}
	if f.CostBasis.Equal(b.CostBasis) {
		t.Errorf("CostBasis = %v in both orders, want different values", f.CostBasis.value)
	}
	// (150+170)/2 = 160, (160+250)/2 = 205
	if !f.CostBasis.Equal(USD(205)) {
		t.Errorf("forward CostBasis = %v, want 205", f.CostBasis.value)
	}
	// (250+170)/2 = 210, (210+150)/2 = 180
	if !b.CostBasis.Equal(USD(180)) {
		t.Errorf("backward CostBasis = %v, want 180", b.CostBasis.value)
	}
}

func TestLedger_AddPosition_Weighted(t *testing.T) {
	ledger := NewLedger("USD", WeightedAverage)
	ledger.AddPosition("AAPL", Q(10), USD(150))
	ledger.AddPosition("AAPL", Q(5), USD(170))

	pos, _ := ledger.Position("AAPL")
	// (10*150 + 5*170) / 15 = 156.666...
	if got := pos.CostBasis.Round(2); !got.Equal(USD(156.67)) {
		t.Errorf("CostBasis = %v, want 156.67", got.value)
	}
}

func TestLedger_AddPosition_Outcome(t *testing.T) {
	ledger := NewLedger("USD", PairwiseAverage)

	first, err := ledger.AddPosition("msft", Q(10), USD(300))
	if err != nil {
		t.Fatalf("AddPosition() error = %v", err)
	}
	if first.Symbol != "MSFT" || first.Merged {
		t.Errorf("AddPosition() = {Symbol: %q, Merged: %v}, want {MSFT, false}", first.Symbol, first.Merged)
	}

	second, err := ledger.AddPosition("MSFT", Q(2), USD(320))
	if err != nil {
		t.Fatalf("AddPosition() error = %v", err)
	}
	if !second.Merged {
		t.Error("AddPosition() Merged = false, want true")
	}
	if !second.Shares.Equal(Q(2)) || !second.Price.Equal(USD(320)) {
		t.Errorf("AddPosition() reports %v @ %v, want the added lot 2 @ 320", second.Shares, second.Price.value)
	}
	if !second.Position.Shares.Equal(Q(12)) || !second.Position.CostBasis.Equal(USD(310)) {
		t.Errorf("AddPosition() Position = %v @ %v, want 12 @ 310", second.Position.Shares, second.Position.CostBasis.value)
	}
}

func TestLedger_AddPosition_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		symbol  string
		shares  Quantity
		price   Money
		wantErr error
	}{
		{"empty symbol", "  ", Q(1), USD(10), ErrInvalidSymbol},
		{"zero shares", "AAPL", Q(0), USD(10), ErrInvalidQuantity},
		{"negative shares", "AAPL", Q(-3), USD(10), ErrInvalidQuantity},
		{"zero price", "AAPL", Q(1), USD(0), ErrInvalidPrice},
		{"negative price", "AAPL", Q(1), USD(-10), ErrInvalidPrice},
		{"other currency", "AAPL", Q(1), M(10, "EUR"), ErrCurrencyMismatch},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := NewLedger("USD", PairwiseAverage)
			ledger.AddPosition("AAPL", Q(10), USD(150))

			_, err := ledger.AddPosition(tc.symbol, tc.shares, tc.price)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("AddPosition() error = %v, want %v", err, tc.wantErr)
			}
			pos, _ := ledger.Position("AAPL")
			if ledger.Len() != 1 || !pos.Shares.Equal(Q(10)) || !pos.CostBasis.Equal(USD(150)) {
				t.Errorf("ledger changed after a rejected purchase: %d positions, AAPL %v @ %v", ledger.Len(), pos.Shares, pos.CostBasis.value)
			}
		})
	}
}

func TestLedger_RemovePosition(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		ledger := NewLedger("USD", PairwiseAverage)
		ledger.AddPosition("AAPL", Q(10), USD(150))
		ledger.AddPosition("MSFT", Q(10), USD(300))
		ledger.AddPosition("GOOG", Q(3), USD(140))

		pos, err := ledger.RemovePosition("msft")
		if err != nil {
			t.Fatalf("RemovePosition() error = %v", err)
		}
		if pos.Symbol != "MSFT" || !pos.Shares.Equal(Q(10)) {
			t.Errorf("RemovePosition() = %v %v, want MSFT 10", pos.Symbol, pos.Shares)
		}
		if got, want := symbols(ledger), []string{"AAPL", "GOOG"}; !slices.Equal(got, want) {
			t.Errorf("Positions() = %v, want %v", got, want)
		}
		if aapl, _ := ledger.Position("AAPL"); !aapl.CostBasis.Equal(USD(150)) {
			t.Errorf("AAPL CostBasis = %v, want unchanged 150", aapl.CostBasis.value)
		}
	})

	t.Run("absent", func(t *testing.T) {
		ledger := NewLedger("USD", PairwiseAverage)
		ledger.AddPosition("AAPL", Q(10), USD(150))

		_, err := ledger.RemovePosition("TSLA")
		if !errors.Is(err, ErrSymbolNotFound) {
			t.Fatalf("RemovePosition() error = %v, want ErrSymbolNotFound", err)
		}
		var se *SymbolError
		if !errors.As(err, &se) || se.Symbol != "TSLA" {
			t.Errorf("RemovePosition() error = %#v, want a *SymbolError for TSLA", err)
		}
		if got, want := symbols(ledger), []string{"AAPL"}; !slices.Equal(got, want) {
			t.Errorf("Positions() = %v, want %v", got, want)
		}
	})

	t.Run("add after remove goes last", func(t *testing.T) {
		ledger := NewLedger("USD", PairwiseAverage)
		ledger.AddPosition("AAPL", Q(1), USD(1))
		ledger.AddPosition("MSFT", Q(1), USD(1))
		ledger.RemovePosition("AAPL")
		ledger.AddPosition("AAPL", Q(1), USD(2))

		if got, want := symbols(ledger), []string{"MSFT", "AAPL"}; !slices.Equal(got, want) {
			t.Errorf("Positions() = %v, want %v", got, want)
		}
		if aapl, _ := ledger.Position("AAPL"); !aapl.CostBasis.Equal(USD(2)) {
			t.Errorf("AAPL CostBasis = %v, want a fresh 2", aapl.CostBasis.value)
		}
	})
}

func TestLedger_Positions(t *testing.T) {
	ledger := NewLedger("USD", PairwiseAverage)
	for _, s := range []string{"MSFT", "AAPL", "GOOG", "AMZN"} {
		ledger.AddPosition(s, Q(1), USD(10))
	}
	ledger.AddPosition("AAPL", Q(1), USD(20))

	want := []string{"MSFT", "AAPL", "GOOG", "AMZN"}
	for i := 0; i < 3; i++ {
		if got := symbols(ledger); !slices.Equal(got, want) {
			t.Fatalf("Positions() = %v, want %v", got, want)
		}
	}

	// removing while iterating does not disturb the iteration.
	var seen []string
	for sym := range ledger.Positions() {
		seen = append(seen, sym)
		ledger.RemovePosition(sym)
	}
	if !slices.Equal(seen, want) {
		t.Errorf("Positions() with removal = %v, want %v", seen, want)
	}
	if ledger.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ledger.Len())
	}
}

func TestParseCostBasisMethod(t *testing.T) {
	for _, m := range []CostBasisMethod{PairwiseAverage, WeightedAverage} {
		got, err := ParseCostBasisMethod(m.String())
		if err != nil || got != m {
			t.Errorf("ParseCostBasisMethod(%q) = %v, %v, want %v", m.String(), got, err, m)
		}
	}
	if _, err := ParseCostBasisMethod("fifo"); err == nil {
		t.Error("ParseCostBasisMethod(\"fifo\") error = nil, want an error")
	}
}
