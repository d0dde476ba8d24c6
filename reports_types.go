package holdings

// Row is the valuation of one position.
//
// The market fields (CurrentPrice, CurrentValue, ProfitLoss and
// ProfitLossPercent) are only meaningful when Available returns true.
type Row struct {
	Symbol     string
	Shares     Quantity
	CostBasis  Money
	Investment Money

	CurrentPrice      Money
	CurrentValue      Money
	ProfitLoss        Money
	ProfitLossPercent Percent

	// Err is the reason why the price is missing, it matches ErrQuoteUnavailable.
	Err error
}

// Available returns true if the row has a current price.
func (r Row) Available() bool { return r.Err == nil }

func (r Row) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", r.Symbol)
	w.Append("shares", r.Shares)
	w.Append("costBasis", r.CostBasis.exact())
	w.Append("investment", r.Investment)
	if r.Available() {
		w.Append("currentPrice", r.CurrentPrice.exact())
		w.Append("currentValue", r.CurrentValue)
		w.Append("profitLoss", r.ProfitLoss)
		w.Append("profitLossPercent", r.ProfitLossPercent)
	} else {
		w.Append("error", r.Err.Error())
	}
	return w.MarshalJSON()
}

// Report is the result of a valuation pass.
type Report struct {
	Currency string
	Method   CostBasisMethod // merge rule of the cost basis
	Rows     []Row // in ledger order

	// Totals only include the available rows.
	TotalInvestment        Money
	TotalCurrentValue      Money
	TotalProfitLoss        Money
	TotalProfitLossPercent Percent
}

func (r *Report) MarshalJSON() ([]byte, error) {
	rows := r.Rows
	if rows == nil {
		rows = []Row{}
	}
	var w jsonObjectWriter
	w.Append("currency", r.Currency)
	w.Append("costBasisMethod", r.Method.String())
	w.Append("rows", rows)
	w.Append("totalInvestment", r.TotalInvestment)
	w.Append("totalCurrentValue", r.TotalCurrentValue)
	w.Append("totalProfitLoss", r.TotalProfitLoss)
	w.Append("totalProfitLossPercent", r.TotalProfitLossPercent)
	return w.MarshalJSON()
}
