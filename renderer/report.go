// Package renderer renders holdings reports and ledger outcomes as markdown.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/holdings"
	md "github.com/nao1215/markdown"
)

const notAvailable = "n/a"

// ReportMarkdown renders a valuation report.
func ReportMarkdown(r *holdings.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio Summary")
	if len(r.Rows) == 0 {
		doc.PlainText("No positions in the portfolio.")
	} else {
		table := md.TableSet{
			Header: []string{"Symbol", "Shares", "Cost Basis", "Current Price", "Investment", "Current Value", "P/L", "P/L %"},
		}
		for _, row := range r.Rows {
			if !row.Available() {
				table.Rows = append(table.Rows, []string{
					row.Symbol,
					row.Shares.String(),
					row.CostBasis.String(),
					notAvailable,
					row.Investment.String(),
					notAvailable,
					notAvailable,
					notAvailable,
				})
				continue
			}
			table.Rows = append(table.Rows, []string{
				row.Symbol,
				row.Shares.String(),
				row.CostBasis.String(),
				row.CurrentPrice.String(),
				row.Investment.String(),
				row.CurrentValue.String(),
				row.ProfitLoss.SignedString(),
				row.ProfitLossPercent.SignedString(),
			})
		}
		doc.Table(table)
	}

	if unavailable := r.Unavailable(); len(unavailable) > 0 {
		doc.H2("Quotes unavailable")
		items := make([]string, 0, len(unavailable))
		for _, qe := range unavailable {
			items = append(items, fmt.Sprintf("%s: %v", qe.Symbol, qe.Err))
		}
		doc.BulletList(items...)
	}

	doc.H2("Overall Portfolio")
	doc.BulletList(
		fmt.Sprintf("Cost basis method: %s", r.Method),
		fmt.Sprintf("Total Investment: %s", r.TotalInvestment),
		fmt.Sprintf("Total Current Value: %s", r.TotalCurrentValue),
		fmt.Sprintf("Total P/L: %s (%s)", r.TotalProfitLoss.SignedString(), r.TotalProfitLossPercent.SignedString()),
	)
	return doc.String()
}

// PositionsMarkdown renders the positions of a ledger, without market prices.
func PositionsMarkdown(l *holdings.Ledger) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Positions")
	if l.Len() == 0 {
		doc.PlainText("No positions in the portfolio.")
		return doc.String()
	}
	table := md.TableSet{Header: []string{"Symbol", "Shares", "Cost Basis", "Investment"}}
	total := holdings.M(0, l.Currency())
	for symbol, pos := range l.Positions() {
		table.Rows = append(table.Rows, []string{
			symbol,
			pos.Shares.String(),
			pos.CostBasis.String(),
			pos.Investment().String(),
		})
		total = total.Add(pos.Investment())
	}
	doc.Table(table)
	doc.BulletList(
		fmt.Sprintf("Cost basis method: %s", l.Method()),
		fmt.Sprintf("Total investment: %s", total),
	)
	return doc.String()
}
