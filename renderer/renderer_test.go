package renderer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/holdings"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// document is the structure of a rendered markdown: its headings, the cells
// of its tables (header row included) and its list items.
type document struct {
	headings []string
	rows     [][]string
	items    []string
}

// textOf concatenates the text segments below n.
func textOf(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func parse(t *testing.T, markdown string) document {
	t.Helper()
	source := []byte(markdown)
	root := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser().Parse(text.NewReader(source))

	var doc document
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			doc.headings = append(doc.headings, textOf(v, source))
			return ast.WalkSkipChildren, nil
		case *east.TableHeader, *east.TableRow:
			var row []string
			for c := v.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, textOf(c, source))
			}
			doc.rows = append(doc.rows, row)
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			doc.items = append(doc.items, textOf(v, source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return doc
}

func USD(v float64) holdings.Money { return holdings.M(v, "USD") }

func valuate(t *testing.T, prices map[string]holdings.Money, lots ...holdings.Position) *holdings.Report {
	t.Helper()
	ledger := holdings.NewLedger("USD", holdings.PairwiseAverage)
	for _, lot := range lots {
		if _, err := ledger.AddPosition(lot.Symbol, lot.Shares, lot.CostBasis); err != nil {
			t.Fatalf("AddPosition(%q) error = %v", lot.Symbol, err)
		}
	}
	lookup := holdings.PriceLookupFunc(func(ctx context.Context, symbol string) (holdings.Money, error) {
		p, ok := prices[symbol]
		if !ok {
			return holdings.Money{}, errors.New("no data")
		}
		return p, nil
	})
	return holdings.NewValuator(lookup).Valuate(context.Background(), ledger)
}

func TestReportMarkdown(t *testing.T) {
	report := valuate(t,
		map[string]holdings.Money{"AAPL": USD(180)},
		holdings.Position{Symbol: "AAPL", Shares: holdings.Q(10), CostBasis: USD(150)},
		holdings.Position{Symbol: "AAPL", Shares: holdings.Q(5), CostBasis: USD(170)},
		holdings.Position{Symbol: "TSLA", Shares: holdings.Q(2), CostBasis: USD(200)},
	)
	doc := parse(t, ReportMarkdown(report))

	wantHeadings := []string{"Portfolio Summary", "Quotes unavailable", "Overall Portfolio"}
	if strings.Join(doc.headings, "|") != strings.Join(wantHeadings, "|") {
		t.Errorf("headings = %q, want %q", doc.headings, wantHeadings)
	}

	if len(doc.rows) != 3 {
		t.Fatalf("table has %d rows, want 3 (header + 2): %q", len(doc.rows), doc.rows)
	}
	if !strings.EqualFold(doc.rows[0][6], "P/L") {
		t.Errorf("header = %q, want a P/L column", doc.rows[0])
	}
	wantAAPL := []string{"AAPL", "15", "$160.00", "$180.00", "$2,400.00", "$2,700.00", "+$300.00", "+12.50%"}
	if strings.Join(doc.rows[1], "|") != strings.Join(wantAAPL, "|") {
		t.Errorf("AAPL row = %q, want %q", doc.rows[1], wantAAPL)
	}
	wantTSLA := []string{"TSLA", "2", "$200.00", "n/a", "$400.00", "n/a", "n/a", "n/a"}
	if strings.Join(doc.rows[2], "|") != strings.Join(wantTSLA, "|") {
		t.Errorf("TSLA row = %q, want %q", doc.rows[2], wantTSLA)
	}

	wantItems := []string{
		"TSLA: no data",
		"Cost basis method: pairwise",
		"Total Investment: $2,400.00",
		"Total Current Value: $2,700.00",
		"Total P/L: +$300.00 (+12.50%)",
	}
	if strings.Join(doc.items, "|") != strings.Join(wantItems, "|") {
		t.Errorf("items = %q, want %q", doc.items, wantItems)
	}
}

func TestReportMarkdown_Empty(t *testing.T) {
	doc := parse(t, ReportMarkdown(valuate(t, nil)))

	if len(doc.rows) != 0 {
		t.Errorf("empty report has a table: %q", doc.rows)
	}
	wantItems := []string{
		"Cost basis method: pairwise",
		"Total Investment: $0.00",
		"Total Current Value: $0.00",
		"Total P/L: - (-)",
	}
	if strings.Join(doc.items, "|") != strings.Join(wantItems, "|") {
		t.Errorf("items = %q, want %q", doc.items, wantItems)
	}
}

func TestPositionsMarkdown(t *testing.T) {
	ledger := holdings.NewLedger("USD", holdings.WeightedAverage)
	ledger.AddPosition("msft", holdings.Q(10), USD(300))
	ledger.AddPosition("aapl", holdings.Q(2.5), USD(100))

	got := PositionsMarkdown(ledger)
	doc := parse(t, got)
	if len(doc.rows) != 3 {
		t.Fatalf("table has %d rows, want 3: %q", len(doc.rows), doc.rows)
	}
	if doc.rows[1][0] != "MSFT" || doc.rows[2][0] != "AAPL" {
		t.Errorf("rows = %q, want MSFT then AAPL", doc.rows)
	}
	if doc.rows[2][3] != "$250.00" {
		t.Errorf("AAPL investment = %q, want $250.00", doc.rows[2][3])
	}
	wantItems := []string{"Cost basis method: weighted", "Total investment: $3,250.00"}
	if strings.Join(doc.items, "|") != strings.Join(wantItems, "|") {
		t.Errorf("items = %q, want %q", doc.items, wantItems)
	}

	empty := PositionsMarkdown(holdings.NewLedger("USD", holdings.PairwiseAverage))
	if !strings.Contains(empty, "No positions") {
		t.Errorf("PositionsMarkdown(empty) = %q, want a no positions line", empty)
	}
}

func TestAdditionMarkdown(t *testing.T) {
	ledger := holdings.NewLedger("USD", holdings.PairwiseAverage)
	first, _ := ledger.AddPosition("aapl", holdings.Q(10), USD(150))
	second, _ := ledger.AddPosition("AAPL", holdings.Q(5), USD(170))

	if got, want := AdditionMarkdown(first), "Added 10 shares of AAPL at $150.00 each.\n"; got != want {
		t.Errorf("AdditionMarkdown() = %q, want %q", got, want)
	}
	got := AdditionMarkdown(second)
	if !strings.HasPrefix(got, "Added 5 shares of AAPL at $170.00 each.") {
		t.Errorf("AdditionMarkdown() = %q, want the added lot first", got)
	}
	if !strings.Contains(got, "Now holding 15 shares of AAPL, cost basis $160.00.") {
		t.Errorf("AdditionMarkdown() = %q, want the merged position", got)
	}
}

func TestRemovalMarkdown(t *testing.T) {
	ledger := holdings.NewLedger("USD", holdings.PairwiseAverage)
	ledger.AddPosition("MSFT", holdings.Q(1), USD(1))

	_, err := ledger.RemovePosition("msft")
	if got, want := RemovalMarkdown("msft", err), "Removed MSFT from portfolio.\n"; got != want {
		t.Errorf("RemovalMarkdown() = %q, want %q", got, want)
	}
	_, err = ledger.RemovePosition("msft")
	if got, want := RemovalMarkdown("msft", err), "MSFT not found in portfolio.\n"; got != want {
		t.Errorf("RemovalMarkdown() = %q, want %q", got, want)
	}
}

func TestQuoteMarkdown(t *testing.T) {
	table := QuotesHeader() +
		QuoteMarkdown("aapl", USD(180.5), nil) +
		QuoteMarkdown("tsla", holdings.Money{}, errors.New("no data"))
	doc := parse(t, table)

	if len(doc.rows) != 3 {
		t.Fatalf("table has %d rows, want 3: %q", len(doc.rows), doc.rows)
	}
	if doc.rows[1][0] != "AAPL" || doc.rows[1][1] != "$180.50" {
		t.Errorf("AAPL row = %q, want [AAPL $180.50 ]", doc.rows[1])
	}
	if doc.rows[2][1] != "n/a" || doc.rows[2][2] != "no data" {
		t.Errorf("TSLA row = %q, want [TSLA n/a no data]", doc.rows[2])
	}
}

func TestEscapeCell(t *testing.T) {
	if got, want := escapeCell("a|b\nc"), `a\|b c`; got != want {
		t.Errorf("escapeCell() = %q, want %q", got, want)
	}
}
