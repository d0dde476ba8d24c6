// Package holdings tracks a personal portfolio of stock positions and values
// it at current market prices.
//
// The package is free of I/O:
//   - Ledger: an in-memory map from ticker symbol to Position (share count and
//     cost basis). Purchases of an already held symbol are merged according
//     to a CostBasisMethod.
//   - Valuator: looks up the current price of every position through a
//     PriceLookup and produces a Report with per-position and total
//     investment, current value and profit/loss.
//
// Price providers live in the quote package, rendering in the renderer
// package, and the `track` command-line tool in the cmd package.
package holdings
