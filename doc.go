// Package networth derives a person's cash position, investment holdings and net worth
// from flat transaction files.
//
// The inputs are a yearly init snapshot (liquidity per account and quantity per
// asset class and symbol, as of Dec 31 of the previous year) and the dated records
// of every month of the year, for both cash accounts and investments.
//
// The core functionalities include:
//   - Cashflow: monthly incomes, liabilities, savings, saving rate and investment
//     transfers, with the cumulative liquidity they leave on the accounts.
//   - Holdings: cumulative quantity per symbol, month by month and day by day for
//     the month in progress.
//   - Valuation: holdings joined with month-end closes and live quotes.
//   - Net worth: liquidity plus investments, with the change from one row to the next.
//
// Every monthly series is aligned on the month-end grid of the date package, from
// the init snapshot to the reporting cutoff. The month in progress is reported
// separately as a single "today" row appended to the closed months.
//
// Prices are fetched through the PriceFetcher interface, one implementation per
// AssetClass, and kept in an append-only PriceCache next to the data files.
package networth
