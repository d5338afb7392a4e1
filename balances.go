package networth

import (
	"cmp"
	"slices"
	"strings"

	"github.com/etnz/networth/date"
)

// Balance is the amount on one account.
type Balance struct {
	Account string
	Amount  Money
}

// Balances is the state of every account at a date.
type Balances struct {
	AsOf     date.Date
	Accounts []Balance
	Total    Money
}

// ComputeBalances returns the balance of every account at asOf: the init snapshot amount
// plus every record of the account up to asOf. Accounts absent from the snapshot start
// at zero. Amounts are rounded to the currency minor unit.
func ComputeBalances(records Records, snap *Snapshot, asOf date.Date) Balances {
	cur := snap.Currency
	records = records.Between(snap.AsOf.Add(1), asOf)

	accounts := records.Accounts()
	for _, a := range snap.Accounts() {
		if !slices.Contains(accounts, a) {
			accounts = append(accounts, a)
		}
	}
	slices.Sort(accounts)

	b := Balances{AsOf: asOf, Total: M(0, cur)}
	for _, account := range accounts {
		amount := M(0, cur).Add(snap.Liquidity[account])
		sum := total(records.Filter(func(r Record) bool { return strings.TrimSpace(r.Type) == account }))
		amount = amount.Add(M(sum.Decimal(), cur)).Round()
		b.Accounts = append(b.Accounts, Balance{Account: account, Amount: amount})
		b.Total = b.Total.Add(amount)
	}
	return b
}

// Expense is the amount spent in a category and subcategory.
type Expense struct {
	Category    string
	Subcategory string
	Amount      Money // positive
}

// ComputeExpenses aggregates the negative, non-transfer records of r by category and
// subcategory, as positive amounts. The result is sorted by decreasing amount.
func ComputeExpenses(records Records, r date.Range, currency string) []Expense {
	type key struct{ category, subcategory string }
	sums := make(map[key]Money)
	var keys []key
	for _, rec := range records.Between(r.From, r.To) {
		if rec.IsTransfer() || !rec.Quantity.IsNegative() {
			continue
		}
		k := key{strings.TrimSpace(rec.Category), strings.TrimSpace(rec.Subcategory)}
		if _, ok := sums[k]; !ok {
			keys = append(keys, k)
			sums[k] = M(0, currency)
		}
		sums[k] = sums[k].Add(M(rec.Quantity.Abs().Decimal(), currency))
	}

	expenses := make([]Expense, 0, len(keys))
	for _, k := range keys {
		expenses = append(expenses, Expense{Category: k.category, Subcategory: k.subcategory, Amount: sums[k]})
	}
	slices.SortFunc(expenses, func(a, b Expense) int {
		if c := b.Amount.Decimal().Cmp(a.Amount.Decimal()); c != 0 {
			return c
		}
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Subcategory, b.Subcategory))
	})
	return expenses
}
