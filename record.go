package networth

import (
	"slices"
	"strings"

	"github.com/etnz/networth/date"
)

// Well known categories.
const (
	CategoryTransfer  = "Transfer"
	SubcategoryInvest = "Invest"
	// CategoryInit marks the synthetic records built from the init snapshot.
	CategoryInit = "Init"
)

// Record is one line of a cashflow or investments file.
//
// On a cashflow record Type is the account and Symbol the coin, when the file has one.
// On an investment record Type is the asset class and Symbol the traded asset.
// Quantity is positive for an inflow (income, buy) and negative for an outflow.
type Record struct {
	Date        date.Date
	Type        string
	Category    string
	Subcategory string
	Symbol      string
	Quantity    Quantity
	Description string
}

// IsTransfer reports whether r moves money between the owner's own accounts.
func (r Record) IsTransfer() bool { return strings.TrimSpace(r.Category) == CategoryTransfer }

// AssetClass returns the asset class of an investment record.
func (r Record) AssetClass() (AssetClass, error) { return ParseAssetClass(r.Type) }

// Records is a chronological list of records.
type Records []Record

// Sort sorts records by date, keeping the file order of records on the same day.
func (rs Records) Sort() {
	slices.SortStableFunc(rs, func(a, b Record) int { return a.Date.Compare(b.Date) })
}

// Between returns the records dated in [from, to], bounds included.
func (rs Records) Between(from, to date.Date) Records {
	var res Records
	for _, r := range rs {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		res = append(res, r)
	}
	return res
}

// Filter returns the records for which keep returns true.
func (rs Records) Filter(keep func(Record) bool) Records {
	var res Records
	for _, r := range rs {
		if keep(r) {
			res = append(res, r)
		}
	}
	return res
}

// Accounts returns the sorted, unique Type values of records.
func (rs Records) Accounts() []string {
	var accounts []string
	for _, r := range rs {
		if a := strings.TrimSpace(r.Type); !slices.Contains(accounts, a) {
			accounts = append(accounts, a)
		}
	}
	slices.Sort(accounts)
	return accounts
}
