package networth

import (
	"fmt"
	"strings"
)

// Tag is the role of a cashflow record in the monthly accounting.
type Tag int

const (
	Income Tag = iota
	Liability
	TransferInvestment
	// OtherTransfer moves money between the owner's own accounts. It is neither an
	// income nor an expense.
	OtherTransfer
)

func (t Tag) String() string {
	switch t {
	case Income:
		return "Income"
	case Liability:
		return "Liability"
	case TransferInvestment:
		return "Transfer-Investment"
	case OtherTransfer:
		return "Other-Transfer"
	default:
		panic(fmt.Sprintf("unknown tag %d", t))
	}
}

// Classify tags a cashflow record.
//
// A non-transfer record with a zero quantity is a Liability. It changes no sum, but
// it is counted with the expenses.
func Classify(r Record) Tag {
	if r.IsTransfer() {
		if strings.TrimSpace(r.Subcategory) == SubcategoryInvest {
			return TransferInvestment
		}
		return OtherTransfer
	}
	if r.Quantity.IsPositive() {
		return Income
	}
	return Liability
}

// Tagged returns a predicate selecting the records classified as one of tags.
func Tagged(tags ...Tag) func(Record) bool {
	return func(r Record) bool {
		t := Classify(r)
		for _, want := range tags {
			if t == want {
				return true
			}
		}
		return false
	}
}
