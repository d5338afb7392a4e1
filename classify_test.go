package networth

import "testing"

func TestClassify(t *testing.T) {
	testCases := []struct {
		name   string
		record Record
		want   Tag
	}{
		{"salary", cash("2024-01-25", "Bank", "Salary", "", 500), Income},
		{"groceries", cash("2024-01-12", "Bank", "Food", "Groceries", -200), Liability},
		{"investment transfer", cash("2024-01-15", "Bank", "Transfer", "Invest", -100), TransferInvestment},
		{"investment transfer with spaces", cash("2024-01-15", "Bank", " Transfer ", " Invest", -100), TransferInvestment},
		{"internal transfer out", cash("2024-01-15", "Bank", "Transfer", "Savings", -100), OtherTransfer},
		{"internal transfer in", cash("2024-01-15", "Savings", "Transfer", "Savings", 100), OtherTransfer},
		{"zero quantity", cash("2024-01-15", "Bank", "Fees", "", 0), Liability},
		{"refund", cash("2024-01-15", "Bank", "Food", "Groceries", 12.5), Income},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.record); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.record, got, tc.want)
			}
		})
	}
}

func TestTagged(t *testing.T) {
	records := Records{
		cash("2024-01-01", "Bank", "Salary", "", 500),
		cash("2024-01-02", "Bank", "Food", "", -20),
		cash("2024-01-03", "Bank", "Transfer", "Invest", -100),
		cash("2024-01-04", "Bank", "Transfer", "Other", -10),
	}
	got := records.Filter(Tagged(Income, Liability))
	if len(got) != 2 {
		t.Errorf("Filter(Tagged(Income, Liability)) len = %d, want 2", len(got))
	}
	if got := records.Filter(Tagged(OtherTransfer)); len(got) != 1 || got[0].Subcategory != "Other" {
		t.Errorf("Filter(Tagged(OtherTransfer)) = %v, want the Other transfer", got)
	}
}
