package networth

import "github.com/etnz/networth/date"

// sumBy adds up the quantities of records per period bucket, see date.Period.Bucket.
func sumBy(records Records, p date.Period) map[date.Date]Quantity {
	sums := make(map[date.Date]Quantity)
	for _, r := range records {
		k := p.Bucket(r.Date)
		sums[k] = sums[k].Add(r.Quantity)
	}
	return sums
}

// total adds up the quantities of records.
func total(records Records) Quantity {
	var t Quantity
	for _, r := range records {
		t = t.Add(r.Quantity)
	}
	return t
}

// aligned returns the per period sums of records on every date of grid, zero where
// no record falls.
func aligned(records Records, p date.Period, grid []date.Date) *date.History[Quantity] {
	return date.Align(grid, sumBy(records, p), Quantity{})
}

// cumulate returns the running sum of h, starting from base.
func cumulate(h *date.History[Quantity], base Quantity) *date.History[Quantity] {
	res := new(date.History[Quantity])
	sum := base
	for on, q := range h.Values() {
		sum = sum.Add(q)
		res.Append(on, sum)
	}
	return res
}
