package networth

import (
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Snapshot is the state of accounts and investments at the end of the previous year.
// It is the starting point of every cumulative series of a reporting year.
type Snapshot struct {
	AsOf      date.Date // Dec 31 of the year before the reporting year
	Currency  string    // currency of the liquidity balances
	Liquidity map[string]Money
	Assets    map[AssetClass]map[string]Quantity
}

// NewSnapshot returns an empty snapshot for the reporting year.
func NewSnapshot(year int, currency string) *Snapshot {
	return &Snapshot{
		AsOf:      date.LastYearEnd(year),
		Currency:  currency,
		Liquidity: make(map[string]Money),
		Assets:    make(map[AssetClass]map[string]Quantity),
	}
}

// Year returns the reporting year the snapshot opens.
func (s *Snapshot) Year() int { return s.AsOf.Year() + 1 }

// TotalLiquidity returns the sum of all account balances.
func (s *Snapshot) TotalLiquidity() Money {
	total := M(0, s.Currency)
	for _, account := range s.Accounts() {
		total = total.Add(s.Liquidity[account])
	}
	return total
}

// Accounts returns the sorted account names.
func (s *Snapshot) Accounts() []string { return slices.Sorted(maps.Keys(s.Liquidity)) }

// SetAsset records the opening quantity of a symbol.
func (s *Snapshot) SetAsset(class AssetClass, symbol string, q Quantity) {
	if s.Assets[class] == nil {
		s.Assets[class] = make(map[string]Quantity)
	}
	s.Assets[class][symbol] = q
}

// InitRecords converts the opening quantities into investment records dated AsOf,
// with category Init, sorted by class then symbol.
func (s *Snapshot) InitRecords() Records {
	var rs Records
	for _, class := range AssetClasses() {
		symbols := s.Assets[class]
		for _, symbol := range slices.Sorted(maps.Keys(symbols)) {
			rs = append(rs, Record{
				Date:     s.AsOf,
				Type:     class.String(),
				Category: CategoryInit,
				Symbol:   symbol,
				Quantity: symbols[symbol],
			})
		}
	}
	return rs
}

// jsonSnapshot is the persisted layout of a snapshot, <year>_init.json.
type jsonSnapshot struct {
	Liquidity map[string]decimal.Decimal                `json:"liquidity_eur"`
	Assets    map[AssetClass]map[string]decimal.Decimal `json:"assets"`
}

// DecodeSnapshot reads the init snapshot of year.
func DecodeSnapshot(r io.Reader, year int, currency string) (*Snapshot, error) {
	var js jsonSnapshot
	if err := json.NewDecoder(r).Decode(&js); err != nil {
		return nil, errors.Wrap(err, "cannot decode init snapshot")
	}
	s := NewSnapshot(year, currency)
	for account, v := range js.Liquidity {
		s.Liquidity[account] = M(v, currency)
	}
	for class, symbols := range js.Assets {
		for symbol, q := range symbols {
			s.SetAsset(class, symbol, Q(q))
		}
	}
	return s, nil
}

// EncodeSnapshot writes s in the layout read by DecodeSnapshot.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	js := jsonSnapshot{
		Liquidity: make(map[string]decimal.Decimal),
		Assets:    make(map[AssetClass]map[string]decimal.Decimal),
	}
	for account, m := range s.Liquidity {
		js.Liquidity[account] = m.Decimal()
	}
	for class, symbols := range s.Assets {
		js.Assets[class] = make(map[string]decimal.Decimal)
		for symbol, q := range symbols {
			js.Assets[class][symbol] = q.Decimal()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(js)
}

// yearIsReportable checks that year is not in the future of today.
func yearIsReportable(year int, today date.Date) error {
	if year > today.Year() {
		return errors.Wrapf(ErrConfiguration, "year %d is in the future", year)
	}
	if year < 1900 {
		return errors.Wrapf(ErrConfiguration, "invalid year %d", year)
	}
	return nil
}
