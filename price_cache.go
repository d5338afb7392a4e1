package networth

import (
	"bufio"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceCache keeps the fetched month end closes of each (symbol, currency) in an
// append-only JSONL file of the reporting year:
//
//	<root>/<year>/investments/exchange/<SYMBOL>-<CURRENCY>.jsonl
//
// one {"date": ..., "close": ...} object per line, in chronological order.
type PriceCache struct {
	root   string
	logger *zap.Logger
}

// NewPriceCache returns a cache stored under the data root.
func NewPriceCache(root string, logger *zap.Logger) *PriceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceCache{root: root, logger: logger}
}

// jclose is one line of a cache file.
type jclose struct {
	Date  date.Date       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// Path returns the cache file of a symbol.
func (c *PriceCache) Path(year int, symbol, currency string) string {
	return filepath.Join(c.root, strconv.Itoa(year), "investments", "exchange", symbol+"-"+currency+".jsonl")
}

// Load reads the cached closes of a symbol. A missing file is reported with an error
// matching fs.ErrNotExist.
func (c *PriceCache) Load(year int, symbol, currency string) (*date.History[decimal.Decimal], error) {
	path := c.Path(year, symbol, currency)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open price cache")
	}
	defer f.Close()

	h := new(date.History[decimal.Decimal])
	scanner := bufio.NewScanner(f)
	for i := 1; scanner.Scan(); i++ {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var jc jclose
		if err := json.Unmarshal(line, &jc); err != nil {
			return nil, errors.Wrapf(err, "format error in %q on line %d", path, i)
		}
		h.Append(jc.Date, jc.Close)
	}
	return h, errors.Wrapf(scanner.Err(), "cannot read %q", path)
}

// Append adds to the cache the closes dated after the last cached one.
func (c *PriceCache) Append(year int, symbol, currency string, closes *date.History[decimal.Decimal]) error {
	var last date.Date
	cached, err := c.Load(year, symbol, currency)
	switch {
	case err == nil:
		last, _ = cached.Latest()
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	path := c.Path(year, symbol, currency)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "cannot create price cache folder")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "cannot open price cache")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	n := 0
	for on, v := range closes.Values() {
		if !last.IsZero() && !on.After(last) {
			continue
		}
		if err := enc.Encode(jclose{Date: on, Close: v}); err != nil {
			return errors.Wrapf(err, "cannot write %q", path)
		}
		n++
	}
	c.logger.Debug("price cache appended", zap.String("path", path), zap.Int("closes", n))
	return errors.Wrapf(w.Flush(), "cannot write %q", path)
}

// History returns the month end closes of a symbol from Dec 31 of the previous year to
// cutoff, reading through the cache.
//
// A cache that reaches cutoff is used as is. A stale cache is completed with a fetch
// going back from today to the year of the last cached close, keeping only the closes
// after it. A missing cache is filled with a lookbackYears fetch restricted to the
// reporting range.
//
// When the fetch fails, the cached closes, if any, are returned along with the error.
func (c *PriceCache) History(ctx context.Context, f PriceFetcher, year int, symbol, currency string, cutoff, today date.Date, lookbackYears int) (*date.History[decimal.Decimal], error) {
	from := date.LastYearEnd(year)
	log := c.logger.With(zap.String("symbol", symbol), zap.String("currency", currency))

	cached, err := c.Load(year, symbol, currency)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err == nil && cached.Len() > 0 {
		last, _ := cached.Latest()
		if !last.Before(cutoff) {
			log.Debug("price cache hit", zap.Stringer("last", last))
			return cached.Between(from, cutoff), nil
		}
		log.Info("refreshing price cache", zap.Error(errors.Wrapf(ErrStaleCache, "last close on %s, cutoff %s", last, cutoff)))
		fetched, err := f.FetchHistory(ctx, symbol, currency, max(today.Year()-last.Year()+1, 1))
		if err != nil {
			return cached.Between(from, cutoff), errors.Wrapf(err, "cannot refresh %s-%s", symbol, currency)
		}
		newer := fetched.Between(last.Add(1), cutoff)
		if err := c.Append(year, symbol, currency, newer); err != nil {
			return cached.Between(from, cutoff), err
		}
		for on, v := range newer.Values() {
			cached.Append(on, v)
		}
		if last, _ = cached.Latest(); last.Before(cutoff) {
			log.Warn("price cache still stale", zap.Error(errors.Wrapf(ErrStaleCache, "last close on %s, cutoff %s", last, cutoff)))
		}
		return cached.Between(from, cutoff), nil
	}

	log.Info("filling price cache", zap.Int("lookback_years", lookbackYears))
	fetched, err := f.FetchHistory(ctx, symbol, currency, lookbackYears)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot fetch %s-%s", symbol, currency)
	}
	closes := fetched.Between(from, cutoff)
	if err := c.Append(year, symbol, currency, closes); err != nil {
		return closes, err
	}
	return closes, nil
}
