package networth

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Kind is the kind of period files.
type Kind string

const (
	CashflowKind    Kind = "cashflow"
	InvestmentsKind Kind = "investments"
)

// symbolColumn returns the header of the symbol column of a kind of file.
func (k Kind) symbolColumn() string {
	if k == CashflowKind {
		return "coin"
	}
	return "symbol"
}

// PeriodFile returns the path of the file of kind for a month, without extension:
// <root>/<year>/<kind>/<year>-<MM>_<kind>.
func PeriodFile(root string, kind Kind, year, month int) string {
	return filepath.Join(root, strconv.Itoa(year), string(kind), fmt.Sprintf("%d-%02d_%s", year, month, kind))
}

// LoadRecords reads the period files of kind for every month of year, sorted by date.
//
// Each month is read from its .csv file, or from its .xlsx file when there is no csv.
// Missing months are skipped and logged. The data root itself must exist.
func LoadRecords(root string, kind Kind, year int, logger *zap.Logger) (Records, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(root); err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "data path %q: %v", root, err)
	}

	var records Records
	for month := 1; month <= 12; month++ {
		base := PeriodFile(root, kind, year, month)
		rs, err := loadPeriodFile(base, kind, logger)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("skipping month", zap.String("kind", string(kind)), zap.Int("month", month), zap.Error(errors.Wrap(ErrDataGap, base)))
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rs...)
	}
	records.Sort()
	return records, nil
}

// loadPeriodFile reads base.csv, or base.xlsx if the csv does not exist.
func loadPeriodFile(base string, kind Kind, logger *zap.Logger) (Records, error) {
	f, err := os.Open(base + ".csv")
	if err == nil {
		defer f.Close()
		rs, err := DecodeRecords(f, kind, logger)
		return rs, errors.Wrapf(err, "in %q", base+".csv")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if _, err := os.Stat(base + ".xlsx"); err != nil {
		return nil, err
	}
	rs, err := LoadRecordsXLSX(base+".xlsx", kind, logger)
	return rs, errors.Wrapf(err, "in %q", base+".xlsx")
}

// DecodeRecords reads records from a csv with a header line.
//
// Columns are found by name, case insensitive and trimmed: Date, Type, Category,
// Subcategory, Qty, and optionally Description and Coin (cashflow) or Symbol
// (investments).
func DecodeRecords(r io.Reader, kind Kind, logger *zap.Logger) (Records, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "invalid csv")
	}
	return decodeRows(rows, kind, logger)
}

// LoadRecordsXLSX reads records from the first sheet of a spreadsheet, with the same
// columns as DecodeRecords.
func LoadRecordsXLSX(path string, kind Kind, logger *zap.Logger) (Records, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets found in file")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "reading sheet")
	}
	return decodeRows(rows, kind, logger)
}

// decodeRows turns a header line and data lines into records.
// Lines without a date or a quantity are skipped as data gaps.
func decodeRows(rows [][]string, kind Kind, logger *zap.Logger) (Records, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(rows) == 0 {
		return nil, nil
	}
	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "type", "category", "subcategory", "qty"} {
		if _, ok := columns[required]; !ok {
			return nil, errors.Errorf("missing column %q", required)
		}
	}
	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records Records
	for i, row := range rows[1:] {
		line := i + 2
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		rawDate, rawQty := cell(row, "date"), cell(row, "qty")
		if rawDate == "" || rawQty == "" {
			logger.Warn("skipping incomplete record", zap.Int("line", line), zap.Error(ErrDataGap))
			continue
		}
		on, err := date.Parse(rawDate)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		q, err := ParseQuantity(rawQty)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		records = append(records, Record{
			Date:        on,
			Type:        cell(row, "type"),
			Category:    cell(row, "category"),
			Subcategory: cell(row, "subcategory"),
			Symbol:      cell(row, kind.symbolColumn()),
			Quantity:    q,
			Description: cell(row, "description"),
		})
	}
	return records, nil
}

// SnapshotFile returns the path of the init snapshot of year.
func SnapshotFile(root string, year int) string {
	return filepath.Join(root, strconv.Itoa(year), fmt.Sprintf("%d_init.json", year))
}

// LoadSnapshot reads the init snapshot of year. A missing snapshot is a configuration
// error: nothing can be accumulated without it.
func LoadSnapshot(root string, year int, currency string) (*Snapshot, error) {
	path := SnapshotFile(root, year)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "init snapshot: %v", err)
	}
	defer f.Close()
	s, err := DecodeSnapshot(f, year, currency)
	return s, errors.Wrapf(err, "in %q", path)
}
