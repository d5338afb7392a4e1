package networth

import "github.com/pkg/errors"

var (
	// ErrConfiguration reports a bad data path, a year in the future, an unknown asset
	// class or an asset class without a price fetcher.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataGap reports a missing period file or a record with a missing field.
	// It is recovered where it is found: the file or record is skipped.
	ErrDataGap = errors.New("data gap")

	// ErrDivisionUndefined is returned by ratios with a zero denominator.
	ErrDivisionUndefined = errors.New("division undefined")

	// ErrExternalFetch reports a network, status or payload failure of a price source.
	ErrExternalFetch = errors.New("external fetch failed")

	// ErrStaleCache reports a cached price series that ends before the reporting cutoff.
	ErrStaleCache = errors.New("stale price cache")
)
