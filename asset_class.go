package networth

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// AssetClass is the closed set of investment classes the valuation knows how to price.
type AssetClass int

const (
	Cryptocurrencies AssetClass = iota + 1
	ETFs
)

// AssetClasses lists every supported class, in display order.
func AssetClasses() []AssetClass { return []AssetClass{Cryptocurrencies, ETFs} }

func (c AssetClass) String() string {
	switch c {
	case Cryptocurrencies:
		return "Cryptocurrencies"
	case ETFs:
		return "ETFs"
	default:
		return fmt.Sprintf("AssetClass(%d)", int(c))
	}
}

// ParseAssetClass reads the asset class name used in the Type column of investment
// files and in the init snapshot. Unknown names are a configuration error.
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cryptocurrencies", "cryptocurrency", "crypto":
		return Cryptocurrencies, nil
	case "etfs", "etf":
		return ETFs, nil
	default:
		return 0, errors.Wrapf(ErrConfiguration, "unknown asset class %q", s)
	}
}

func (c AssetClass) MarshalText() ([]byte, error) {
	if c != Cryptocurrencies && c != ETFs {
		return nil, errors.Wrapf(ErrConfiguration, "unknown asset class %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *AssetClass) UnmarshalText(text []byte) error {
	v, err := ParseAssetClass(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
