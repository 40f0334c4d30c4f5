package pricecheck

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyPrice     = errors.New("empty price text")
	ErrMalformedPrice = errors.New("malformed price")
	ErrNegativePrice  = errors.New("negative price")
	ErrZeroPrice      = errors.New("price must be positive")
)

var (
	plainPrice   = regexp.MustCompile(`^\d+(\.\d+)?$`)
	groupedPrice = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// ParsePrice strips whitespace and currency symbols (Unicode Sc), then
// accepts plain digits with an optional fractional part. A comma is only
// read as a thousands separator in well-formed groups of three digits, so
// "1,049.50" parses while a decimal comma such as "29,99" is rejected.
// The result must be positive. "$29.99" -> 29.99.
func ParsePrice(text string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, text)

	if cleaned == "" {
		return decimal.Zero, ErrEmptyPrice
	}
	if strings.HasPrefix(cleaned, "-") {
		return decimal.Zero, ErrNegativePrice
	}

	switch {
	case plainPrice.MatchString(cleaned):
	case groupedPrice.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedPrice, text)
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %w", ErrMalformedPrice, text, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, ErrZeroPrice
	}
	return price, nil
}
