package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is matched by every error returned from ParseAmount and ResolvePrice.
var ErrMalformedAmount = errors.New("malformed amount")

// MalformedAmountError reports the price string that could not be converted.
type MalformedAmountError struct {
	Amount string
	Err    error
}

func (e *MalformedAmountError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed amount %q: %v", e.Amount, e.Err)
	}
	return fmt.Sprintf("malformed amount %q", e.Amount)
}

func (e *MalformedAmountError) Is(target error) bool { return target == ErrMalformedAmount }

func (e *MalformedAmountError) Unwrap() error { return e.Err }

// ParseAmount strips the currency symbol from a price cell like "$899.00"
// and converts it to an exact decimal.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.Trim(strings.TrimSpace(amountStr), "$")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, &MalformedAmountError{Amount: amountStr, Err: errors.New("empty amount")}
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &MalformedAmountError{Amount: amountStr, Err: err}
	}
	if amount.IsNegative() {
		return decimal.Zero, &MalformedAmountError{Amount: amountStr, Err: errors.New("negative amount")}
	}
	return amount, nil
}

// ResolvePrice returns the lower of the standard and sale prices.
// A blank sale price means the listing is not on sale.
func ResolvePrice(stdPriceStr, salePriceStr string) (decimal.Decimal, error) {
	price, err := ParseAmount(stdPriceStr)
	if err != nil {
		return decimal.Zero, err
	}
	if strings.TrimSpace(salePriceStr) == "" {
		return price, nil
	}

	salePrice, err := ParseAmount(salePriceStr)
	if err != nil {
		return decimal.Zero, err
	}
	if salePrice.LessThan(price) {
		price = salePrice
	}
	return price, nil
}
