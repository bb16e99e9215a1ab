package utils

import (
	"fmt"
)

// FormatMoney keeps consistent decimal formatting for price fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatPrice renders an amount with a currency code for documents.
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		return FormatMoney(amount)
	}
	return fmt.Sprintf("%s %s", FormatMoney(amount), currency)
}
