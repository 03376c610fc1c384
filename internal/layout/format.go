package layout

import (
	"fmt"
	"strconv"
)

// FormatMoney renders an amount as a dollar string with two decimals
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatNumber renders v in its shortest decimal form: 2, 2.5, 8.25
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
