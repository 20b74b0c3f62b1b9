package cart

import (
	"fmt"

	"github.com/dmitrijs2005/primepost/internal/client/models"
)

// EffectivePrice applies a whole-percent discount with integer division:
// price - price*discount/100.
func EffectivePrice(price, discount int64) int64 {
	if discount <= 0 {
		return price
	}
	return price - price*discount/100
}

func LineTotal(item models.CartItem) int64 {
	return EffectivePrice(item.Product.Price, item.Product.Discount) * item.Quantity
}

// FormatPrice renders cents as dollars, e.g. 1234 -> "$12.34".
func FormatPrice(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
