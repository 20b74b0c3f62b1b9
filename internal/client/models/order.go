package models

import "fmt"

// Product is a snapshot of a store product taken when it was added to the
// cart. Prices are in cents; Discount is a whole percentage.
type Product struct {
	ID         string `json:"id"`
	StoreID    string `json:"storeId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	StockQty   int64  `json:"stockQty"`
	Discount   int64  `json:"discount,omitempty"`
	OutOfStock bool   `json:"outOfStock"`
}

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentMobileMoney PaymentMethod = "mobileMoney"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "", "cash":
		return PaymentCash, nil
	case "mobileMoney", "mobile", "momo":
		return PaymentMobileMoney, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type Order struct {
	StoreID       string        `json:"storeId"`
	Items         []OrderItem   `json:"items"`
	TableNumber   string        `json:"tableNumber,omitempty"`
	SpecialNote   string        `json:"specialNote,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}
