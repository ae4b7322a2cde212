package model

// Cart item types. A cart entry references either an individual lab test or
// a bundled package; the discriminator decides which upstream ID field is
// sent during submission.
const (
	ItemTypeTest    = "test"
	ItemTypePackage = "package"
)

// CartItem is one test or package the user intends to book. The cart is
// owned by the cart store; the booking flow only reads it and, on a
// successful submission, asks for it to be cleared.
//
// Fields:
//  ID    – upstream identifier of the test or package.
//  Name  – display name shown on the confirm step.
//  Price – unit price in the lab's currency.
//  Type  – ItemTypeTest or ItemTypePackage.
type CartItem struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Type  string  `json:"type"`
}

// CartTotal sums the prices of all items. Used for the confirm-step summary.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price
	}
	return total
}
