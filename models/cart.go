package models

// Cart lives in Redis, not in the relational store. A cart holds items from
// exactly one cook; adding an item from another cook replaces the cart.
type Cart struct {
	CustomerID uint       `json:"customer_id"`
	CookID     uint       `json:"cook_id"`
	CookName   string     `json:"cook_name"`
	Items      []CartItem `json:"items"`
}

type CartItem struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// Subtotal sums price*quantity over the cart items.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
