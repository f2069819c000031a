package domain

// CartItem is a single cart line. At most one item exists per product ID;
// repeated additions merge by summing quantity.
type CartItem struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Permalink string  `json:"permalink"`
}

// Cart is the ordered collection of cart items for one storefront client.
type Cart struct {
	Items []CartItem `json:"items"`
}

// FindItemIndex returns the index of the cart item with the given product ID,
// or -1 if the product is not in the cart.
func (c *Cart) FindItemIndex(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ItemCount returns the total number of units across all cart lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the price sum of all cart lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
