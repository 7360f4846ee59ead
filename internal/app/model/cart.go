package model

// ProductSnapshot is the minimal product data copied onto a line item
// so the cart renders without a refetch.
type ProductSnapshot struct {
	ID       string `json:"id"`
	Handle   string `json:"handle"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
}

// LineItem is one cart entry. VariantID is a weak reference: the cart
// does not validate the variant's continued existence on the backend.
// Price is captured at time of add.
type LineItem struct {
	VariantID       string           `json:"variant_id"`
	Product         ProductSnapshot  `json:"product"`
	VariantTitle    string           `json:"variant_title"`
	Price           Money            `json:"price"`
	SelectedOptions []SelectedOption `json:"selected_options"`
	Quantity        int              `json:"quantity"`
}

// LineTotal is the line's contribution to the subtotal.
func (li LineItem) LineTotal() float64 {
	return li.Price.Amount * float64(li.Quantity)
}

// Cart is an ordered sequence of line items. A variant id appears at
// most once; every quantity is >= 1.
type Cart struct {
	Lines []LineItem `json:"lines"`
}

// Subtotal sums price.amount x quantity across lines (same currency
// assumed).
func (c Cart) Subtotal() float64 {
	var subtotal float64
	for _, li := range c.Lines {
		subtotal += li.LineTotal()
	}
	return subtotal
}

// ItemCount sums line quantities.
func (c Cart) ItemCount() int {
	var count int
	for _, li := range c.Lines {
		count += li.Quantity
	}
	return count
}

// LineIndex returns the index of the line holding variantID, or -1.
func (c Cart) LineIndex(variantID string) int {
	for i, li := range c.Lines {
		if li.VariantID == variantID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so observers and persisted snapshots never
// alias the store's internal state.
func (c Cart) Clone() Cart {
	clone := Cart{Lines: make([]LineItem, len(c.Lines))}
	copy(clone.Lines, c.Lines)
	for i := range clone.Lines {
		opts := make([]SelectedOption, len(c.Lines[i].SelectedOptions))
		copy(opts, c.Lines[i].SelectedOptions)
		clone.Lines[i].SelectedOptions = opts
	}
	return clone
}
