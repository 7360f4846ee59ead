package model

// Money is a price amount in a single currency.
type Money struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

// SelectedOption is one (option name, value) pair on a variant.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Option is a named customization axis with its allowed values.
// Names are unique within a product; values are unique within an option.
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is one purchasable SKU of a product. It carries exactly one
// selected option per product option, and the full combination is
// unique across the product's variant list. Variants are immutable
// snapshots from the commerce backend.
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Price            Money            `json:"price"`
	AvailableForSale bool             `json:"available_for_sale"`
	SelectedOptions  []SelectedOption `json:"selected_options"`
}

// Image is a product image; the first image in a product is the default.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// Product is a catalog entry as returned by the storefront API,
// immutable for the lifetime of a page view.
type Product struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Options     []Option  `json:"options"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
}

// FeaturedImage returns the default image, if any.
func (p Product) FeaturedImage() *Image {
	if len(p.Images) == 0 {
		return nil
	}
	return &p.Images[0]
}

// VariantByID looks a variant up by its stable identifier.
func (p Product) VariantByID(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}
