package storefront

import (
	"fmt"
	"strconv"

	"github.com/krale/krale-storefront/internal/app/model"
)

// Wire shapes of the storefront query protocol. Connections come back
// as edges/nodes; toModel flattens them into the domain model and
// rejects structurally malformed nodes.

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   *responseData  `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

type responseData struct {
	Products        *productConnection `json:"products"`
	ProductByHandle *productNode       `json:"productByHandle"`
}

type productConnection struct {
	Edges []struct {
		Node productNode `json:"node"`
	} `json:"edges"`
}

type productNode struct {
	ID          string       `json:"id"`
	Handle      string       `json:"handle"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Options     []optionNode `json:"options"`
	Images      struct {
		Edges []struct {
			Node imageNode `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type optionNode struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type variantNode struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	AvailableForSale bool      `json:"availableForSale"`
	Price            *moneyNode `json:"price"`
	SelectedOptions  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"selectedOptions"`
}

type moneyNode struct {
	// Amount comes over the wire as a decimal string.
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (n productNode) toModel() (model.Product, error) {
	if n.ID == "" || n.Title == "" {
		return model.Product{}, fmt.Errorf("product node missing id or title")
	}

	p := model.Product{
		ID:          n.ID,
		Handle:      n.Handle,
		Title:       n.Title,
		Description: n.Description,
	}

	for _, o := range n.Options {
		if o.Name == "" {
			return model.Product{}, fmt.Errorf("product %s: option missing name", n.ID)
		}
		p.Options = append(p.Options, model.Option{Name: o.Name, Values: o.Values})
	}

	for _, e := range n.Images.Edges {
		if e.Node.URL == "" {
			return model.Product{}, fmt.Errorf("product %s: image missing url", n.ID)
		}
		p.Images = append(p.Images, model.Image{URL: e.Node.URL, AltText: e.Node.AltText})
	}

	for _, e := range n.Variants.Edges {
		v, err := e.Node.toModel()
		if err != nil {
			return model.Product{}, fmt.Errorf("product %s: %w", n.ID, err)
		}
		p.Variants = append(p.Variants, v)
	}

	if len(p.Variants) == 0 {
		return model.Product{}, fmt.Errorf("product %s has no variants", n.ID)
	}

	return p, nil
}

func (n variantNode) toModel() (model.Variant, error) {
	if n.ID == "" {
		return model.Variant{}, fmt.Errorf("variant missing id")
	}
	if n.Price == nil {
		return model.Variant{}, fmt.Errorf("variant %s missing price", n.ID)
	}
	amount, err := strconv.ParseFloat(n.Price.Amount, 64)
	if err != nil {
		return model.Variant{}, fmt.Errorf("variant %s: unparsable price amount %q", n.ID, n.Price.Amount)
	}

	v := model.Variant{
		ID:               n.ID,
		Title:            n.Title,
		AvailableForSale: n.AvailableForSale,
		Price: model.Money{
			Amount:       amount,
			CurrencyCode: n.Price.CurrencyCode,
		},
	}
	for _, so := range n.SelectedOptions {
		if so.Name == "" {
			return model.Variant{}, fmt.Errorf("variant %s: selected option missing name", n.ID)
		}
		v.SelectedOptions = append(v.SelectedOptions, model.SelectedOption{Name: so.Name, Value: so.Value})
	}
	return v, nil
}
