package domain

import (
	"strconv"
	"strings"
)

// ProductImage is one entry of a product's ordered image list.
type ProductImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// ProductCategory is a category a product is assigned to.
type ProductCategory struct {
	ID   int64  `json:"id,omitempty"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Product mirrors the upstream catalog's product schema. The catalog owns and
// mutates products; this side never persists them, each request re-fetches.
type Product struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Price            string            `json:"price"`
	PriceHTML        string            `json:"price_html"`
	Images           []ProductImage    `json:"images"`
	Categories       []ProductCategory `json:"categories"`
	ShortDescription string            `json:"short_description"`
	Description      string            `json:"description"`
	Permalink        string            `json:"permalink"`
}

// NumericPrice derives a plain number from whatever price representation the
// product carries by stripping every non-numeric character. Unparseable
// prices yield 0.
func (p *Product) NumericPrice() float64 {
	return ParsePrice(p.Price)
}

// ParsePrice strips currency symbols and markup from a price string and
// parses the remainder as a decimal number. Returns 0 when nothing numeric
// is left.
func ParsePrice(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// PrimaryImage returns the first image source, or empty when the product has none.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}

// InCategory reports whether any of the product's categories matches the
// given filter by case-insensitive substring against slug or name.
// An empty or "all" filter matches every product.
func (p *Product) InCategory(filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == "all" {
		return true
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c.Slug), filter) ||
			strings.Contains(strings.ToLower(c.Name), filter) {
			return true
		}
	}
	return false
}
