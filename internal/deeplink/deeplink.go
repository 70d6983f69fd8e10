// Package deeplink maps custom-scheme deep links handed off by in-app
// messages to destinations inside the retail app.
package deeplink

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Kind identifies the destination screen of a deep link.
type Kind int

const (
	KindProduct Kind = iota + 1
	KindCategory
	KindProducts
)

var kindNames = map[Kind]string{
	KindProduct:  "product",
	KindCategory: "category",
	KindProducts: "products",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Gender is the top-level department.
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
)

// Category is a product listing within a department.
type Category string

const (
	CategoryDressSuits        Category = "dress-suits"
	CategoryCoatsJackets      Category = "coats-jackets"
	CategoryBlazersSuitJacket Category = "blazers-suit-jackets"
	CategoryTopsTees          Category = "tops-tees"
	CategoryTies              Category = "ties"
	CategoryJeans             Category = "jeans"
	CategorySkirtsSkorts      Category = "skirts-skorts"
	CategoryDresses           Category = "dresses"
	CategorySweaters          Category = "sweaters"
)

var categories = map[string]Category{
	string(CategoryDressSuits):        CategoryDressSuits,
	string(CategoryCoatsJackets):      CategoryCoatsJackets,
	string(CategoryBlazersSuitJacket): CategoryBlazersSuitJacket,
	string(CategoryTopsTees):          CategoryTopsTees,
	string(CategoryTies):              CategoryTies,
	string(CategoryJeans):             CategoryJeans,
	string(CategorySkirtsSkorts):      CategorySkirtsSkorts,
	string(CategoryDresses):           CategoryDresses,
	string(CategorySweaters):          CategorySweaters,
}

// ParseGender accepts both the singular and plural path forms.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(s) {
	case "men", "mens":
		return GenderMen, true
	case "women", "womens":
		return GenderWomen, true
	}
	return "", false
}

// ParseCategory looks up a listing by its path slug.
func ParseCategory(s string) (Category, bool) {
	c, ok := categories[strings.ToLower(s)]
	return c, ok
}

// Deeplink is a routed destination. Only the fields relevant to Kind are set.
type Deeplink struct {
	Kind      Kind     `json:"kind"`
	ProductID string   `json:"product_id,omitempty"`
	Gender    Gender   `json:"gender,omitempty"`
	Category  Category `json:"category,omitempty"`
}

// Patterns are tried in order; the listing pattern comes before the
// department pattern because both start with /category/.
var (
	productPattern  = regexp.MustCompile(`^/?product/(\w+)/?$`)
	productsPattern = regexp.MustCompile(`^/?category/(\w+)/([\w-]+)/?$`)
	categoryPattern = regexp.MustCompile(`^/?category/(\w+)/?$`)
)

// Route resolves u to a destination. The scheme and host are ignored; only
// the path is matched.
func Route(u *url.URL) (Deeplink, bool) {
	if u == nil {
		return Deeplink{}, false
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}

	if m := productPattern.FindStringSubmatch(path); m != nil {
		return Deeplink{Kind: KindProduct, ProductID: m[1]}, true
	}
	if m := productsPattern.FindStringSubmatch(path); m != nil {
		gender, ok := ParseGender(m[1])
		if !ok {
			return Deeplink{}, false
		}
		category, ok := ParseCategory(m[2])
		if !ok {
			return Deeplink{}, false
		}
		return Deeplink{Kind: KindProducts, Gender: gender, Category: category}, true
	}
	if m := categoryPattern.FindStringSubmatch(path); m != nil {
		gender, ok := ParseGender(m[1])
		if !ok {
			return Deeplink{}, false
		}
		return Deeplink{Kind: KindCategory, Gender: gender}, true
	}
	return Deeplink{}, false
}

// RouteString parses raw and routes it.
func RouteString(raw string) (Deeplink, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return Deeplink{}, false
	}
	return Route(u)
}
