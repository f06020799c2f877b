// Package navigation replaces URL routing with an in-memory view pointer.
//
// A Selector holds the current ViewID and an optional selected entity.
// Resolve applies the access policy to that state and yields the view that
// should actually be rendered; Gate is the same policy for a single subtree.
package navigation

import (
	"fmt"
	"strings"
)

// ViewID identifies one full-screen view.
type ViewID string

const (
	Home          ViewID = "home"
	Products      ViewID = "products"
	Community     ViewID = "community"
	Sell          ViewID = "sell"
	Carts         ViewID = "carts"
	Account       ViewID = "account"
	Login         ViewID = "login"
	ProductDetail ViewID = "product-detail"
)

// AllViews lists every ViewID in display order.
var AllViews = []ViewID{
	Home,
	Products,
	Community,
	Sell,
	Carts,
	Account,
	Login,
	ProductDetail,
}

// Valid reports whether v is one of the known views.
func (v ViewID) Valid() bool {
	for _, known := range AllViews {
		if v == known {
			return true
		}
	}
	return false
}

func (v ViewID) String() string {
	return string(v)
}

// ParseViewID parses a view id. Matching ignores case and surrounding space.
func ParseViewID(s string) (ViewID, error) {
	v := ViewID(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return Home, fmt.Errorf("unknown view %q", s)
	}
	return v, nil
}

// EntityID identifies the backend entity shown by the product-detail view.
type EntityID int64
