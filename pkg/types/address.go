package types

import "strings"

// Address is the delivery address snapshot stored on carts and orders (jsonb).
type Address struct {
	Label      string  `json:"label,omitempty"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Phone      string  `json:"phone,omitempty"`
}

// Validate reports the first missing required field, if any.
func (a Address) Validate() string {
	switch {
	case strings.TrimSpace(a.Line1) == "":
		return "line1"
	case strings.TrimSpace(a.City) == "":
		return "city"
	case strings.TrimSpace(a.State) == "":
		return "state"
	case strings.TrimSpace(a.PostalCode) == "":
		return "postal_code"
	}
	return ""
}
