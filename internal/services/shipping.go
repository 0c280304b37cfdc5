package services

import "strings"

// Spellings that identify a Dhaka-area delivery, matched as
// case-insensitive substrings of the shipping city.
var dhakaSpellings = []string{"dhaka", "ঢাকা"}

// ShippingCost applies the flat city-based delivery rule: one rate for
// Dhaka-area cities, another for everywhere else.
func ShippingCost(city string, insideDhaka, outsideDhaka float64) float64 {
	lower := strings.ToLower(city)
	for _, spelling := range dhakaSpellings {
		if strings.Contains(lower, spelling) {
			return insideDhaka
		}
	}
	return outsideDhaka
}
