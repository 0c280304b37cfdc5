package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingCost(t *testing.T) {
	cases := []struct {
		city string
		want float64
	}{
		{"Dhaka", 80},
		{"dhaka", 80},
		{"DHAKA", 80},
		{"Old Dhaka", 80},
		{"Dhaka North", 80},
		{"ঢাকা", 80},
		{"Chattogram", 150},
		{"Sylhet", 150},
		{"", 150},
	}

	for _, tc := range cases {
		t.Run(tc.city, func(t *testing.T) {
			assert.Equal(t, tc.want, ShippingCost(tc.city, 80, 150))
		})
	}
}
