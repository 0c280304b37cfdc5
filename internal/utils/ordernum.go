package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNumber allocates a customer-facing order number of the
// form ORD-<timestamp>-<random>. The nanosecond timestamp plus a six
// digit random suffix keeps bulk allocation collision-free; uniqueness
// is additionally backed by the unique index on orders.order_number.
func GenerateOrderNumber() string {
	suffix, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return fmt.Sprintf("ORD-%d-%06d", time.Now().UnixNano(), time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("ORD-%d-%06d", time.Now().UnixNano(), suffix.Int64())
}
