package utils

import "math/rand"

const orderCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const OrderCodeLength = 5

// GenerateOrderCode returns a short code customers use to find their order
// at the counter. Codes are not checked for uniqueness; they are a display
// lookup aid, never a key.
func GenerateOrderCode() string {
	code := make([]byte, OrderCodeLength)
	for i := range code {
		code[i] = orderCodeChars[rand.Intn(len(orderCodeChars))]
	}
	return string(code)
}
