package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentDecidedBody(t *testing.T) {
	assert.Equal(t,
		"Aarav's payment of ₹2500.00 is verified",
		paymentDecidedBody("Aarav", 250000, true))
	assert.Equal(t,
		"Aarav's payment of ₹2500.00 was rejected",
		paymentDecidedBody("Aarav", 250000, false))
}
