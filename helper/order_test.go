package helper

import (
	"lomaro_whatsapp/constants"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderCode(t *testing.T) {
	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "LOM-20260831120000-4567", GenerateOrderCode("923001234567", at))
	// Non-digits are stripped before taking the last four.
	assert.Equal(t, "LOM-20260831120000-4567", GenerateOrderCode("+92 300-123-4567", at))
	// Too few digits falls back to 0000.
	assert.Equal(t, "LOM-20260831120000-0000", GenerateOrderCode("123", at))
	assert.Equal(t, "LOM-20260831120000-0000", GenerateOrderCode("", at))
}

func TestStatusChangeAllowed(t *testing.T) {
	// Admins may set any status, including cancellation.
	assert.True(t, StatusChangeAllowed(true, constants.ORDER_STATUS_CANCELLED))
	assert.True(t, StatusChangeAllowed(true, constants.ORDER_STATUS_CONFIRMED))

	// Operators handle the normal flow but cannot cancel.
	assert.True(t, StatusChangeAllowed(false, constants.ORDER_STATUS_NEW))
	assert.True(t, StatusChangeAllowed(false, constants.ORDER_STATUS_CONFIRMED))
	assert.False(t, StatusChangeAllowed(false, constants.ORDER_STATUS_CANCELLED))
}
