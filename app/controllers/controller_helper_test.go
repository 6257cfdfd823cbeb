package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roll2bowl/partner-api/app/models"
)

func TestParseUintValue(t *testing.T) {
	assert.Equal(t, uint(42), parseUintValue("42"))
	assert.Equal(t, uint(42), parseUintValue(" 42 "))
	assert.Equal(t, uint(0), parseUintValue(""))
	assert.Equal(t, uint(0), parseUintValue("abc"))
	assert.Equal(t, uint(0), parseUintValue("-5"))
	assert.Equal(t, uint(0), parseUintValue("4.2"))
}

func TestNormalizePhoneNumber(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizePhoneNumber("+91 98765 43210"))
	assert.Equal(t, "9876543210", NormalizePhoneNumber("(98765) 432-10"))
	assert.Equal(t, "", NormalizePhoneNumber(""))
	assert.Equal(t, "", NormalizePhoneNumber("not a number"))
	assert.Equal(t, "", NormalizePhoneNumber("12345"), "too short")
	assert.Equal(t, "", NormalizePhoneNumber("+12345678901234567890"), "too long")
}

func TestRecalcOrderTotals(t *testing.T) {
	order := models.Order{
		Tax:         10,
		DeliveryFee: 30,
	}
	order.Items.Data = []models.OrderItem{
		{Name: "Dosa", Quantity: 2, UnitPrice: 80},
		{Name: "Filter Coffee", Quantity: 0, UnitPrice: 25},
	}

	recalcOrderTotals(&order)

	assert.Equal(t, float64(160), order.Items.Data[0].TotalPrice)
	assert.Equal(t, 1, order.Items.Data[1].Quantity, "zero quantity defaults to one")
	assert.Equal(t, float64(25), order.Items.Data[1].TotalPrice)
	assert.Equal(t, float64(185), order.Subtotal)
	assert.Equal(t, float64(225), order.Total)
}
