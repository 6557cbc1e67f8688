package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusNext(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		event   OrderEvent
		want    OrderStatus
		allowed bool
	}{
		{OrderPending, EventStart, OrderCooking, true},
		{OrderPending, EventCancel, OrderCanceled, true},
		{OrderPending, EventMarkReady, "", false},
		{OrderPending, EventComplete, "", false},

		{OrderCooking, EventMarkReady, OrderReady, true},
		{OrderCooking, EventCancel, OrderCanceled, true},
		{OrderCooking, EventStart, "", false},
		{OrderCooking, EventComplete, "", false},

		{OrderReady, EventComplete, OrderCompleted, true},
		{OrderReady, EventCancel, "", false},
		{OrderReady, EventStart, "", false},
		{OrderReady, EventMarkReady, "", false},

		{OrderCompleted, EventStart, "", false},
		{OrderCompleted, EventCancel, "", false},
		{OrderCompleted, EventComplete, "", false},
		{OrderCanceled, EventStart, "", false},
		{OrderCanceled, EventComplete, "", false},
	}

	for _, tc := range cases {
		got, ok := tc.from.Next(tc.event)
		assert.Equal(t, tc.allowed, ok, "%s + %s", tc.from, tc.event)
		if tc.allowed {
			assert.Equal(t, tc.want, got, "%s + %s", tc.from, tc.event)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderCompleted.Terminal())
	assert.True(t, OrderCanceled.Terminal())
	assert.False(t, OrderPending.Terminal())
	assert.False(t, OrderCooking.Terminal())
	assert.False(t, OrderReady.Terminal())
}

func TestComputeTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Name: "Borscht", UnitPrice: decimal.NewFromInt(350), Quantity: 2},
			{Name: "Tea", UnitPrice: decimal.RequireFromString("85.50"), Quantity: 1},
		},
	}
	order.ComputeTotal()

	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromInt(700)))
	assert.True(t, order.Items[1].Subtotal.Equal(decimal.RequireFromString("85.50")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("785.50")))
}

func TestComputeTotalEmpty(t *testing.T) {
	order := &Order{}
	order.ComputeTotal()
	assert.True(t, order.TotalAmount.IsZero())
}
