package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedegimenez/amaro-backend/pkg/config"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestAddItemMergesOnProductSizeColor(t *testing.T) {
	c := New()
	id := uuid.New()
	line := Line{ProductID: id, Name: "Remera básica", Price: decimal.NewFromInt(990), Size: strPtr("M"), Color: strPtr("negro")}

	c.AddItem(line, 1)
	c.AddItem(line, 2)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.Equal(t, 3, c.ItemCount)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(2970)))
}

func TestAddItemDifferentSizeIsSeparateLine(t *testing.T) {
	c := New()
	id := uuid.New()

	c.AddItem(Line{ProductID: id, Name: "Remera", Price: decimal.NewFromInt(990), Size: strPtr("M")}, 1)
	c.AddItem(Line{ProductID: id, Name: "Remera", Price: decimal.NewFromInt(990), Size: strPtr("L")}, 1)

	assert.Len(t, c.Lines, 2)
	assert.Equal(t, 2, c.ItemCount)
}

func TestAddItemNonPositiveQuantityDefaultsToOne(t *testing.T) {
	c := New()

	c.AddItem(Line{ProductID: uuid.New(), Name: "Buzo", Price: decimal.NewFromInt(1890)}, 0)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestRemoveItemDropsEveryVariantOfProduct(t *testing.T) {
	c := New()
	id := uuid.New()
	other := uuid.New()

	c.AddItem(Line{ProductID: id, Name: "Remera", Price: decimal.NewFromInt(990), Size: strPtr("M")}, 1)
	c.AddItem(Line{ProductID: id, Name: "Remera", Price: decimal.NewFromInt(990), Size: strPtr("L")}, 1)
	c.AddItem(Line{ProductID: other, Name: "Jean", Price: decimal.NewFromInt(2490)}, 1)

	c.RemoveItem(id)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, other, c.Lines[0].ProductID)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(2490)))
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	id := uuid.New()
	c.AddItem(Line{ProductID: id, Name: "Campera", Price: decimal.NewFromInt(4990)}, 2)

	c.UpdateQuantity(id, 0)

	assert.Empty(t, c.Lines)
	assert.Equal(t, 0, c.ItemCount)
	assert.True(t, c.Total.IsZero())
}

func TestUpdateQuantityRecomputesTotals(t *testing.T) {
	c := New()
	id := uuid.New()
	c.AddItem(Line{ProductID: id, Name: "Campera", Price: decimal.NewFromInt(4990)}, 1)

	c.UpdateQuantity(id, 3)

	assert.Equal(t, 3, c.ItemCount)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(14970)))
}

func TestClearEmptiesCart(t *testing.T) {
	c := New()
	c.AddItem(Line{ProductID: uuid.New(), Name: "Remera", Price: decimal.NewFromInt(990)}, 2)

	c.Clear()

	assert.Empty(t, c.Lines)
	assert.True(t, c.Total.IsZero())
	assert.Equal(t, 0, c.ItemCount)
}

func quoteTestConfig(t *testing.T) config.ShippingConfig {
	t.Helper()
	cfg := config.ShippingConfig{DeliveryFee: "250"}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestQuotePickupHasNoShippingCost(t *testing.T) {
	svc := NewService(quoteTestConfig(t))

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Lines: []Line{
			{ProductID: uuid.New(), Name: "Remera", Price: decimal.NewFromInt(990), Quantity: 2},
		},
		ShippingMethod: enums.ShippingMethodPickup,
	})
	require.NoError(t, err)

	assert.True(t, quote.ShippingCost.IsZero())
	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(1980)))
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(1980)))
}

func TestQuoteDeliveryAddsConfiguredFee(t *testing.T) {
	svc := NewService(quoteTestConfig(t))

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Lines: []Line{
			{ProductID: uuid.New(), Name: "Jean", Price: decimal.NewFromInt(2490), Quantity: 1},
		},
		ShippingMethod: enums.ShippingMethodDelivery,
	})
	require.NoError(t, err)

	assert.True(t, quote.ShippingCost.Equal(decimal.NewFromInt(250)))
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(2740)))
}

func TestQuoteRejectsNegativePrice(t *testing.T) {
	svc := NewService(quoteTestConfig(t))

	_, err := svc.Quote(context.Background(), QuoteInput{
		Lines: []Line{
			{ProductID: uuid.New(), Name: "Remera", Price: decimal.NewFromInt(-1), Quantity: 1},
		},
		ShippingMethod: enums.ShippingMethodPickup,
	})

	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestQuoteMergesDuplicateLines(t *testing.T) {
	svc := NewService(quoteTestConfig(t))
	id := uuid.New()

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Lines: []Line{
			{ProductID: id, Name: "Remera", Price: decimal.NewFromInt(990), Quantity: 1, Size: strPtr("M")},
			{ProductID: id, Name: "Remera", Price: decimal.NewFromInt(990), Quantity: 1, Size: strPtr("M")},
		},
		ShippingMethod: enums.ShippingMethodPickup,
	})
	require.NoError(t, err)

	require.Len(t, quote.Lines, 1)
	assert.Equal(t, 2, quote.Lines[0].Quantity)
	assert.Equal(t, 2, quote.ItemCount)
}
