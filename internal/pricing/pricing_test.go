package pricing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"doganjib/internal/models"
)

func TestLineTotal(t *testing.T) {
	// Base 45000, style surcharge 15000, quantity 2, one ADD of 1 unit at
	// 8000: (45000+15000)*2 + 8000*1*2 = 136000.
	line := Line{
		BasePrice:      45000,
		StyleSurcharge: 15000,
		Quantity:       2,
		Customizations: []models.Customization{
			{Action: models.CustomizationAdd, DishID: 4, Quantity: 1, UnitPrice: 8000},
		},
	}
	assert.Equal(t, int64(136000), LineTotal(line))
}

func TestLineTotalRemoveSubtracts(t *testing.T) {
	line := Line{
		BasePrice:      48000,
		StyleSurcharge: 0,
		Quantity:       1,
		Customizations: []models.Customization{
			{Action: models.CustomizationRemove, DishID: 2, Quantity: 2, UnitPrice: 3000},
		},
	}
	assert.Equal(t, int64(42000), LineTotal(line))
}

func TestLineTotalIsIdempotent(t *testing.T) {
	line := Line{
		BasePrice:      120000,
		StyleSurcharge: 30000,
		Quantity:       3,
		Customizations: []models.Customization{
			{Action: models.CustomizationAdd, DishID: 7, Quantity: 2, UnitPrice: 5000},
			{Action: models.CustomizationRemove, DishID: 8, Quantity: 1, UnitPrice: 12000},
		},
	}
	first := LineTotal(line)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, LineTotal(line))
	}
}

func TestDiscount(t *testing.T) {
	assert.Equal(t, int64(13600), Discount(136000, 10))
	assert.Equal(t, int64(122400), DiscountedTotal(136000, 10))

	// Floor semantics.
	assert.Equal(t, int64(3), Discount(333, 1))

	// Degenerate inputs price at zero discount.
	assert.Zero(t, Discount(136000, 0))
	assert.Zero(t, Discount(136000, -5))
	assert.Zero(t, Discount(136000, 101))
	assert.Zero(t, Discount(0, 10))
}

func TestCartTotal(t *testing.T) {
	lines := []Line{
		{BasePrice: 45000, StyleSurcharge: 15000, Quantity: 2,
			Customizations: []models.Customization{
				{Action: models.CustomizationAdd, Quantity: 1, UnitPrice: 8000},
			}},
		{BasePrice: 42000, Quantity: 1},
	}
	assert.Equal(t, int64(178000), CartTotal(lines))
}

// fakeMenu serves canned dinner details and counts fetches.
type fakeMenu struct {
	details map[int64]*models.DinnerDetail
	fetches int
}

func (f *fakeMenu) MenuDetail(_ context.Context, dinnerID int64) (*models.DinnerDetail, error) {
	f.fetches++
	detail, ok := f.details[dinnerID]
	if !ok {
		return nil, fmt.Errorf("dinner %d not found", dinnerID)
	}
	return detail, nil
}

func valentineDetail() *models.DinnerDetail {
	return &models.DinnerDetail{
		ID:        1,
		Name:      "Valentine Dinner",
		BasePrice: 45000,
		Dishes: []models.Dish{
			{ID: 4, Name: "바게트빵", DefaultQuantity: 4, UnitPrice: 8000},
			{ID: 5, Name: "와인", DefaultQuantity: 1, UnitPrice: 12000},
		},
		AvailableStyles: []models.ServingStyle{
			{ID: 1, Name: "Simple", AdditionalPrice: 0},
			{ID: 2, Name: "Grand", AdditionalPrice: 15000},
		},
	}
}

func TestResolverFillsMissingUnitPrices(t *testing.T) {
	menu := &fakeMenu{details: map[int64]*models.DinnerDetail{1: valentineDetail()}}
	resolver := NewResolver(menu, nil)

	item := models.CartItem{
		DinnerID:       1,
		ServingStyleID: 2,
		Quantity:       2,
		Customizations: []models.Customization{
			{Action: models.CustomizationAdd, DishID: 4, Quantity: 1}, // unit price missing
		},
	}
	line := resolver.PriceCartItem(context.Background(), item)

	assert.Equal(t, int64(45000), line.BasePrice)
	assert.Equal(t, int64(15000), line.StyleSurcharge)
	assert.Equal(t, int64(8000), line.Customizations[0].UnitPrice)
	assert.Equal(t, int64(136000), LineTotal(line))
}

func TestResolverMemoizesDetailFetches(t *testing.T) {
	menu := &fakeMenu{details: map[int64]*models.DinnerDetail{1: valentineDetail()}}
	resolver := NewResolver(menu, nil)

	item := models.CartItem{DinnerID: 1, ServingStyleID: 1, Quantity: 1}
	resolver.PriceCartItem(context.Background(), item)
	resolver.PriceCartItem(context.Background(), item)
	resolver.PriceCartItem(context.Background(), item)

	assert.Equal(t, 1, menu.fetches)
}

func TestResolverFailureIsNonFatal(t *testing.T) {
	menu := &fakeMenu{details: map[int64]*models.DinnerDetail{}}
	resolver := NewResolver(menu, nil)

	item := models.CartItem{
		DinnerID:       9,
		ServingStyleID: 1,
		Quantity:       1,
		UnitPrice:      42000,
		Customizations: []models.Customization{
			{Action: models.CustomizationAdd, DishID: 4, Quantity: 2},
		},
	}
	line := resolver.PriceCartItem(context.Background(), item)

	// Unresolvable customization prices at zero; the line still renders with
	// the price the cart response already carried.
	assert.Equal(t, int64(42000), line.BasePrice)
	assert.Zero(t, line.Customizations[0].UnitPrice)
	assert.Equal(t, int64(42000), LineTotal(line))
}

func TestResolverDishOutsideDinnerPricesAtZero(t *testing.T) {
	menu := &fakeMenu{details: map[int64]*models.DinnerDetail{1: valentineDetail()}}
	resolver := NewResolver(menu, nil)

	item := models.CartItem{
		DinnerID:       1,
		ServingStyleID: 1,
		Quantity:       1,
		Customizations: []models.Customization{
			{Action: models.CustomizationAdd, DishID: 999, Quantity: 1},
		},
	}
	line := resolver.PriceCartItem(context.Background(), item)

	assert.Zero(t, line.Customizations[0].UnitPrice)
	assert.Equal(t, int64(45000), LineTotal(line))
}
