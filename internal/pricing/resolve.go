package pricing

import (
	"context"

	"go.uber.org/zap"

	"doganjib/internal/models"
)

// MenuSource supplies dinner detail records for unit-price resolution. The
// backend API client satisfies it.
type MenuSource interface {
	MenuDetail(ctx context.Context, dinnerID int64) (*models.DinnerDetail, error)
}

// Resolver fills in customization unit prices that lighter list responses
// omit, by looking dishes up in the owning dinner's detail record. Details
// are memoized per Resolver, so pricing a whole cart fetches each dinner at
// most once.
type Resolver struct {
	menu  MenuSource
	log   *zap.Logger
	cache map[int64]*models.DinnerDetail
}

// NewResolver builds a Resolver over the given menu source.
func NewResolver(menu MenuSource, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		menu:  menu,
		log:   log,
		cache: make(map[int64]*models.DinnerDetail),
	}
}

// PriceCartItem turns a cart line into a priced Line. Customizations whose
// unit price cannot be resolved are priced at zero and kept; a missing price
// never fails the whole line.
func (r *Resolver) PriceCartItem(ctx context.Context, item models.CartItem) Line {
	detail := r.detail(ctx, item.DinnerID)

	base := item.UnitPrice
	var surcharge int64
	if detail != nil {
		base = detail.BasePrice
		if style, ok := detail.Style(item.ServingStyleID); ok {
			surcharge = style.AdditionalPrice
		}
	}

	customs := make([]models.Customization, len(item.Customizations))
	copy(customs, item.Customizations)
	for i := range customs {
		if customs[i].UnitPrice != 0 {
			continue
		}
		customs[i].UnitPrice = r.unitPrice(detail, customs[i].DishID)
	}

	return Line{
		BasePrice:      base,
		StyleSurcharge: surcharge,
		Quantity:       item.Quantity,
		Customizations: customs,
	}
}

// unitPrice looks a dish price up in the detail record; unresolvable dishes
// price at zero.
func (r *Resolver) unitPrice(detail *models.DinnerDetail, dishID int64) int64 {
	if detail == nil {
		return 0
	}
	dish, ok := detail.Dish(dishID)
	if !ok {
		r.log.Debug("dish not found in dinner detail, pricing at zero",
			zap.Int64("dinner_id", detail.ID), zap.Int64("dish_id", dishID))
		return 0
	}
	return dish.UnitPrice
}

// detail fetches and memoizes a dinner detail. Fetch failures are non-fatal;
// the line renders with whatever prices it already carries.
func (r *Resolver) detail(ctx context.Context, dinnerID int64) *models.DinnerDetail {
	if cached, ok := r.cache[dinnerID]; ok {
		return cached
	}
	detail, err := r.menu.MenuDetail(ctx, dinnerID)
	if err != nil {
		r.log.Warn("failed to resolve dinner detail for pricing",
			zap.Int64("dinner_id", dinnerID), zap.Error(err))
		r.cache[dinnerID] = nil
		return nil
	}
	r.cache[dinnerID] = detail
	return detail
}
