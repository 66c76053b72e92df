package voice

import (
	"fmt"
	"sort"
	"strings"

	"doganjib/internal/models"
)

// OrderDraft holds what the assistant has understood so far. Each interpreted
// turn is the source of truth for the draft: fields it carries replace the
// previous understanding wholesale. Customization deltas are stored relative
// to the dinner's default dish quantities, keyed by dish id. A delta of zero
// means the dish is back at its default and the entry is removed.
type OrderDraft struct {
	DinnerName     string
	DinnerID       int64
	ServingStyle   string
	ServingStyleID int64
	Quantity       int
	DeliveryDate   string
	Confirmed      bool

	deltas map[int64]int
}

// NewOrderDraft returns an empty draft with quantity 1.
func NewOrderDraft() *OrderDraft {
	return &OrderDraft{
		Quantity: 1,
		deltas:   make(map[int64]int),
	}
}

// Apply merges an interpreted order state into the draft. Fields the
// interpretation carries replace the previous value outright; omitted fields
// keep theirs, so partial updates never erase earlier turns. The
// customization list in particular is replaced wholesale, never diffed
// against the previous turn: a model that repeats the full list every turn
// must not double-count.
func (d *OrderDraft) Apply(state *OrderState) {
	if state == nil {
		return
	}
	if state.DinnerID != 0 && state.DinnerID != d.DinnerID {
		// Switching dinners invalidates dish-level adjustments.
		d.deltas = make(map[int64]int)
		d.ServingStyle = ""
		d.ServingStyleID = 0
	}
	if state.DinnerName != "" {
		d.DinnerName = state.DinnerName
	}
	if state.DinnerID != 0 {
		d.DinnerID = state.DinnerID
	}
	if state.ServingStyle != "" {
		d.ServingStyle = state.ServingStyle
	}
	if state.ServingStyleID != 0 {
		d.ServingStyleID = state.ServingStyleID
	}
	if state.Quantity > 0 {
		d.Quantity = state.Quantity
	}
	if state.DeliveryDate != "" {
		d.DeliveryDate = state.DeliveryDate
	}
	if state.IsConfirmed {
		d.Confirmed = true
	}
	if state.Customizations != nil {
		d.deltas = make(map[int64]int)
		for _, c := range state.Customizations {
			d.applyCustomization(c)
		}
	}
}

// applyCustomization folds one entry of the turn's customization list into
// the freshly rebuilt delta map. Entries within a single turn sum, so a list
// carrying both an ADD and a REMOVE for the same dish cancels out.
func (d *OrderDraft) applyCustomization(c StateCustomization) {
	if c.DishID == 0 || c.Quantity <= 0 {
		return
	}
	switch strings.ToUpper(c.Action) {
	case "ADD":
		d.deltas[c.DishID] += c.Quantity
	case "REMOVE":
		d.deltas[c.DishID] -= c.Quantity
	default:
		return
	}
	if d.deltas[c.DishID] == 0 {
		delete(d.deltas, c.DishID)
	}
}

// Complete reports whether the draft carries everything a cart line needs.
func (d *OrderDraft) Complete() bool {
	return d.DinnerID != 0 && d.ServingStyleID != 0 && d.Quantity > 0
}

// Missing lists the required fields the draft still lacks, in the order a
// clarification prompt should ask for them.
func (d *OrderDraft) Missing() []string {
	var missing []string
	if d.DinnerID == 0 {
		missing = append(missing, "dinner")
	}
	if d.ServingStyleID == 0 {
		missing = append(missing, "serving style")
	}
	return missing
}

// Customizations translates the accumulated deltas into cart customizations,
// resolving dish names and unit prices against the dinner detail. Positive
// deltas become ADD lines, negative ones REMOVE lines. Unknown dish ids are
// rejected so a hallucinated dish never reaches the cart.
func (d *OrderDraft) Customizations(detail *models.DinnerDetail) ([]models.Customization, error) {
	if len(d.deltas) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(d.deltas))
	for id := range d.deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.Customization, 0, len(ids))
	for _, id := range ids {
		dish, ok := detail.Dish(id)
		if !ok {
			return nil, fmt.Errorf("dish %d is not part of %s", id, detail.Name)
		}
		delta := d.deltas[id]
		c := models.Customization{
			DishID:    id,
			DishName:  dish.Name,
			UnitPrice: dish.UnitPrice,
		}
		if delta > 0 {
			c.Action = models.CustomizationAdd
			c.Quantity = delta
		} else {
			c.Action = models.CustomizationRemove
			c.Quantity = -delta
			if c.Quantity > dish.DefaultQuantity {
				return nil, fmt.Errorf("cannot remove %d of %s, only %d included", c.Quantity, dish.Name, dish.DefaultQuantity)
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// Delta returns the current adjustment for a dish, zero when untouched.
func (d *OrderDraft) Delta(dishID int64) int {
	return d.deltas[dishID]
}
