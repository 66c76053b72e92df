package models

import "fmt"

// Dinner is the lightweight menu listing record. It carries no per-dish
// pricing; callers that need dish unit prices must fetch the DinnerDetail.
type Dinner struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BasePrice   int64  `json:"basePrice"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Dish is a component dish of a dinner. DefaultQuantity is the number of
// units included in the base price; UnitPrice is the charge per added unit
// and the credit per removed unit.
type Dish struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DefaultQuantity int    `json:"defaultQuantity"`
	UnitPrice       int64  `json:"unitPrice"`
}

// ServingStyle is a presentation tier with a fixed surcharge on top of the
// dinner base price.
type ServingStyle struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	AdditionalPrice int64  `json:"additionalPrice"`
}

// DinnerDetail is the full menu record for a single dinner.
type DinnerDetail struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	BasePrice       int64          `json:"basePrice"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	Dishes          []Dish         `json:"dishes"`
	AvailableStyles []ServingStyle `json:"availableStyles"`
}

// Dish returns the dish with the given id, if the dinner includes it.
func (d *DinnerDetail) Dish(dishID int64) (Dish, bool) {
	for _, dish := range d.Dishes {
		if dish.ID == dishID {
			return dish, true
		}
	}
	return Dish{}, false
}

// Style returns the serving style with the given id, if this dinner offers it.
func (d *DinnerDetail) Style(styleID int64) (ServingStyle, bool) {
	for _, style := range d.AvailableStyles {
		if style.ID == styleID {
			return style, true
		}
	}
	return ServingStyle{}, false
}

// ValidateDinnerDetail checks the invariants the pricing and ordering code
// relies on.
func ValidateDinnerDetail(d *DinnerDetail) error {
	if d.Name == "" {
		return fmt.Errorf("dinner name is required")
	}
	if d.BasePrice <= 0 {
		return fmt.Errorf("dinner base price must be greater than 0")
	}
	if len(d.AvailableStyles) == 0 {
		return fmt.Errorf("dinner must offer at least one serving style")
	}
	for _, dish := range d.Dishes {
		if dish.DefaultQuantity < 0 {
			return fmt.Errorf("dish %q has negative default quantity", dish.Name)
		}
		if dish.UnitPrice < 0 {
			return fmt.Errorf("dish %q has negative unit price", dish.Name)
		}
	}
	return nil
}
