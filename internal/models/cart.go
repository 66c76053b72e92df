package models

import "fmt"

// CustomizationAction tells the backend how a dish quantity deviates from the
// dinner's default composition.
type CustomizationAction string

const (
	CustomizationAdd    CustomizationAction = "ADD"
	CustomizationRemove CustomizationAction = "REMOVE"
)

// Customization is one per-dish quantity adjustment on a cart line. Quantity
// is always positive; the direction is carried by Action.
type Customization struct {
	Action   CustomizationAction `json:"action"`
	DishID   int64               `json:"dishId"`
	DishName string              `json:"dishName,omitempty"`
	Quantity int                 `json:"quantity"`
	// UnitPrice is populated by the order-detail endpoint but absent from the
	// lighter cart listing; pricing resolves it from the menu detail.
	UnitPrice int64 `json:"pricePerUnit,omitempty"`
}

// CartItemRequest adds one dinner line to the cart.
type CartItemRequest struct {
	DinnerID       int64           `json:"dinnerId"`
	ServingStyleID int64           `json:"servingStyleId"`
	Quantity       int             `json:"quantity"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// Validate rejects requests the backend would refuse anyway, before a round trip.
func (r *CartItemRequest) Validate() error {
	if r.DinnerID == 0 {
		return fmt.Errorf("dinner id is required")
	}
	if r.ServingStyleID == 0 {
		return fmt.Errorf("serving style id is required")
	}
	if r.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", r.Quantity)
	}
	for _, c := range r.Customizations {
		if c.Action != CustomizationAdd && c.Action != CustomizationRemove {
			return fmt.Errorf("unsupported customization action %q", c.Action)
		}
		if c.Quantity <= 0 {
			return fmt.Errorf("customization quantity for dish %d must be positive", c.DishID)
		}
	}
	return nil
}

// CartItem is one line of the server-side cart.
type CartItem struct {
	ID               int64           `json:"id"`
	DinnerID         int64           `json:"dinnerId"`
	DinnerName       string          `json:"dinnerName"`
	ServingStyleID   int64           `json:"servingStyleId"`
	ServingStyleName string          `json:"servingStyleName"`
	Quantity         int             `json:"quantity"`
	Customizations   []Customization `json:"customizations"`
	UnitPrice        int64           `json:"unitPrice"`
	TotalPrice       int64           `json:"totalPrice"`
}

// Cart is the whole server-side cart for the current user.
type Cart struct {
	CartID     int64      `json:"cartId"`
	Items      []CartItem `json:"items"`
	TotalPrice int64      `json:"totalPrice"`
}

// UpdateQuantityRequest changes the quantity of an existing cart line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateOptionsRequest changes the serving style and customizations of an
// existing cart line.
type UpdateOptionsRequest struct {
	ServingStyleID int64           `json:"servingStyleId"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// CheckoutRequest turns the cart into an order. DeliveryDate is ISO 8601.
type CheckoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
	DeliveryDate    string `json:"deliveryDate"`
}
