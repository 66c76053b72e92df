package models

import (
	"fmt"
	"time"
)

// OrderStatus represents where an order sits in the fulfilment pipeline.
type OrderStatus string

const (
	OrderStatusCheckingStock OrderStatus = "CHECKING_STOCK"
	OrderStatusReceived      OrderStatus = "RECEIVED"
	OrderStatusInKitchen     OrderStatus = "IN_KITCHEN"
	OrderStatusDelivering    OrderStatus = "DELIVERING"
	OrderStatusDelivered     OrderStatus = "DELIVERED"
)

// statusRank orders the pipeline stages. Transitions only move forward, one
// stage at a time.
var statusRank = map[OrderStatus]int{
	OrderStatusCheckingStock: 0,
	OrderStatusReceived:      1,
	OrderStatusInKitchen:     2,
	OrderStatusDelivering:    3,
	OrderStatusDelivered:     4,
}

// ValidStatus reports whether s is a known pipeline stage.
func ValidStatus(s OrderStatus) bool {
	_, ok := statusRank[s]
	return ok
}

// ValidateTransition rejects backwards or stage-skipping status changes before
// they reach the backend.
func ValidateTransition(from, to OrderStatus) error {
	fromRank, ok := statusRank[from]
	if !ok {
		return fmt.Errorf("unknown order status %q", from)
	}
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("unknown order status %q", to)
	}
	if toRank != fromRank+1 {
		return fmt.Errorf("invalid status transition %s -> %s", from, to)
	}
	return nil
}

// OrderItem is one dinner line on a submitted order.
type OrderItem struct {
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

// Order is a submitted order as the backend reports it.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	Items           []OrderItem `json:"items"`
	Status          OrderStatus `json:"status"`
	DeliveryAddress string      `json:"deliveryAddress"`
	DeliveryDate    string      `json:"deliveryDate"`
	TotalPrice      int64       `json:"totalPrice"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// UpdateOrderStatusRequest is the staff status-transition payload.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// InventoryItem is one stock record from the staff inventory listing.
type InventoryItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
}

// StaffAvailability reports kitchen and delivery staffing levels.
type StaffAvailability struct {
	CooksAvailable   int `json:"cooksAvailable"`
	DriversAvailable int `json:"driversAvailable"`
	OrdersInKitchen  int `json:"ordersInKitchen"`
	OrdersDelivering int `json:"ordersDelivering"`
}
