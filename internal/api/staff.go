package api

import (
	"context"
	"fmt"
	"net/http"

	"doganjib/internal/models"
)

// ActiveOrders returns every order not yet delivered. Staff only.
func (c *Client) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/staff/orders/active", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// UpdateOrderStatus moves an order to the next pipeline stage. Staff only.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	var order models.Order
	path := fmt.Sprintf("/api/staff/orders/%d/status", orderID)
	req := models.UpdateOrderStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPut, path, nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Inventory returns the stock listing. Staff only.
func (c *Client) Inventory(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := c.do(ctx, http.MethodGet, "/api/staff/inventory", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// StaffAvailability reports kitchen and delivery staffing. Staff only.
func (c *Client) StaffAvailability(ctx context.Context) (*models.StaffAvailability, error) {
	var availability models.StaffAvailability
	if err := c.do(ctx, http.MethodGet, "/api/staff/availability", nil, nil, &availability); err != nil {
		return nil, err
	}
	return &availability, nil
}

// DriverReturn marks a delivery driver as back and available. Staff only.
func (c *Client) DriverReturn(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/staff/drivers/return", nil, nil, nil)
}
