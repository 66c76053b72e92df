package api

import (
	"context"
	"fmt"
	"net/http"

	"doganjib/internal/models"
)

// Orders returns the current user's order history, newest first.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// Order returns one order with full line and customization detail.
func (c *Client) Order(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/api/orders/%d", orderID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
