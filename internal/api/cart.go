package api

import (
	"context"
	"fmt"
	"net/http"

	"doganjib/internal/models"
)

// Cart returns the current user's cart.
func (c *Client) Cart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem appends one dinner line to the cart.
func (c *Client) AddCartItem(ctx context.Context, req models.CartItemRequest) (*models.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cart item: %w", err)
	}
	var cart models.Cart
	if err := c.do(ctx, http.MethodPost, "/api/cart/items", nil, req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItemQuantity changes the quantity of an existing line.
func (c *Client) UpdateCartItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	var cart models.Cart
	path := fmt.Sprintf("/api/cart/items/%d/quantity", itemID)
	req := models.UpdateQuantityRequest{Quantity: quantity}
	if err := c.do(ctx, http.MethodPut, path, nil, req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItemOptions changes the serving style and customizations of an
// existing line.
func (c *Client) UpdateCartItemOptions(ctx context.Context, itemID int64, req models.UpdateOptionsRequest) (*models.Cart, error) {
	var cart models.Cart
	path := fmt.Sprintf("/api/cart/items/%d/options", itemID)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes a line from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) (*models.Cart, error) {
	var cart models.Cart
	path := fmt.Sprintf("/api/cart/items/%d", itemID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Checkout submits the cart as an order.
func (c *Client) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.Order, error) {
	if req.DeliveryAddress == "" {
		return nil, fmt.Errorf("delivery address is required")
	}
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/checkout", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
