package api

import (
	"context"
	"fmt"
	"net/http"

	"doganjib/internal/models"
)

// MenuList returns the dinner catalog listing.
func (c *Client) MenuList(ctx context.Context) ([]models.Dinner, error) {
	var dinners []models.Dinner
	if err := c.do(ctx, http.MethodGet, "/api/menu", nil, nil, &dinners); err != nil {
		return nil, err
	}
	return dinners, nil
}

// MenuDetail returns the full record for one dinner: dishes with default
// quantities and unit prices, plus the available serving styles.
func (c *Client) MenuDetail(ctx context.Context, dinnerID int64) (*models.DinnerDetail, error) {
	var detail models.DinnerDetail
	path := fmt.Sprintf("/api/menu/%d", dinnerID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
