// Package pricing computes display prices for cart lines and carts. The
// backend's own totals stay authoritative for billing; everything here is
// pure, deterministic arithmetic over values the client already holds.
package pricing

import (
	"doganjib/internal/models"
)

// Line is the priced view of one cart or order line.
type Line struct {
	BasePrice      int64
	StyleSurcharge int64
	Quantity       int
	Customizations []models.Customization
}

// LineTotal prices one line: (base + surcharge) x quantity, adjusted by each
// customization's unit price x its quantity x the line quantity, added for
// ADD and subtracted for REMOVE.
func LineTotal(line Line) int64 {
	total := (line.BasePrice + line.StyleSurcharge) * int64(line.Quantity)
	for _, c := range line.Customizations {
		delta := int64(c.Quantity) * c.UnitPrice * int64(line.Quantity)
		switch c.Action {
		case models.CustomizationAdd:
			total += delta
		case models.CustomizationRemove:
			total -= delta
		}
	}
	return total
}

// CartTotal sums the line totals.
func CartTotal(lines []Line) int64 {
	var total int64
	for _, line := range lines {
		total += LineTotal(line)
	}
	return total
}

// Discount returns the member-grade discount on total: floor of percent
// applied to the pre-discount sum. Out-of-range percentages yield zero.
func Discount(total int64, percent int) int64 {
	if percent <= 0 || percent > 100 || total <= 0 {
		return 0
	}
	return total * int64(percent) / 100
}

// DiscountedTotal returns the displayed final amount after the member-grade
// discount.
func DiscountedTotal(total int64, percent int) int64 {
	return total - Discount(total, percent)
}
