package services

import "github.com/novus318/resoi.server/models"

// ComputeTotal returns the cart total in minor units. Each line pays
// price*(100-offer)% times quantity; offers outside 0..100 are clamped.
// Integer arithmetic throughout, so there is no float drift and the result
// is independent of item order.
func ComputeTotal(items []models.CartItem) int64 {
	var total int64
	for _, item := range items {
		offer := int64(item.Offer)
		if offer < 0 {
			offer = 0
		}
		if offer > 100 {
			offer = 100
		}
		effective := item.Price * (100 - offer) / 100
		total += effective * int64(item.Quantity)
	}
	return total
}
