package replenish

import "github.com/shopops/opsdash/backend-go/internal/domain"

// RoundToPackSize rounds a quantity up to the nearest multiple of packSize.
// Unset or non-positive pack sizes and non-positive quantities pass through
// unchanged. The operation is idempotent.
func RoundToPackSize(quantity, packSize int) int {
	if packSize <= 0 || quantity <= 0 {
		return quantity
	}

	if rem := quantity % packSize; rem != 0 {
		return quantity + packSize - rem
	}

	return quantity
}

// SetOrderQuantity records a user-entered override on an order-sheet item,
// rounded up to the item's pack size.
func SetOrderQuantity(item *domain.ReplenishmentItem, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	rounded := RoundToPackSize(quantity, item.PackSize)
	item.OrderQuantity = &rounded
}

// SetPackSize changes the pack size on an order-sheet item and re-rounds both
// the suggested order and any existing override. Changing a pack size must
// never leave a previously entered quantity at a stale multiple.
func SetPackSize(item *domain.ReplenishmentItem, packSize int) {
	if packSize < 0 {
		packSize = 0
	}
	item.PackSize = packSize
	item.SuggestedOrder = RoundToPackSize(item.SuggestedOrder, packSize)
	if item.OrderQuantity != nil {
		rounded := RoundToPackSize(*item.OrderQuantity, packSize)
		item.OrderQuantity = &rounded
	}
}
