package replenish

import (
	"fmt"
	"math"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

// SuggestedOrder computes the raw reorder quantity for one item:
// max(0, ceil(avgWeekly × frequency) − currentStock). Negative stock inputs
// are manual-entry mistakes and clamp to zero rather than reject.
func SuggestedOrder(avgWeekly float64, freq domain.OrderFrequency, currentStock float64) (int, error) {
	if !freq.Valid() {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidFrequency, float64(freq))
	}

	if avgWeekly < 0 {
		avgWeekly = 0
	}
	if currentStock < 0 {
		currentStock = 0
	}

	need := math.Ceil(avgWeekly*freq.Weeks()) - currentStock
	if need <= 0 {
		return 0, nil
	}

	return int(math.Ceil(need)), nil
}
