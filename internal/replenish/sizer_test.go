package replenish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

func TestSuggestedOrder(t *testing.T) {
	tests := []struct {
		name      string
		avgWeekly float64
		freq      domain.OrderFrequency
		stock     float64
		want      int
	}{
		{"biweekly with stock on hand", 10, domain.FreqBiweekly, 5, 15},
		{"stock covers demand", 3, domain.FreqWeekly, 10, 0},
		{"fractional demand rounds up", 2.3, domain.FreqWeekly, 0, 3},
		{"twice weekly", 10, domain.FreqTwiceWeekly, 2, 3},
		{"zero velocity", 0, domain.FreqMonthly, 0, 0},
		{"negative stock clamps to zero", 4, domain.FreqWeekly, -7, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SuggestedOrder(tt.avgWeekly, tt.freq, tt.stock)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestedOrderRejectsInvalidFrequency(t *testing.T) {
	for _, freq := range []domain.OrderFrequency{0, -1, 1.5, 100} {
		_, err := SuggestedOrder(10, freq, 0)
		assert.ErrorIs(t, err, ErrInvalidFrequency, "frequency %v", float64(freq))
	}
}

func TestSuggestedOrderNeverNegative(t *testing.T) {
	for _, freq := range domain.OrderFrequencies() {
		for _, avgWeekly := range []float64{0, 0.1, 5, 123.7} {
			for _, stock := range []float64{0, 1, 50, 10000} {
				got, err := SuggestedOrder(avgWeekly, freq, stock)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got, 0)
			}
		}
	}
}
