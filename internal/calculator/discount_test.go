package calculator

import (
	"testing"

	"github.com/mmynk/bonuswiser/internal/models"
)

func TestDiscountFor(t *testing.T) {
	tests := []struct {
		amount int64
		rate   float64
		want   int64
	}{
		{20000, 10, 2000},
		{20000, 15, 3000},
		{999, 10, 100}, // 99.9 rounds up
		{994, 10, 99},
		{0, 10, 0},
		{12345, 2.5, 309},
	}

	for _, tt := range tests {
		if got := DiscountFor(tt.amount, tt.rate); got != tt.want {
			t.Errorf("DiscountFor(%d, %v) = %d, want %d", tt.amount, tt.rate, got, tt.want)
		}
	}
}

func TestGroupTotal(t *testing.T) {
	byID := IndexPurchases([]models.Purchase{
		purchase("p1", 1, line(12000, true)),
		purchase("p2", 2, line(8000, true), line(5000, false)),
		purchase("p3", 3, line(3333, true)),
	})

	tests := []struct {
		name    string
		bundles []models.Bundle
		rate    float64
		want    int64
		wantErr bool
	}{
		{
			name:    "single bundle of two purchases",
			bundles: []models.Bundle{{PurchaseIDs: []string{"p1", "p2"}}},
			rate:    10,
			want:    2000,
		},
		{
			name: "rounded once over the group",
			bundles: []models.Bundle{
				{PurchaseIDs: []string{"p3"}},
				{PurchaseIDs: []string{"p1"}},
			},
			rate: 10,
			want: 1533, // 15333 * 0.1 = 1533.3
		},
		{
			name:    "unknown purchase",
			bundles: []models.Bundle{{PurchaseIDs: []string{"nope"}}},
			rate:    10,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GroupTotal(tt.bundles, tt.rate, byID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GroupTotal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("GroupTotal() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateRate(t *testing.T) {
	for _, rate := range []float64{0.5, 10, 100} {
		if err := ValidateRate(rate); err != nil {
			t.Errorf("ValidateRate(%v) unexpected error: %v", rate, err)
		}
	}
	for _, rate := range []float64{0, -1, 100.01} {
		if err := ValidateRate(rate); err == nil {
			t.Errorf("ValidateRate(%v) expected error", rate)
		}
	}
}
