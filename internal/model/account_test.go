package model

import (
	"testing"
)

func TestRemainingPremiumDays(t *testing.T) {
	const now = int64(1_700_000_000)

	tests := []struct {
		name    string
		lastDay int64
		want    uint32
	}{
		{
			name:    "never purchased",
			lastDay: 0,
			want:    0,
		},
		{
			name:    "expired in the past",
			lastDay: now - 86400,
			want:    0,
		},
		{
			name:    "expires exactly now",
			lastDay: now,
			want:    0,
		},
		{
			name:    "ten days ahead",
			lastDay: now + 864000,
			want:    10,
		},
		{
			name:    "partial day rounds down",
			lastDay: now + 86400 + 86399,
			want:    1,
		},
		{
			name:    "one second ahead",
			lastDay: now + 1,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemainingPremiumDays(tt.lastDay, now)
			if got != tt.want {
				t.Errorf("RemainingPremiumDays(%d, %d) = %d, want %d", tt.lastDay, now, got, tt.want)
			}
		})
	}
}

func TestAccount_ApplyLoyalty(t *testing.T) {
	const now = int64(1_700_000_000)

	tests := []struct {
		name          string
		acc           Account
		wantChanged   bool
		wantPurchased uint32
		wantCreation  int64
	}{
		{
			name: "invariant holds, nothing to do",
			acc: Account{
				PremiumRemainingDays: 10,
				PremiumDaysPurchased: 10,
				CreationTime:         1_600_000_000,
			},
			wantChanged:   false,
			wantPurchased: 10,
			wantCreation:  1_600_000_000,
		},
		{
			name: "purchased below remaining, no creation time",
			acc: Account{
				PremiumRemainingDays: 10,
				PremiumDaysPurchased: 3,
			},
			wantChanged:   true,
			wantPurchased: 10,
			wantCreation:  now,
		},
		{
			name: "purchased below remaining, creation already set",
			acc: Account{
				PremiumRemainingDays: 10,
				PremiumDaysPurchased: 3,
				CreationTime:         1_600_000_000,
			},
			wantChanged:   true,
			wantPurchased: 10,
			wantCreation:  1_600_000_000,
		},
		{
			name: "only creation time missing",
			acc: Account{
				PremiumRemainingDays: 5,
				PremiumDaysPurchased: 7,
			},
			wantChanged:   true,
			wantPurchased: 7,
			wantCreation:  now,
		},
		{
			name:          "fresh free account",
			acc:           Account{},
			wantChanged:   true,
			wantPurchased: 0,
			wantCreation:  now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := tt.acc
			changed := acc.ApplyLoyalty(now)
			if changed != tt.wantChanged {
				t.Errorf("ApplyLoyalty() = %v, want %v", changed, tt.wantChanged)
			}
			if acc.PremiumDaysPurchased != tt.wantPurchased {
				t.Errorf("PremiumDaysPurchased = %d, want %d", acc.PremiumDaysPurchased, tt.wantPurchased)
			}
			if acc.CreationTime != tt.wantCreation {
				t.Errorf("CreationTime = %d, want %d", acc.CreationTime, tt.wantCreation)
			}
		})
	}
}

func TestAccount_GrantPremium(t *testing.T) {
	const now = int64(1_700_000_000)

	t.Run("extends active premium", func(t *testing.T) {
		acc := Account{
			PremiumLastDay:       now + 5*86400,
			PremiumDaysPurchased: 5,
		}
		acc.GrantPremium(10, now)

		if want := now + 15*86400; acc.PremiumLastDay != want {
			t.Errorf("PremiumLastDay = %d, want %d", acc.PremiumLastDay, want)
		}
		if acc.PremiumDaysPurchased != 15 {
			t.Errorf("PremiumDaysPurchased = %d, want 15", acc.PremiumDaysPurchased)
		}
		if acc.PremiumRemainingDays != 15 {
			t.Errorf("PremiumRemainingDays = %d, want 15", acc.PremiumRemainingDays)
		}
	})

	t.Run("expired premium restarts from now", func(t *testing.T) {
		acc := Account{PremiumLastDay: now - 86400}
		acc.GrantPremium(3, now)

		if want := now + 3*86400; acc.PremiumLastDay != want {
			t.Errorf("PremiumLastDay = %d, want %d", acc.PremiumLastDay, want)
		}
		if acc.PremiumRemainingDays != 3 {
			t.Errorf("PremiumRemainingDays = %d, want 3", acc.PremiumRemainingDays)
		}
	})
}
