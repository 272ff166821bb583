package model

import "testing"

func TestCoinType_Column(t *testing.T) {
	tests := []struct {
		name     string
		coinType CoinType
		wantCol  string
		wantOK   bool
	}{
		{name: "normal", coinType: CoinNormal, wantCol: "coins", wantOK: true},
		{name: "tournament", coinType: CoinTournament, wantCol: "tournament_coins", wantOK: true},
		{name: "transferable", coinType: CoinTransferable, wantCol: "coins_transferable", wantOK: true},
		{name: "zero value", coinType: 0, wantOK: false},
		{name: "one past the known set", coinType: 4, wantOK: false},
		{name: "max uint8", coinType: 255, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := tt.coinType.Column()
			if ok != tt.wantOK {
				t.Fatalf("Column() ok = %v, want %v", ok, tt.wantOK)
			}
			if col != tt.wantCol {
				t.Errorf("Column() = %q, want %q", col, tt.wantCol)
			}
		})
	}
}
