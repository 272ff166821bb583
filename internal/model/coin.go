package model

// CoinType classifies an account currency. Each valid type is backed by its
// own column on the accounts table.
type CoinType uint8

const (
	CoinNormal       CoinType = 1
	CoinTournament   CoinType = 2
	CoinTransferable CoinType = 3
)

// coinColumns is the fixed type-to-column mapping. Immutable; query text is
// built only from values of this table, never from caller input.
var coinColumns = map[CoinType]string{
	CoinNormal:       "coins",
	CoinTournament:   "tournament_coins",
	CoinTransferable: "coins_transferable",
}

// Column returns the accounts column backing the coin type.
// ok is false for any type outside the known set.
func (t CoinType) Column() (string, bool) {
	col, ok := coinColumns[t]
	return col, ok
}

// CoinTransactionType encodes the kind of a coins_transactions audit row.
type CoinTransactionType uint8

const (
	CoinTxAdd    CoinTransactionType = 1
	CoinTxRemove CoinTransactionType = 2
)
