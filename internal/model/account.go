package model

const secondsPerDay = 86400

// Account represents a player account stored in the database.
// A zero value is empty; load operations in internal/db fill it in.
type Account struct {
	ID   uint32
	Type uint8

	// PremiumLastDay is the unix timestamp (seconds) when premium expires.
	// 0 means premium was never purchased.
	PremiumLastDay int64

	// PremiumRemainingDays is derived from PremiumLastDay on every load and
	// never read back from storage.
	PremiumRemainingDays uint32

	// PremiumDaysPurchased counts all days ever purchased. The loyalty
	// backfill keeps it >= PremiumRemainingDays once CreationTime is set.
	PremiumDaysPurchased uint32

	// CreationTime is the unix timestamp the account was first loaded with
	// loyalty data. 0 until stamped by the backfill.
	CreationTime int64

	// SessionExpires is the expiry of the session row the account was
	// resolved through. 0 when resolved by id, email or name.
	SessionExpires int64

	// Players holds the account's characters, name ascending, with
	// soft-deleted characters excluded.
	Players []CharacterSummary
}

// CharacterSummary is the per-character slice of an account load.
type CharacterSummary struct {
	Name     string
	Deletion int64
}

// RemainingPremiumDays returns the whole days between now and lastDay,
// floored at zero.
func RemainingPremiumDays(lastDay, now int64) uint32 {
	if lastDay <= now {
		return 0
	}
	return uint32((lastDay - now) / secondsPerDay)
}

// ApplyLoyalty enforces the loyalty invariant on the record: purchased days
// never fall below the currently remaining days, and an account touched by
// the backfill carries a creation timestamp. Returns true when the record
// changed and has to be persisted.
func (a *Account) ApplyLoyalty(now int64) bool {
	if a.PremiumDaysPurchased >= a.PremiumRemainingDays && a.CreationTime != 0 {
		return false
	}

	if a.PremiumDaysPurchased < a.PremiumRemainingDays {
		a.PremiumDaysPurchased = a.PremiumRemainingDays
	}
	if a.CreationTime == 0 {
		a.CreationTime = now
	}

	return true
}

// GrantPremium extends the premium expiry by the given number of days and
// bumps the purchased counter. An expired or never-set expiry restarts
// from now.
func (a *Account) GrantPremium(days uint32, now int64) {
	base := a.PremiumLastDay
	if base < now {
		base = now
	}
	a.PremiumLastDay = base + int64(days)*secondsPerDay
	a.PremiumDaysPurchased += days
	a.PremiumRemainingDays = RemainingPremiumDays(a.PremiumLastDay, now)
}
