package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberhall/accountstore/internal/model"
	"github.com/emberhall/accountstore/internal/session"
)

// ErrInvalidCoinType is returned when a coin type has no backing column.
// No query is issued in that case.
var ErrInvalidCoinType = errors.New("invalid coin type")

// AccountRepository persists and resolves player accounts.
// It is stateless beyond its dependencies and safe for concurrent use.
type AccountRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewAccountRepository creates an AccountRepository over the given pool.
// A nil logger falls back to slog.Default().
func NewAccountRepository(pool *pgxpool.Pool, log *slog.Logger) *AccountRepository {
	if log == nil {
		log = slog.Default()
	}
	return &AccountRepository{pool: pool, log: log}
}

// LoadByID resolves an account by its numeric id.
// Returns nil, nil if no such account exists.
func (r *AccountRepository) LoadByID(ctx context.Context, id uint32) (*model.Account, error) {
	query := `
		SELECT id, type, premdays, lastday, creation, premdays_purchased, 0::bigint AS expires
		FROM accounts
		WHERE id = $1
	`
	return r.load(ctx, query, id)
}

// LoadByEmailOrName resolves an account by email, or by account name when
// byName is set (legacy clients identify accounts by name).
// Returns nil, nil if no such account exists.
func (r *AccountRepository) LoadByEmailOrName(ctx context.Context, emailOrName string, byName bool) (*model.Account, error) {
	if emailOrName == "" {
		// The schema defaults email and name to '', so an empty lookup could
		// match an arbitrary row.
		return nil, nil
	}
	column := "email"
	if byName {
		column = "name"
	}
	query := fmt.Sprintf(`
		SELECT id, type, premdays, lastday, creation, premdays_purchased, 0::bigint AS expires
		FROM accounts
		WHERE %s = $1
	`, column)
	return r.load(ctx, query, emailOrName)
}

// LoadBySession resolves an account through an active session token.
// The raw token is hashed before lookup; session rows are keyed by hash.
// Returns nil, nil if no session row matches.
func (r *AccountRepository) LoadBySession(ctx context.Context, token string) (*model.Account, error) {
	query := `
		SELECT accounts.id, accounts.type, accounts.premdays, accounts.lastday,
		       accounts.creation, accounts.premdays_purchased, account_sessions.expires
		FROM accounts
		JOIN account_sessions ON account_sessions.account_id = accounts.id
		WHERE account_sessions.id = $1
	`
	return r.load(ctx, query, session.HashToken(token))
}

// load runs one of the resolution queries and fills a fresh record:
// scans the account row, derives the remaining premium days, applies the
// loyalty backfill and loads the player list.
func (r *AccountRepository) load(ctx context.Context, query string, arg any) (*model.Account, error) {
	var acc model.Account
	var storedPremDays uint32

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&acc.ID, &acc.Type, &storedPremDays, &acc.PremiumLastDay,
		&acc.CreationTime, &acc.PremiumDaysPurchased, &acc.SessionExpires,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil // not found, not an error
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}

	// storedPremDays is never trusted; remaining days derive from lastday.
	now := time.Now().Unix()
	acc.PremiumRemainingDays = model.RemainingPremiumDays(acc.PremiumLastDay, now)

	// Loyalty backfill. Concurrent loads of the same account may both issue
	// this write; both compute the same target values, so the duplicate is
	// idempotent and runs outside any transaction on purpose.
	if acc.ApplyLoyalty(now) {
		if err := r.Save(ctx, &acc); err != nil {
			// Non-fatal: the record in memory is correct and the next load
			// retries the backfill. Save already logged the failure.
			r.log.Warn("loyalty backfill not persisted", "accountID", acc.ID)
		}
	}

	if err := r.loadPlayers(ctx, &acc); err != nil {
		return nil, err
	}

	return &acc, nil
}

// Save persists the account's mutable fields in a single statement.
func (r *AccountRepository) Save(ctx context.Context, acc *model.Account) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET type = $2, premdays = $3, lastday = $4, creation = $5, premdays_purchased = $6
		WHERE id = $1
	`, acc.ID, acc.Type, acc.PremiumRemainingDays, acc.PremiumLastDay, acc.CreationTime, acc.PremiumDaysPurchased)
	if err != nil {
		r.log.Error("failed to save account", "accountID", acc.ID, "error", err)
		return fmt.Errorf("saving account %d: %w", acc.ID, err)
	}
	return nil
}

// HasCharacter reports whether exactly one character with the given name
// belongs to the account. Zero matches and duplicates both report false;
// names are expected unique per account.
func (r *AccountRepository) HasCharacter(ctx context.Context, accountID uint32, name string) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM players WHERE account_id = $1 AND name = $2`,
		accountID, name,
	).Scan(&count)
	if err != nil {
		r.log.Error("failed to look up character", "accountID", accountID, "name", name, "error", err)
		return false, fmt.Errorf("looking up character %q of account %d: %w", name, accountID, err)
	}
	return count == 1, nil
}

// Password returns the stored password value for the account.
// Verification and hashing are the caller's concern; this is a raw accessor.
func (r *AccountRepository) Password(ctx context.Context, id uint32) (string, error) {
	var password string
	err := r.pool.QueryRow(ctx, `SELECT password FROM accounts WHERE id = $1`, id).Scan(&password)
	if err != nil {
		r.log.Error("failed to get account password", "accountID", id, "error", err)
		return "", fmt.Errorf("getting password of account %d: %w", id, err)
	}
	return password, nil
}

// Coins returns the balance of the given coin type.
// An unknown coin type yields ErrInvalidCoinType without touching the database.
func (r *AccountRepository) Coins(ctx context.Context, id uint32, coinType model.CoinType) (uint32, error) {
	column, ok := coinType.Column()
	if !ok {
		r.log.Error("invalid coin type", "accountID", id, "coinType", uint8(coinType))
		return 0, fmt.Errorf("reading coins of account %d: %w (%d)", id, ErrInvalidCoinType, coinType)
	}

	// column comes from the fixed coin mapping, never from caller input.
	var coins uint32
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, column), id,
	).Scan(&coins)
	if err != nil {
		return 0, fmt.Errorf("reading %s of account %d: %w", column, id, err)
	}
	return coins, nil
}

// SetCoins overwrites the balance of the given coin type.
// An unknown coin type yields ErrInvalidCoinType without touching the database.
func (r *AccountRepository) SetCoins(ctx context.Context, id uint32, coinType model.CoinType, amount uint32) error {
	column, ok := coinType.Column()
	if !ok {
		r.log.Error("invalid coin type", "accountID", id, "coinType", uint8(coinType))
		return fmt.Errorf("setting coins of account %d: %w (%d)", id, ErrInvalidCoinType, coinType)
	}

	// column comes from the fixed coin mapping, never from caller input.
	_, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE accounts SET %s = $1 WHERE id = $2`, column), amount, id,
	)
	if err != nil {
		r.log.Error("failed to set coins", "accountID", id, "amount", amount, "error", err)
		return fmt.Errorf("setting %s of account %d: %w", column, id, err)
	}
	return nil
}

// RegisterCoinsTransaction appends an audit row for a coin movement.
// coinType is stored as raw data and deliberately not validated against the
// coin mapping.
func (r *AccountRepository) RegisterCoinsTransaction(
	ctx context.Context,
	id uint32,
	txType model.CoinTransactionType,
	amount uint32,
	coinType model.CoinType,
	description string,
) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO coins_transactions (account_id, type, coin_type, amount, description)
		VALUES ($1, $2, $3, $4, $5)
	`, id, txType, coinType, amount, description)
	if err != nil {
		r.log.Error("failed to register coins transaction",
			"accountID", id,
			"type", uint8(txType),
			"coinType", uint8(coinType),
			"amount", amount,
			"description", description,
			"error", err,
		)
		return fmt.Errorf("registering coins transaction for account %d: %w", id, err)
	}
	return nil
}

// CreateSession stores a session row for the account, keyed by the hashed
// token. An existing row for the same token gets its expiry refreshed.
func (r *AccountRepository) CreateSession(ctx context.Context, token string, accountID uint32, expires int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO account_sessions (id, account_id, expires)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET expires = EXCLUDED.expires
	`, session.HashToken(token), accountID, expires)
	if err != nil {
		r.log.Error("failed to create session", "accountID", accountID, "error", err)
		return fmt.Errorf("creating session for account %d: %w", accountID, err)
	}
	return nil
}

// DeleteSession removes the session row for the raw token, if any.
func (r *AccountRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM account_sessions WHERE id = $1`, session.HashToken(token),
	)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// loadPlayers fills the record's player list, name ascending, skipping
// soft-deleted characters. An account with no characters is not an error.
func (r *AccountRepository) loadPlayers(ctx context.Context, acc *model.Account) error {
	rows, err := r.pool.Query(ctx,
		`SELECT name, deletion FROM players WHERE account_id = $1 ORDER BY name ASC`,
		acc.ID,
	)
	if err != nil {
		r.log.Error("failed to load account players", "accountID", acc.ID, "error", err)
		return fmt.Errorf("querying players of account %d: %w", acc.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.CharacterSummary
		if err := rows.Scan(&p.Name, &p.Deletion); err != nil {
			return fmt.Errorf("scanning player row: %w", err)
		}
		if p.Deletion != 0 {
			continue
		}
		acc.Players = append(acc.Players, p)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("failed to load account players", "accountID", acc.ID, "error", err)
		return fmt.Errorf("iterating players of account %d: %w", acc.ID, err)
	}

	return nil
}
