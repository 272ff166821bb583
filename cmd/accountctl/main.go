// accountctl is the ops tool for the account store: applies schema
// migrations and inspects or adjusts individual accounts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/emberhall/accountstore/internal/config"
	"github.com/emberhall/accountstore/internal/db"
	"github.com/emberhall/accountstore/internal/model"
)

const defaultConfigPath = "config/accountstore.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("interrupted", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func usage() string {
	return `usage: accountctl [-config path] <command> [args]

commands:
  migrate                            apply schema migrations
  show <id>                          print an account and its characters
  set-coins <id> <type> <amount>     overwrite a coin balance (type: normal|tournament|transferable)
  grant-premium <id> <days>          extend premium time and record the purchase`
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("accountctl", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "path to YAML config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("no command given\n%s", usage())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))

	command, rest := fs.Arg(0), fs.Args()[1:]

	if command == "migrate" {
		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return err
		}
		slog.Info("migrations applied")
		return nil
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	repo := db.NewAccountRepository(database.Pool(), slog.Default())

	switch command {
	case "show":
		return show(ctx, repo, rest)
	case "set-coins":
		return setCoins(ctx, repo, rest)
	case "grant-premium":
		return grantPremium(ctx, repo, rest)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage())
	}
}

func show(ctx context.Context, repo *db.AccountRepository, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("show: expected <id>")
	}
	id, err := parseAccountID(args[0])
	if err != nil {
		return err
	}

	acc, err := repo.LoadByID(ctx, id)
	if err != nil {
		return err
	}
	if acc == nil {
		return fmt.Errorf("account %d not found", id)
	}

	fmt.Printf("account %d\n", acc.ID)
	fmt.Printf("  type:                %d\n", acc.Type)
	fmt.Printf("  premium last day:    %s\n", formatUnix(acc.PremiumLastDay))
	fmt.Printf("  premium days left:   %d\n", acc.PremiumRemainingDays)
	fmt.Printf("  days ever purchased: %d\n", acc.PremiumDaysPurchased)
	fmt.Printf("  created:             %s\n", formatUnix(acc.CreationTime))
	fmt.Printf("  characters (%d):\n", len(acc.Players))
	for _, p := range acc.Players {
		fmt.Printf("    %s\n", p.Name)
	}
	return nil
}

func setCoins(ctx context.Context, repo *db.AccountRepository, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("set-coins: expected <id> <type> <amount>")
	}
	id, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	coinType, err := parseCoinType(args[1])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", args[2], err)
	}

	if err := repo.SetCoins(ctx, id, coinType, uint32(amount)); err != nil {
		return err
	}
	if err := repo.RegisterCoinsTransaction(ctx, id, model.CoinTxAdd, uint32(amount), coinType, "accountctl set-coins"); err != nil {
		return err
	}
	slog.Info("coins set", "accountID", id, "type", args[1], "amount", amount)
	return nil
}

func grantPremium(ctx context.Context, repo *db.AccountRepository, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("grant-premium: expected <id> <days>")
	}
	id, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	days, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("parsing days %q: %w", args[1], err)
	}

	acc, err := repo.LoadByID(ctx, id)
	if err != nil {
		return err
	}
	if acc == nil {
		return fmt.Errorf("account %d not found", id)
	}

	acc.GrantPremium(uint32(days), time.Now().Unix())
	if err := repo.Save(ctx, acc); err != nil {
		return err
	}
	slog.Info("premium granted",
		"accountID", id, "days", days, "premiumLastDay", formatUnix(acc.PremiumLastDay))
	return nil
}

func parseAccountID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing account id %q: %w", s, err)
	}
	return uint32(id), nil
}

func parseCoinType(s string) (model.CoinType, error) {
	switch s {
	case "normal":
		return model.CoinNormal, nil
	case "tournament":
		return model.CoinTournament, nil
	case "transferable":
		return model.CoinTransferable, nil
	}
	return 0, fmt.Errorf("unknown coin type %q (want normal, tournament or transferable)", s)
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return "never"
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
