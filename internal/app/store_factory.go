package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/fusionx/internal/journal"
	"github.com/shrimpsizemoose/fusionx/internal/voting"
)

// NewBudgetStore keeps budgets in redis when a url is configured, in memory otherwise.
func NewBudgetStore(ctx context.Context, config *Config) (voting.BudgetStore, error) {
	if config.Voting.RedisURL == "" {
		logger.Info.Println("Vote budgets kept in memory")
		return voting.NewMemoryBudgetStore(), nil
	}
	budgets, err := voting.DialRedisBudgetStore(ctx, config.Voting.RedisURL, config.Voting.KeyPrefix)
	if err != nil {
		return nil, err
	}
	logger.Info.Println("Vote budgets kept in redis")
	return budgets, nil
}

func NewJournal(config *Config) (journal.Journal, error) {
	dsn := config.Journal.DSN
	switch {
	case dsn == "":
		return journal.Nop{}, nil
	case strings.HasPrefix(dsn, "postgres"):
		return journal.NewPostgresJournal(dsn, config.Journal.MigrationsDir)
	default:
		return nil, fmt.Errorf("unable to determine journal database type from DSN: %s", dsn)
	}
}
