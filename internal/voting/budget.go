// internal/voting/budget.go
package voting

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/fusionx/internal/models"
)

// BudgetStore persists voter budgets. GetBudget returns (nil, nil) for voters it has never seen.
type BudgetStore interface {
	GetBudget(ctx context.Context, voterID string) (*models.VoterBudget, error)
	SaveBudget(ctx context.Context, b *models.VoterBudget) error
	Close() error
}

type MemoryBudgetStore struct {
	budgets map[string]models.VoterBudget
}

func NewMemoryBudgetStore() *MemoryBudgetStore {
	return &MemoryBudgetStore{budgets: make(map[string]models.VoterBudget)}
}

func (m *MemoryBudgetStore) GetBudget(_ context.Context, voterID string) (*models.VoterBudget, error) {
	b, ok := m.budgets[voterID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *MemoryBudgetStore) SaveBudget(_ context.Context, b *models.VoterBudget) error {
	m.budgets[b.VoterID] = *b
	return nil
}

func (m *MemoryBudgetStore) Close() error {
	return nil
}

const (
	dateFormat     = "2006-01-02"
	budgetKeyTpl   = "%sbudget:%s" // ${prefix}budget:${voter}
	fieldVotesLeft = "votes_left"
	fieldLastReset = "last_reset"
)

// RedisBudgetStore keeps one hash per voter so budgets survive restarts and are shared
// between server instances.
type RedisBudgetStore struct {
	redis  *redis.Client
	prefix string
}

func NewRedisBudgetStore(client *redis.Client, prefix string) *RedisBudgetStore {
	return &RedisBudgetStore{redis: client, prefix: prefix}
}

// DialRedisBudgetStore parses a redis:// url and checks the connection.
func DialRedisBudgetStore(ctx context.Context, url, prefix string) (*RedisBudgetStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisBudgetStore(client, prefix), nil
}

func (r *RedisBudgetStore) key(voterID string) string {
	return fmt.Sprintf(budgetKeyTpl, r.prefix, voterID)
}

func (r *RedisBudgetStore) GetBudget(ctx context.Context, voterID string) (*models.VoterBudget, error) {
	values, err := r.redis.HGetAll(ctx, r.key(voterID)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to fetch budget for %s: %w", voterID, err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	votesLeft, err := strconv.Atoi(values[fieldVotesLeft])
	if err != nil {
		return nil, fmt.Errorf("corrupt %s for %s: %w", fieldVotesLeft, voterID, err)
	}
	lastReset, err := time.ParseInLocation(dateFormat, values[fieldLastReset], time.UTC)
	if err != nil {
		return nil, fmt.Errorf("corrupt %s for %s: %w", fieldLastReset, voterID, err)
	}

	return &models.VoterBudget{
		VoterID:   voterID,
		VotesLeft: votesLeft,
		LastReset: lastReset,
	}, nil
}

func (r *RedisBudgetStore) SaveBudget(ctx context.Context, b *models.VoterBudget) error {
	pipe := r.redis.TxPipeline()
	pipe.HSet(ctx, r.key(b.VoterID), map[string]interface{}{
		fieldVotesLeft: b.VotesLeft,
		fieldLastReset: b.LastReset.UTC().Format(dateFormat),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save budget for %s: %w", b.VoterID, err)
	}
	return nil
}

func (r *RedisBudgetStore) Close() error {
	if r.redis != nil {
		return r.redis.Close()
	}
	return nil
}
