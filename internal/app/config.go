package app

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/fusionx/internal/accrual"
	"github.com/shrimpsizemoose/fusionx/internal/community"
	"github.com/shrimpsizemoose/fusionx/internal/export"
	"github.com/shrimpsizemoose/fusionx/internal/voting"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	API struct {
		ActorHeader     string         `toml:"actor_header"`
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Competitions struct {
		RequireActiveForSubmissions bool `toml:"require_active_for_submissions"`
	} `toml:"competitions"`

	Voting struct {
		Limit     int    `toml:"limit"`
		ResetDays int    `toml:"reset_days"`
		RedisURL  string `toml:"redis_url"`
		KeyPrefix string `toml:"key_prefix"`
	} `toml:"voting"`

	XP accrual.Weights `toml:"xp"`

	Notifications struct {
		DisplayLimit int `toml:"display_limit"`
	} `toml:"notifications"`

	Journal struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"journal"`

	Export export.Config `toml:"export"`
}

func DefaultConfig() *Config {
	var config Config
	config.Server.Port = ":8080"
	config.API.ActorHeader = "X-Fusion-User"

	policy := voting.DefaultPolicy()
	config.Voting.Limit = policy.Limit
	config.Voting.ResetDays = policy.ResetDays
	config.Voting.KeyPrefix = "fusionx:"

	config.XP = accrual.DefaultWeights()
	config.Notifications.DisplayLimit = community.DefaultDisplayLimit
	config.Journal.MigrationsDir = "./migrations"
	config.Export.OutputDir = "./newsletters"
	config.Export.Schedule = "0 9 * * MON"
	return &config
}

func (c *Config) VotingPolicy() voting.Policy {
	return voting.Policy{Limit: c.Voting.Limit, ResetDays: c.Voting.ResetDays}
}

// LoadConfig decodes path over DefaultConfig. Connection strings may come from
// the environment (or a .env file) instead of the config file.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Debug.Printf("Skipping .env: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}
	config.applyEnv()

	if err := config.validate(); err != nil {
		return nil, err
	}

	logger.Debug.Printf("Loaded voting config: limit=%d reset_days=%d", config.Voting.Limit, config.Voting.ResetDays)
	logger.Debug.Printf("Loaded xp weights: %+v", config.XP)

	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FUSIONX_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("FUSIONX_REDIS_URL"); v != "" {
		c.Voting.RedisURL = v
	}
	if v := os.Getenv("FUSIONX_JOURNAL_DSN"); v != "" {
		c.Journal.DSN = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("Server port is not specified in config, use a value like :8080")
	}
	if c.Voting.Limit < 1 {
		return fmt.Errorf("voting limit must be at least 1, got %d", c.Voting.Limit)
	}
	if c.Voting.ResetDays < 1 {
		return fmt.Errorf("voting reset_days must be at least 1, got %d", c.Voting.ResetDays)
	}
	if c.XP.Vote < 0 || c.XP.Submission < 0 || c.XP.Join < 0 {
		return fmt.Errorf("xp weights must not be negative: %+v", c.XP)
	}
	return nil
}
