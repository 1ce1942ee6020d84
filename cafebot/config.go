package cafebot

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/netcafe-dev/cafebot/cafebot/database"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Bot    BotConfig         `toml:"bot"`
	DB     database.DBConfig `toml:"db"`
	Store  StoreConfig       `toml:"store"`
	Sim    SimConfig         `toml:"sim"`
	Spaces SpacesConfig      `toml:"spaces"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// StoreConfig selects the persistence driver. "file" keeps everything in one
// JSON document; "postgres" uses the cafes table via [db].
type StoreConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// SimConfig tunes the tick engine. TickInterval is the wall-clock length of
// one simulated hour.
type SimConfig struct {
	TickInterval time.Duration `toml:"tick_interval"`
	Seed         int64         `toml:"seed"`
}

// SpacesConfig configures the optional save-document backup uploads. Backups
// are disabled while Bucket is empty.
type SpacesConfig struct {
	Key      string        `toml:"key"`
	Secret   string        `toml:"secret"`
	Region   string        `toml:"region"`
	Bucket   string        `toml:"bucket"`
	Prefix   string        `toml:"prefix"`
	Interval time.Duration `toml:"interval"`
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = "file"
	}
	if c.Store.Path == "" {
		c.Store.Path = "data/cafes.json"
	}
	if c.Sim.TickInterval <= 0 {
		c.Sim.TickInterval = time.Hour
	}
	if c.Spaces.Interval <= 0 {
		c.Spaces.Interval = 24 * time.Hour
	}
}
