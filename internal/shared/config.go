package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	IGDB        IGDBConfig        `toml:"igdb"`
	Database    DatabaseConfig    `toml:"database"`
	Output      OutputConfig      `toml:"output"`
	Auth        AuthConfig        `toml:"auth"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Twitch TwitchConfig `toml:"twitch"`
}

// TwitchConfig contains the Twitch application used to obtain IGDB access tokens.
type TwitchConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TokenURL     string `toml:"token_url"`
}

// IGDBConfig contains IGDB API settings.
type IGDBConfig struct {
	BaseURL   string  `toml:"base_url"`
	RateLimit float64 `toml:"rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// OutputConfig contains changelog and converter locations.
type OutputConfig struct {
	ChangelogFile   string `toml:"changelog_file"`
	ChangelogAuthor string `toml:"changelog_author"`
	ConvertersDir   string `toml:"converters_dir"`
}

// AuthConfig points at the stored IGDB access token.
type AuthConfig struct {
	File string `toml:"file"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the defaults of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("%w: failed to write config file: %v", ErrIO, err)
	}

	return nil
}

// ApplyEnv overrides the Twitch credentials with TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TWITCH_CLIENT_ID"); v != "" {
		c.Credentials.Twitch.ClientID = v
	}
	if v := os.Getenv("TWITCH_CLIENT_SECRET"); v != "" {
		c.Credentials.Twitch.ClientSecret = v
	}
}

// LogLevel parses the configured level, falling back to info.
func (c *Config) LogLevel() log.Level {
	if c.Log.Level == "" {
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
