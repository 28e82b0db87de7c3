package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Output    OutputConfig    `toml:"output"`
	Images    ImagesConfig    `toml:"images"`
	Counts    CountsConfig    `toml:"counts"`
	Throttle  ThrottleConfig  `toml:"throttle"`
	Users     UsersConfig     `toml:"users"`
	Relations RelationsConfig `toml:"relations"`
	Database  DatabaseConfig  `toml:"database"`
}

// OutputConfig controls where generated files land.
type OutputConfig struct {
	UploadsDir   string `toml:"uploads_dir"`
	SQLPath      string `toml:"sql_path"`
	Dialect      string `toml:"dialect"`
	ManifestPath string `toml:"manifest_path"`
}

// ImagesConfig contains placeholder image service settings.
type ImagesConfig struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	MinID          int    `toml:"min_id"`
	MaxID          int    `toml:"max_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	ProfileWidth   int    `toml:"profile_width"`
	ProfileHeight  int    `toml:"profile_height"`
}

// Timeout returns the per-request timeout as a [time.Duration].
func (c ImagesConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CountsConfig holds the number of records generated per collection.
type CountsConfig struct {
	Artists   int `toml:"artists"`
	Albums    int `toml:"albums"`
	Users     int `toml:"users"`
	Playlists int `toml:"playlists"`
	Songs     int `toml:"songs"`
}

// ThrottleConfig holds per-record delays in milliseconds.
type ThrottleConfig struct {
	ArtistsMS   int `toml:"artists_ms"`
	AlbumsMS    int `toml:"albums_ms"`
	UsersMS     int `toml:"users_ms"`
	PlaylistsMS int `toml:"playlists_ms"`
	SongsMS     int `toml:"songs_ms"`
}

// UsersConfig controls synthetic account credentials.
type UsersConfig struct {
	Password    string `toml:"password"`
	BcryptCost  int    `toml:"bcrypt_cost"`
	EmailDomain string `toml:"email_domain"`
}

// RelationsConfig bounds the join-table rows generated after songs.
type RelationsConfig struct {
	Enabled          bool `toml:"enabled"`
	PlaylistSongsMax int  `toml:"playlist_songs_max"`
	FavoritesMax     int  `toml:"favorites_max"`
	FollowersMax     int  `toml:"followers_max"`
}

// DatabaseConfig contains settings for the local SQLite database used by `load`.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads the given dotenv files (missing files are skipped) and applies MUSICSEED_* overrides.
//
// Variables already present in the process environment win over dotenv values.
func ApplyEnv(c *Config, files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	strs := map[string]*string{
		"MUSICSEED_UPLOADS_DIR":    &c.Output.UploadsDir,
		"MUSICSEED_SQL_PATH":       &c.Output.SQLPath,
		"MUSICSEED_DIALECT":        &c.Output.Dialect,
		"MUSICSEED_MANIFEST_PATH":  &c.Output.ManifestPath,
		"MUSICSEED_IMAGE_BASE_URL": &c.Images.BaseURL,
		"MUSICSEED_USER_PASSWORD":  &c.Users.Password,
		"MUSICSEED_DB_PATH":        &c.Database.Path,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MUSICSEED_IMAGE_TIMEOUT": &c.Images.TimeoutSeconds,
		"MUSICSEED_BCRYPT_COST":   &c.Users.BcryptCost,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("MUSICSEED_IMAGES_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: MUSICSEED_IMAGES_ENABLED=%q is not a boolean", ErrInvalidConfig, v)
		}
		c.Images.Enabled = b
	}

	return nil
}

// Validate reports the first configuration value that cannot drive a run.
func (c *Config) Validate() error {
	counts := map[string]int{
		"counts.artists":   c.Counts.Artists,
		"counts.albums":    c.Counts.Albums,
		"counts.users":     c.Counts.Users,
		"counts.playlists": c.Counts.Playlists,
		"counts.songs":     c.Counts.Songs,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
		}
	}

	switch c.Output.Dialect {
	case "mssql", "sqlite":
	default:
		return fmt.Errorf("%w: output.dialect %q", ErrUnsupportedDialect, c.Output.Dialect)
	}

	if c.Output.SQLPath == "" {
		return fmt.Errorf("%w: output.sql_path is empty", ErrInvalidConfig)
	}
	if c.Output.UploadsDir == "" {
		return fmt.Errorf("%w: output.uploads_dir is empty", ErrInvalidConfig)
	}

	if c.Images.Enabled {
		if c.Images.MinID < 1 || c.Images.MaxID < c.Images.MinID {
			return fmt.Errorf("%w: images id range [%d, %d]", ErrInvalidConfig, c.Images.MinID, c.Images.MaxID)
		}
		if c.Images.TimeoutSeconds <= 0 {
			return fmt.Errorf("%w: images.timeout_seconds must be positive", ErrInvalidConfig)
		}
		if c.Images.Width <= 0 || c.Images.Height <= 0 || c.Images.ProfileWidth <= 0 || c.Images.ProfileHeight <= 0 {
			return fmt.Errorf("%w: image dimensions must be positive", ErrInvalidConfig)
		}
	}

	// bcrypt accepts costs 4 through 31
	if c.Users.BcryptCost < 4 || c.Users.BcryptCost > 31 {
		return fmt.Errorf("%w: users.bcrypt_cost %d outside 4..31", ErrInvalidConfig, c.Users.BcryptCost)
	}
	if c.Users.Password == "" {
		return fmt.Errorf("%w: users.password is empty", ErrInvalidConfig)
	}

	if c.Relations.PlaylistSongsMax < 0 || c.Relations.FavoritesMax < 0 || c.Relations.FollowersMax < 0 {
		return fmt.Errorf("%w: relation limits must not be negative", ErrInvalidConfig)
	}

	return nil
}
