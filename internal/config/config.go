package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	WatchDir  string `toml:"watch_dir"`
	OutputDir string `toml:"output_dir"`
}

// Assets contains locations of artwork inputs used by report rendering.
type Assets struct {
	IconsDir string `toml:"icons_dir"`
	FontsDir string `toml:"fonts_dir"`
	Logo     string `toml:"logo"`
}

// Import contains rules for interpreting point-of-sale CSV exports.
type Import struct {
	Category      string            `toml:"category"`
	HallKeywords  map[string]string `toml:"hall_keywords"`
	ChildKeyword  string            `toml:"child_keyword"`
	ThreeDKeyword string            `toml:"three_d_keyword"`
	CreateFilms   bool              `toml:"create_films"`
}

// Report contains the venue identity printed on settlement reports.
type Report struct {
	VenueName    string `toml:"venue_name"`
	VenueStreet  string `toml:"venue_street"`
	VenueCity    string `toml:"venue_city"`
	Repertorium  string `toml:"repertorium"`
	ReportNumber string `toml:"report_number"`
}

// Affiche contains poster rendering parameters.
type Affiche struct {
	DPI         int `toml:"dpi"`
	TopSlots    int `toml:"top_slots"`
	BottomSlots int `toml:"bottom_slots"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cinebo.
//
// Configuration sections by subsystem:
//   - Paths: database, log, CSV watch, and report output directories
//   - Assets: icon, font, and logo locations for rendered output
//   - Import: point-of-sale CSV interpretation rules
//   - Report: venue identity lines on settlement reports
//   - Affiche: poster rendering parameters
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Assets  Assets  `toml:"assets"`
	Import  Import  `toml:"import"`
	Report  Report  `toml:"report"`
	Affiche Affiche `toml:"affiche"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cinebo/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/cinebo/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cinebo.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories cinebo writes into. The watch
// directory is created on a best-effort basis so commands other than watch
// still work when it points at removable storage.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.WatchDir) != "" {
		_ = os.MkdirAll(c.Paths.WatchDir, 0o755)
	}
	return nil
}

// DatabasePath returns the SQLite database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "cinebo.db")
}

// LockPath returns the lock file guarding the watch loop.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "watch.lock")
}

// MagickBinaries returns the ImageMagick executable names to try in order.
func (c *Config) MagickBinaries() []string {
	return []string{"magick", "convert"}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
