package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the settings that shape one preprocessor run: the
// default target architecture, behavioral toggles, and project-specific
// directive aliases layered on top of the fixed built-in set.
type Config struct {
	// Pipeline settings
	Pipeline struct {
		Arch               string `toml:"arch"`
		FixUnreq           bool   `toml:"fix_unreq"`
		LiteralLabelPrefix string `toml:"literal_label_prefix"`
		RejectBadSections  bool   `toml:"reject_non_macho_sections"`
	} `toml:"pipeline"`

	// Aliases settings: extra directive rewrites beyond the fixed
	// .global/.rodata/.int/.float set
	Aliases struct {
		Directives map[string]string `toml:"directives"`
	} `toml:"aliases"`

	// Logging settings
	Logging struct {
		Verbose bool `toml:"verbose"`
	} `toml:"logging"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Pipeline defaults
	cfg.Pipeline.Arch = "arm"
	cfg.Pipeline.FixUnreq = true
	cfg.Pipeline.LiteralLabelPrefix = "Literal"
	cfg.Pipeline.RejectBadSections = true

	// Aliases defaults
	cfg.Aliases.Directives = map[string]string{}

	// Logging defaults
	cfg.Logging.Verbose = false

	return cfg
}

const appDirName = "gas-preprocessor"

// userConfigRoot resolves the OS's per-user configuration root:
// %APPDATA% (falling back to %USERPROFILE%\AppData\Roaming) on
// Windows, ~/.config everywhere else. ok is false when it cannot be
// determined (neither variable set on Windows, no home directory
// elsewhere), and the caller should fall back to a relative path.
func userConfigRoot() (dir string, ok bool) {
	if runtime.GOOS == "windows" {
		if dir = os.Getenv("APPDATA"); dir != "" {
			return dir, true
		}
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "AppData", "Roaming"), true
		}
		return "", false
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".config"), true
}

// GetConfigPath returns the platform-specific config file path,
// creating its parent directory if needed. Falls back to a bare
// "config.toml" in the working directory when the per-user root can't
// be resolved or created.
func GetConfigPath() string {
	root, ok := userConfigRoot()
	if !ok {
		return "config.toml"
	}
	dir := filepath.Join(root, appDirName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the default config file, or returns DefaultConfig if none
// exists.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads and decodes path into a Config layered on top of
// DefaultConfig, so a config file only needs to mention the keys it
// overrides. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes to the default config file path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo TOML-encodes c to path, creating its parent directory if
// needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config dir for %s: %w", path, err)
	}
	f, err := os.Create(path) // #nosec G304 -- caller-supplied config path
	if err != nil {
		return fmt.Errorf("create config file %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
