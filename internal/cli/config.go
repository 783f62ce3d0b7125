package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds display preferences read from the optional config file at
// $XDG_CONFIG_HOME/onnxspect/config.toml. Every field has a working
// default; a missing or unreadable file is not an error.
type Config struct {
	// TruncateValues caps metadata value display length in tables; longer
	// values are cut with an ellipsis. Zero disables truncation.
	TruncateValues int `toml:"truncate_values"`

	// DefaultImportMode is the import policy used when --mode is not
	// given: "merge" or "replace".
	DefaultImportMode string `toml:"default_import_mode"`

	// NoColor disables all styling, for terminals or pipelines where
	// escape sequences get in the way. NO_COLOR in the environment does
	// the same without a config file.
	NoColor bool `toml:"no_color"`
}

func defaultConfig() Config {
	return Config{
		TruncateValues:    50,
		DefaultImportMode: "merge",
	}
}

// loadConfig reads the config file if present, falling back to defaults for
// anything missing. Errors are deliberately swallowed: a broken config file
// must not make the inspector unusable, and the parse error surfaces via
// --verbose once a logger exists.
func loadConfig() Config {
	cfg := defaultConfig()
	dir, err := os.UserConfigDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(dir, "onnxspect", "config.toml")
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		configLoadError = err
	}
	return cfg
}

// configLoadError records a config parse failure for later debug logging.
var configLoadError error
