package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given. A missing default file is not an error.
const defaultConfigFile = "labelpress.toml"

// Config carries station-local settings. Flags win over file values.
type Config struct {
	// StationID names this print station in calibration overrides.
	StationID string `toml:"station_id"`
	// CalibrationDB is the SQLite file holding per-station overrides.
	CalibrationDB string `toml:"calibration_db"`
	// Listen is the HTTP API address for the serve command.
	Listen string `toml:"listen"`
	// ImageDir roots relative image paths in templates.
	ImageDir string `toml:"image_dir"`
}

func defaultConfig() Config {
	return Config{
		CalibrationDB: "labelpress.db",
		Listen:        ":8423",
	}
}

// loadConfig reads the TOML file at path, or the default file when path is
// empty. Only an explicitly requested file must exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
