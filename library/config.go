package library

import (
	"errors"
	"path/filepath"
)

// Config controls loading of script libraries at startup.
type Config struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

func NewConfig() Config {
	return Config{
		Enabled: false,
		Dir:     "./library",
	}
}

// Validate verifies that the directory specified is an absolute path.
// The directory may contain files other than scripts; they are ignored.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if !filepath.IsAbs(c.Dir) {
		return errors.New("dir must be an absolute path")
	}

	return nil
}
