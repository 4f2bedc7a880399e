package repl

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/reckonlang/reckon/library"
)

// Config holds the interactive session settings.
type Config struct {
	Prompt         string `toml:"prompt"`
	ContinuePrompt string `toml:"continue-prompt"`
	// Banner prints once at startup. Empty disables it.
	Banner string `toml:"banner"`

	Library library.Config `toml:"library"`
}

func NewConfig() *Config {
	return &Config{
		Prompt:         "> ",
		ContinuePrompt: "+ ",
		Banner:         "",
		Library:        library.NewConfig(),
	}
}

func (c *Config) Validate() error {
	if c.Prompt == "" {
		return errors.New("prompt must not be empty")
	}
	if err := c.Library.Validate(); err != nil {
		return errors.Wrap(err, "library")
	}
	return nil
}

// LoadConfig reads a TOML config file, applying the settings over the
// defaults.
func LoadConfig(path string) (*Config, error) {
	c := NewConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %q", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %q", path)
	}
	return c, nil
}
