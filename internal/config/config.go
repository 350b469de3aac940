package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
)

const FileName = "l10n-review.toml"

type Config struct {
	Org            string   `toml:"org"`
	Repo           string   `toml:"repo"`
	ParentTeam     string   `toml:"parent_team"`
	CodeownersPath string   `toml:"codeowners_path"`
	Ignore         []string `toml:"ignore"`
}

func Default() *Config {
	return &Config{
		Org:            "ghostty-org",
		Repo:           "ghostty",
		ParentTeam:     "localization",
		CodeownersPath: "CODEOWNERS",
		Ignore:         []string{},
	}
}

// ReadConfig reads l10n-review.toml from dir. The defaults are returned alongside any error.
func ReadConfig(dir string) (*Config, error) {
	fileName := filepath.Join(dir, FileName)
	if _, err := os.Stat(fileName); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	file, err := os.ReadFile(fileName)
	if err != nil {
		return Default(), err
	}
	config := Default()
	err = toml.Unmarshal(file, config)
	if err != nil {
		return Default(), err
	}
	if err := config.validate(); err != nil {
		return Default(), err
	}
	return config, nil
}

func (c *Config) validate() error {
	defaults := Default()
	if c.Org == "" {
		c.Org = defaults.Org
	}
	if c.Repo == "" {
		c.Repo = defaults.Repo
	}
	if c.ParentTeam == "" {
		c.ParentTeam = defaults.ParentTeam
	}
	if c.CodeownersPath == "" {
		c.CodeownersPath = defaults.CodeownersPath
	}
	if c.Ignore == nil {
		c.Ignore = []string{}
	}
	for _, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid ignore pattern: %s", pattern)
		}
	}
	return nil
}

// SetRepository overrides Org and Repo from an "owner/repo" string
func (c *Config) SetRepository(fullName string) error {
	repoSplit := strings.Split(fullName, "/")
	if len(repoSplit) != 2 || repoSplit[0] == "" || repoSplit[1] == "" {
		return fmt.Errorf("invalid repo name: %s", fullName)
	}
	c.Org = repoSplit[0]
	c.Repo = repoSplit[1]
	return nil
}

// IsIgnored reports whether file matches one of the ignore patterns
func (c *Config) IsIgnored(file string) bool {
	for _, pattern := range c.Ignore {
		if doublestar.MatchUnvalidated(pattern, file) {
			return true
		}
	}
	return false
}
