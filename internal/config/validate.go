package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateAffiche(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.Category == "" {
		return errors.New("import.category must be set")
	}
	for keyword, hall := range c.Import.HallKeywords {
		if strings.TrimSpace(hall) == "" {
			return fmt.Errorf("import.hall_keywords[%q] must name a hall", keyword)
		}
	}
	return nil
}

func (c *Config) validateAffiche() error {
	if c.Affiche.DPI < 72 || c.Affiche.DPI > 600 {
		return errors.New("affiche.dpi must be between 72 and 600")
	}
	if c.Affiche.TopSlots < 1 || c.Affiche.TopSlots > 5 {
		return errors.New("affiche.top_slots must be between 1 and 5")
	}
	if c.Affiche.BottomSlots < 1 || c.Affiche.BottomSlots > 10 {
		return errors.New("affiche.bottom_slots must be between 1 and 10")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
