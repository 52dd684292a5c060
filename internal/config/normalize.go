package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAssets(); err != nil {
		return err
	}
	c.normalizeImport()
	c.normalizeAffiche()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.WatchDir, err = expandPath(c.Paths.WatchDir); err != nil {
		return fmt.Errorf("paths.watch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAssets() error {
	var err error
	if strings.TrimSpace(c.Assets.IconsDir) == "" {
		c.Assets.IconsDir = defaultIconsDir
	}
	if c.Assets.IconsDir, err = expandPath(c.Assets.IconsDir); err != nil {
		return fmt.Errorf("assets.icons_dir: %w", err)
	}
	if strings.TrimSpace(c.Assets.FontsDir) == "" {
		c.Assets.FontsDir = defaultFontsDir
	}
	if c.Assets.FontsDir, err = expandPath(c.Assets.FontsDir); err != nil {
		return fmt.Errorf("assets.fonts_dir: %w", err)
	}
	if strings.TrimSpace(c.Assets.Logo) != "" {
		if c.Assets.Logo, err = expandPath(c.Assets.Logo); err != nil {
			return fmt.Errorf("assets.logo: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeImport() {
	c.Import.Category = strings.ToLower(strings.TrimSpace(c.Import.Category))
	if c.Import.Category == "" {
		c.Import.Category = defaultCategory
	}
	c.Import.ChildKeyword = strings.ToLower(strings.TrimSpace(c.Import.ChildKeyword))
	if c.Import.ChildKeyword == "" {
		c.Import.ChildKeyword = defaultChildKeyword
	}
	c.Import.ThreeDKeyword = strings.ToLower(strings.TrimSpace(c.Import.ThreeDKeyword))
	if c.Import.ThreeDKeyword == "" {
		c.Import.ThreeDKeyword = defaultThreeDKeyword
	}
	if len(c.Import.HallKeywords) == 0 {
		c.Import.HallKeywords = Default().Import.HallKeywords
		return
	}
	normalized := make(map[string]string, len(c.Import.HallKeywords))
	for keyword, hall := range c.Import.HallKeywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		hall = strings.TrimSpace(hall)
		if keyword == "" || hall == "" {
			continue
		}
		normalized[keyword] = hall
	}
	c.Import.HallKeywords = normalized
}

func (c *Config) normalizeAffiche() {
	if c.Affiche.DPI <= 0 {
		c.Affiche.DPI = defaultAfficheDPI
	}
	if c.Affiche.TopSlots <= 0 {
		c.Affiche.TopSlots = defaultTopSlots
	}
	if c.Affiche.BottomSlots <= 0 {
		c.Affiche.BottomSlots = defaultBottomSlots
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
