package config

const (
	defaultDataDir       = "~/.local/share/cinebo"
	defaultLogDir        = "~/.local/share/cinebo/logs"
	defaultWatchDir      = "~/cinebo/inbox"
	defaultOutputDir     = "~/cinebo/reports"
	defaultIconsDir      = "~/.local/share/cinebo/icons"
	defaultFontsDir      = "~/.local/share/cinebo/fonts"
	defaultCategory      = "film"
	defaultChildKeyword  = "kind"
	defaultThreeDKeyword = "3d"
	defaultAfficheDPI    = 300
	defaultTopSlots      = 5
	defaultBottomSlots   = 10
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			WatchDir:  defaultWatchDir,
			OutputDir: defaultOutputDir,
		},
		Assets: Assets{
			IconsDir: defaultIconsDir,
			FontsDir: defaultFontsDir,
		},
		Import: Import{
			Category: defaultCategory,
			HallKeywords: map[string]string{
				"zaal beneden": "1",
				"zaal boven":   "2",
			},
			ChildKeyword:  defaultChildKeyword,
			ThreeDKeyword: defaultThreeDKeyword,
		},
		Affiche: Affiche{
			DPI:         defaultAfficheDPI,
			TopSlots:    defaultTopSlots,
			BottomSlots: defaultBottomSlots,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
