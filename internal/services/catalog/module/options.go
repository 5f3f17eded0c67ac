package module

import "tally/internal/platform/config"

// Options holds configuration settings for the catalog module
type Options struct {
	HardLimit int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_CATALOG_")
	return Options{
		HardLimit: c.MayInt("HARD_LIMIT", 100),
	}
}
