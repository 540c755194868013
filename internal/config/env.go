package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g. ASHBORN_WINDOW_WIDTH
// or ASHBORN_GLOBAL_TARGET_FPS.
const EnvPrefix = "ASHBORN_"

// ApplyEnv overlays ASHBORN_* environment variables onto cfg. Unset
// variables leave the current value in place.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
