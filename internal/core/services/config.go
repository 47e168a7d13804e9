package services

import (
	"time"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
	"github.com/custodia-labs/linemark-cli/internal/core/ports/driven"
)

// TrackingConfigFromStore builds a session config from the persisted
// configuration, falling back to documented defaults for missing keys.
// The relocation window and fuzzy threshold are not read from the store;
// they are fixed constants for now.
func TrackingConfigFromStore(cfg driven.ConfigStore) domain.TrackingConfig {
	out := domain.DefaultTrackingConfig()
	if cfg == nil {
		return out
	}

	if _, ok := cfg.Get(driven.ConfigKeyTrackingEnabled); ok {
		out.Enabled = cfg.GetBool(driven.ConfigKeyTrackingEnabled)
	}
	if ms := cfg.GetInt(driven.ConfigKeyThrottleMs); ms > 0 {
		out.ThrottleWindow = time.Duration(ms) * time.Millisecond
	}
	if n := cfg.GetInt(driven.ConfigKeyAnchorMaxLength); n > 0 {
		out.AnchorMaxLength = n
	}
	return out
}
