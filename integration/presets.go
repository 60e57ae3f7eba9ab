// Package integration provides named configuration profiles for assembling
// a bonding ledger runtime. A preset bundles the settings that trade
// durability, observability and log volume against resource usage, so
// operators pick a profile instead of tuning individual flags.
package integration

import "fmt"

// PresetConfig captures the tunable parameters that vary across profiles.
// Deployment identity and rules are deliberately excluded: those come from
// the network selection and never differ between profiles.
type PresetConfig struct {
	Name          string // profile identifier, surfaced in logs and config dumps
	Network       string // rules preset the profile targets (main|test|fake)
	InMemoryStore bool   // back the ledger with a throwaway in-memory database
	CacheMB       int    // memory reserved for database caches
	EnableMetrics bool   // expose Prometheus instruments
	LogVerbosity  int    // 0=fatal .. 5=trace
}

// DefaultPreset returns the balanced baseline profile.
func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:          "default",
		Network:       "fake",
		InMemoryStore: false,
		CacheMB:       256,
		EnableMetrics: false,
		LogVerbosity:  3,
	}
}

// LitePreset returns a development profile: throwaway storage, verbose
// logs and metrics enabled for diagnostics.
func LitePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "lite"
	cfg.InMemoryStore = true
	cfg.CacheMB = 64
	cfg.EnableMetrics = true
	cfg.LogVerbosity = 4
	return cfg
}

// FullPreset returns a production profile: persistent storage, a large
// cache and metrics for monitoring, at info-level logging.
func FullPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "full"
	cfg.Network = "main"
	cfg.CacheMB = 1024
	cfg.EnableMetrics = true
	return cfg
}

// GetPresetByName resolves a profile by its identifier.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "lite":
		return LitePreset(), nil
	case "full":
		return FullPreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: lite, full, default)", name)
	}
}

// ApplyPreset merges preset values into target. Zero-valued string and
// numeric fields leave the target untouched; booleans always apply.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.Name != "" {
		target.Name = preset.Name
	}
	if preset.Network != "" {
		target.Network = preset.Network
	}
	if preset.CacheMB > 0 {
		target.CacheMB = preset.CacheMB
	}
	if preset.LogVerbosity > 0 {
		target.LogVerbosity = preset.LogVerbosity
	}
	target.InMemoryStore = preset.InMemoryStore
	target.EnableMetrics = preset.EnableMetrics
}
