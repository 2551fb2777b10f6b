// ABOUTME: Feature flags for optional behaviour of the listing service
// ABOUTME: Env-backed manager for the server and a static manager for tests

package featureflags

import (
	"context"
	"os"
	"strings"
	"sync"
)

// FeatureFlag is the name of a toggle. The environment variable is the
// manager prefix plus the upper-cased name.
type FeatureFlag string

const (
	// CoverProbe fetches the cover URL during validation to check it serves an image
	CoverProbe FeatureFlag = "cover_probe"

	// CoverColors extracts the dominant cover colour in the background
	CoverColors FeatureFlag = "cover_colors"

	// RSSFeed serves /feed.xml
	RSSFeed FeatureFlag = "rss_feed"

	// MetricsEnabled serves /metrics and records request metrics
	MetricsEnabled FeatureFlag = "metrics_enabled"

	// RateLimitEnabled enables per-IP rate limiting
	RateLimitEnabled FeatureFlag = "rate_limit_enabled"
)

// All lists every defined flag
var All = []FeatureFlag{CoverProbe, CoverColors, RSSFeed, MetricsEnabled, RateLimitEnabled}

// Defaults are the states used when no environment variable is set
var Defaults = map[FeatureFlag]bool{
	CoverProbe:       false,
	CoverColors:      true,
	RSSFeed:          true,
	MetricsEnabled:   true,
	RateLimitEnabled: true,
}

// Manager reports flag states
type Manager interface {
	IsEnabled(ctx context.Context, flag FeatureFlag) bool

	// SetEnabled pins a flag, overriding its configured state
	SetEnabled(flag FeatureFlag, enabled bool)

	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager reads flags from the environment on every call, so a flag can
// be flipped without a restart of the process that set it.
type EnvManager struct {
	mu     sync.RWMutex
	pinned map[FeatureFlag]bool
	prefix string
}

// NewEnvManager creates an environment-backed manager. Flags without a
// variable fall back to Defaults.
func NewEnvManager(prefix string) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	return &EnvManager{
		pinned: make(map[FeatureFlag]bool),
		prefix: prefix,
	}
}

// IsEnabled reports whether flag is on
func (m *EnvManager) IsEnabled(_ context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	enabled, ok := m.pinned[flag]
	m.mu.RUnlock()
	if ok {
		return enabled
	}

	value, ok := os.LookupEnv(m.prefix + strings.ToUpper(string(flag)))
	if !ok || value == "" {
		return Defaults[flag]
	}
	return parseEnabled(value)
}

// SetEnabled pins flag; the environment is ignored for it afterwards
func (m *EnvManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinned[flag] = enabled
}

// GetAllFlags returns the current state of every defined flag
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	flags := make(map[FeatureFlag]bool, len(All))
	for _, f := range All {
		flags[f] = m.IsEnabled(context.Background(), f)
	}
	return flags
}

func parseEnabled(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "enabled", "on":
		return true
	default:
		return false
	}
}

// StaticManager holds fixed flag states. Unknown flags are off.
type StaticManager struct {
	mu    sync.RWMutex
	flags map[FeatureFlag]bool
}

// NewStaticManager creates a manager from a copy of flags
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	m := &StaticManager{flags: make(map[FeatureFlag]bool, len(flags))}
	for k, v := range flags {
		m.flags[k] = v
	}
	return m
}

// IsEnabled reports whether flag is on
func (m *StaticManager) IsEnabled(_ context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[flag]
}

// SetEnabled changes the state of flag
func (m *StaticManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[flag] = enabled
}

// GetAllFlags returns a copy of every flag state
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[FeatureFlag]bool, len(m.flags))
	for k, v := range m.flags {
		result[k] = v
	}
	return result
}
