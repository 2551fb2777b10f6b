package featureflags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvManager_Defaults(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.False(t, manager.IsEnabled(ctx, CoverProbe))
	assert.True(t, manager.IsEnabled(ctx, CoverColors))
	assert.True(t, manager.IsEnabled(ctx, RSSFeed))
}

func TestEnvManager_EnvOverridesDefault(t *testing.T) {
	t.Setenv("TEST_FEATURE_COVER_PROBE", "true")
	t.Setenv("TEST_FEATURE_RSS_FEED", "false")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, CoverProbe))
	assert.False(t, manager.IsEnabled(ctx, RSSFeed))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"ENABLED", "ENABLED", true},
		{"false", "false", false},
		{"0", "0", false},
		{"on", "on", true},
		{"padded", " true ", true},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLAG", tt.value)

			manager := NewEnvManager("TEST_")
			assert.Equal(t, tt.expected, manager.IsEnabled(context.Background(), "FLAG"))
		})
	}
}

func TestEnvManager_OverrideTakesPrecedence(t *testing.T) {
	t.Setenv("TEST_FEATURE_METRICS_ENABLED", "true")

	manager := NewEnvManager("TEST_FEATURE_")
	manager.SetEnabled(MetricsEnabled, false)

	assert.False(t, manager.IsEnabled(context.Background(), MetricsEnabled))
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	manager.SetEnabled(CoverProbe, true)

	flags := manager.GetAllFlags()

	assert.Len(t, flags, len(All))
	assert.True(t, flags[CoverProbe])
	assert.True(t, flags[RateLimitEnabled])
}

func TestStaticManager(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{RSSFeed: true})
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, RSSFeed))
	assert.False(t, manager.IsEnabled(ctx, CoverColors))

	manager.SetEnabled(CoverColors, true)
	assert.True(t, manager.IsEnabled(ctx, CoverColors))
	assert.Equal(t, map[FeatureFlag]bool{RSSFeed: true, CoverColors: true}, manager.GetAllFlags())
}

func TestStaticManager_CopiesInput(t *testing.T) {
	manager := NewStaticManager(Defaults)
	manager.SetEnabled(RSSFeed, false)

	assert.True(t, Defaults[RSSFeed])
	assert.False(t, manager.IsEnabled(context.Background(), RSSFeed))
}

func TestNilStaticManagerInput(t *testing.T) {
	manager := NewStaticManager(nil)
	assert.False(t, manager.IsEnabled(context.Background(), RSSFeed))
	assert.Empty(t, manager.GetAllFlags())
}
