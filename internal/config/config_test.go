package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Defaults()
	cfg.ServerPort = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := Defaults()
	cfg.PlayerInactiveThreshMin = cfg.PlayerIdleThreshMin
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsInProgressLimitAboveTotal(t *testing.T) {
	cfg := Defaults()
	cfg.InProgressGameLimit = cfg.TotalGameLimit + 1
	assert.Error(t, cfg.Validate())
}

func TestBindFlagsOverridesDefault(t *testing.T) {
	cfg := Defaults()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, cfg)

	require.NoError(t, fs.Parse([]string{"--server-port=9999"}))
	assert.Equal(t, 9999, cfg.ServerPort)
}

func TestThresholdConversions(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, cfg.PlayerIdleThresh(), cfg.PlayerIdleThresh())
	assert.True(t, cfg.PlayerInactiveThresh() > cfg.PlayerIdleThresh())
	assert.True(t, cfg.GameInactiveThresh() > cfg.GameIdleThresh())
}
