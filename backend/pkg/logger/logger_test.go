package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLevels(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	require.NoError(t, Init("production", ""))
	assert.True(t, Logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, Logger.Core().Enabled(zap.DebugLevel))

	require.NoError(t, Init("development", ""))
	assert.True(t, Logger.Core().Enabled(zap.DebugLevel))

	require.NoError(t, Init("development", "error"))
	assert.False(t, Logger.Core().Enabled(zap.WarnLevel))
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	t.Cleanup(func() { Logger = nil })
	assert.Error(t, Init("development", "loud"))
}

func TestGetFallsBackWhenUninitialized(t *testing.T) {
	Logger = nil
	assert.NotNil(t, Get())
	assert.NotNil(t, Named("search"))
}
