package logger

import (
	"course_market_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestApplyConfigChangesLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Mode = "release"
	cfg.Log.Level = "warn"

	InitLogger(cfg)
	assert.Equal(t, zap.WarnLevel, Level())

	cfg.Log.Level = "error"
	ApplyConfig(cfg)
	assert.Equal(t, zap.ErrorLevel, Level())

	cfg.Server.Mode = "debug"
	ApplyConfig(cfg)
	assert.Equal(t, zap.DebugLevel, Level())
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Mode = "release"
	cfg.Log.Level = "chatty"

	ApplyConfig(cfg)
	assert.Equal(t, zap.InfoLevel, Level())
}
