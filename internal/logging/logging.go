// Package logging builds the zap logger shared by the server components.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kahdian/wikiproxy/internal/config"
)

// New returns a production (JSON) or development (console) logger at the
// configured level.
func New(settings config.LogSettings) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(settings.Level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", settings.Level, err)
	}

	var zc zap.Config
	if settings.JSON() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = level > zapcore.DebugLevel

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named("wikiproxy"), nil
}
