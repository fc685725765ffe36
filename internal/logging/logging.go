// Package logging implements an interface behind which a third-party,
// levelled logger sits, so the rest of nsync never imports zap directly.
//
// Grounded on FollowTheProcess/spok's logger package, extended with Info/Warn/Error
// levels since nsync's batch and orchestrator phases narrate progress at
// Info level, not just Debug.
package logging

import "go.uber.org/zap"

// Logger is the interface behind which a levelled logger can sit.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Sync() error
}

// ZapLogger is a Logger backed by zap's SugaredLogger.
type ZapLogger struct {
	inner *zap.SugaredLogger
}

// New builds a ZapLogger. Verbose raises the level to Debug; otherwise Info.
func New(verbose bool) (*ZapLogger, error) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	logger, err := cfg.Build(zap.IncreaseLevel(level))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{inner: logger.Sugar()}, nil
}

func (z *ZapLogger) Debugf(format string, args ...any) { z.inner.Debugf(format, args...) }
func (z *ZapLogger) Infof(format string, args ...any)  { z.inner.Infof(format, args...) }
func (z *ZapLogger) Warnf(format string, args ...any)  { z.inner.Warnf(format, args...) }
func (z *ZapLogger) Errorf(format string, args ...any) { z.inner.Errorf(format, args...) }
func (z *ZapLogger) Sync() error                       { return z.inner.Sync() }

// Nop is a Logger that discards everything, useful for tests and for
// callers that have not wired up a real logger.
type Nop struct{}

func (Nop) Debugf(string, ...any) {}
func (Nop) Infof(string, ...any)  {}
func (Nop) Warnf(string, ...any)  {}
func (Nop) Errorf(string, ...any) {}
func (Nop) Sync() error           { return nil }
