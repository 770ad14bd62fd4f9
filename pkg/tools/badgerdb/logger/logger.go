package badgerdb_logger

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/pietroski-software-company/golang/devex/slogx"
)

type (
	Logger interface {
		Errorf(format string, v ...interface{})
		Infof(format string, v ...interface{})
		Warningf(format string, v ...interface{})
		Debugf(format string, v ...interface{})
	}

	// SlogLogger forwards badger's printf style logs to a slogx logger.
	SlogLogger struct {
		ctx    context.Context
		logger slogx.SLogger
	}
)

func NewBadgerDBSlogLogger(ctx context.Context, logger slogx.SLogger) *SlogLogger {
	return &SlogLogger{
		ctx:    ctx,
		logger: logger,
	}
}

func (l *SlogLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(l.ctx, sprintf(format, v...), "component", "badger")
}

func (l *SlogLogger) Infof(format string, v ...interface{}) {
	l.logger.Info(l.ctx, sprintf(format, v...), "component", "badger")
}

func (l *SlogLogger) Warningf(format string, v ...interface{}) {
	l.logger.Warn(l.ctx, sprintf(format, v...), "component", "badger")
}

func (l *SlogLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(l.ctx, sprintf(format, v...), "component", "badger")
}

// badger terminates most of its messages with a new line.
func sprintf(format string, v ...interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, v...), "\n")
}
