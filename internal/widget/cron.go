package widget

import (
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/logger"
)

// cronLogger routes robfig/cron messages into our logger.
type cronLogger struct {
	logger logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugf("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorf("%s: cron: %s %v", err, msg, keysAndValues)
}

func everySpec(interval time.Duration) string {
	return "@every " + interval.String()
}
