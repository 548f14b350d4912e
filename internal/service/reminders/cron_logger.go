package reminders

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// cronLogger адаптер Logger к cron.Logger
// Информационные сообщения cron не пишутся, кроме пропуска тика
type cronLogger struct {
	logger Logger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		l.logger.Warn("ReminderScheduler: previous scan still running, tick skipped (degraded)")
	}
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("ReminderScheduler: %s: %v %s", msg, err, formatKV(keysAndValues))
}

func formatKV(keysAndValues []interface{}) string {
	out := ""
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out += fmt.Sprintf("%v=%v ", keysAndValues[i], keysAndValues[i+1])
	}
	return out
}
