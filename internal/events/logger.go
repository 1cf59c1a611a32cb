package events

import (
	"github.com/ThreeDotsLabs/watermill"

	"knowledge-search/internal/common/logger"
)

type watermillLogger struct {
	log logger.Logger
}

// NewWatermillLogger routes watermill's internal logging into log.
// Trace output is folded into debug.
func NewWatermillLogger(log logger.Logger) watermill.LoggerAdapter {
	return &watermillLogger{log: logger.OrNoOp(log)}
}

func (w *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	f := map[string]interface{}(fields.Copy())
	if err != nil {
		f["error"] = err.Error()
	}
	w.log.Error(msg, f)
}

func (w *watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.log.Info(msg, fields)
}

func (w *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.log.Debug(msg, fields)
}

func (w *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.log.Debug(msg, fields)
}

func (w *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{log: w.log.With(fields)}
}
