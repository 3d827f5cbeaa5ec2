// Package zaplog adapts go.uber.org/zap to the docmodel logger interfaces.
package zaplog

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-docmodel"
)

// Logger implements docmodel.Logger and docmodel.EvaluatorLogger.
type Logger struct {
	log *zap.Logger
}

var (
	_ docmodel.Logger          = (*Logger)(nil)
	_ docmodel.EvaluatorLogger = (*Logger)(nil)
)

// New wraps log. A nil logger is replaced by zap.NewNop.
func New(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Named("docmodel")}
}

// Options returns the docmodel options that route both loggers to l.
func (l *Logger) Options() []docmodel.Option {
	return []docmodel.Option{docmodel.WithLogger(l), docmodel.WithEvaluatorLogger(l)}
}

func (l *Logger) Log(event docmodel.LogEvent) {
	fields := []zap.Field{zap.String("path", event.Path)}
	if event.Event != "" {
		fields = append(fields, zap.String("event", event.Event))
	}
	if event.Err != nil {
		fields = append(fields, zap.Error(event.Err))
	}
	switch event.Level {
	case docmodel.LogLevelWarn:
		l.log.Warn(event.Message, fields...)
	default:
		l.log.Debug(event.Message, fields...)
	}
}

func (l *Logger) LogEvaluation(event docmodel.EvaluatorLogEvent) {
	fields := []zap.Field{
		zap.String("engine", event.Engine),
		zap.String("expr", event.Expr),
		zap.String("path", event.Path),
		zap.Duration("duration", event.Duration),
	}
	if event.Err != nil {
		l.log.Warn("evaluation failed", append(fields, zap.Error(event.Err))...)
		return
	}
	l.log.Debug("evaluation", fields...)
}
