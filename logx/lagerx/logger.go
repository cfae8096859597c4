package lagerx

import (
	"code.cloudfoundry.org/lager"

	"github.com/JohnathanALves/reaction/logx"
)

// Logger adapts a lager.Logger to the logx.Logger contract.
type Logger struct {
	logger lager.Logger
}

func NewLogger(logger lager.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) WithName(name string) logx.Logger {
	return NewLogger(l.logger.Session(name))
}

func (l *Logger) WithData(data ...logx.Data) logx.Logger {
	return NewLogger(l.logger.WithData(toLagerData(data)))
}

func (l *Logger) Debug(msg string, data ...logx.Data) {
	l.logger.Debug(msg, toLagerData(data))
}

func (l *Logger) Info(msg string, data ...logx.Data) {
	l.logger.Info(msg, toLagerData(data))
}

func (l *Logger) Error(msg string, err error, data ...logx.Data) {
	l.logger.Error(msg, err, toLagerData(data))
}

// Duplicate keys keep the last value given.
func toLagerData(data []logx.Data) lager.Data {
	out := make(lager.Data, len(data))

	for _, d := range data {
		out[d.Key] = d.Value
	}

	return out
}
