package flags

import (
	"os"

	"code.cloudfoundry.org/lager"

	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/logx/lagerx"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelError LogLevel = "error"
	LogLevelFatal LogLevel = "fatal"
)

var lagerLogLevels = map[LogLevel]lager.LogLevel{
	LogLevelDebug: lager.DEBUG,
	LogLevelInfo:  lager.INFO,
	LogLevelError: lager.ERROR,
	LogLevelFatal: lager.FATAL,
}

type LagerFlag struct {
	LogLevel LogLevel `long:"log-level" default:"info" choice:"debug" choice:"info" choice:"error" choice:"fatal" description:"Minimum level of logs to see."`
}

// Logger builds the process logger, writing JSON lines to stdout at or
// above the configured level. The zero value logs at info.
func (f LagerFlag) Logger(component string) logx.Logger {
	minLevel, ok := lagerLogLevels[f.LogLevel]
	if !ok {
		minLevel = lager.INFO
	}

	inner := lager.NewLogger(component)
	inner.RegisterSink(lager.NewReconfigurableSink(lager.NewWriterSink(os.Stdout, lager.DEBUG), minLevel))

	return lagerx.NewLogger(inner)
}
