package logx

// Data is a single structured logging field.
type Data struct {
	Key   string
	Value interface{}
}

// Logger is the project-wide logging contract. Implementations must be
// safe for concurrent use.
type Logger interface {
	WithName(name string) Logger
	WithData(data ...Data) Logger

	Debug(msg string, data ...Data)
	Info(msg string, data ...Data)
	Error(msg string, err error, data ...Data)
}
