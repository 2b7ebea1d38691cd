package boil

import (
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Logger encapsulates a Logger and module which it belongs to.
// Use this through SetLogger() of the analysers.
type Logger struct {
	*zap.SugaredLogger
	module string
}

// LogSetter is implemented by the analysers of this package.
type LogSetter interface {
	SetLogger(*Logger)
}

// NewLogger wraps l as the logger of the top level module.
func NewLogger(l *zap.SugaredLogger) *Logger {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	return &Logger{SugaredLogger: l, module: color.CyanString("boil ")}
}

// Module returns (stylised) module name.
func (l *Logger) Module() string {
	return l.module
}

// withModule returns a copy of l tagged with module.
func (l *Logger) withModule(module string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger, module: module}
}
