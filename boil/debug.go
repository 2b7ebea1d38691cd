//go:build debug

package boil

import (
	"log"

	"go.uber.org/zap"
)

// newFileLogger returns a new logger and also writes the log output to files.
func newFileLogger(files ...string) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = append(cfg.OutputPaths, files...)
	l, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot create new logger:", err)
	}
	return NewLogger(l.Sugar())
}
