package types

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a named sugared logger
type Logger struct {
	*zap.SugaredLogger
	LogsPath string
	Name     string
}

// Nop returns a logger that drops everything
func Nop(name string) *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar(), Name: name}
}

// Log is an entry handed to a LogHook
type Log struct {
	Timestamp  time.Time
	Caller     string
	LoggerName string
	Level      zapcore.Level
	Message    string
}

// LogHook is called for every entry written by the root logger and its
// named children
type LogHook func(log Log)
