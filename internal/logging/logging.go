package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLevel maps a configuration string to a level, defaulting to
// INFO for unknown names.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	}
	return LogLevelInfo
}

type Logger interface {
	Log(level LogLevel, format string, args ...interface{})
}

type DefaultLogger struct {
	logMode LogLevel
	logger  *log.Logger
}

// NewDefaultLogger logs to stdout, and additionally to logFile when it
// is non-empty.
func NewDefaultLogger(mode LogLevel, logFile string) (*DefaultLogger, error) {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, err
		}
		w = io.MultiWriter(os.Stdout, file)
	}

	return &DefaultLogger{
		logMode: mode,
		logger:  log.New(w, "", log.LstdFlags),
	}, nil
}

func (l *DefaultLogger) Log(level LogLevel, format string, args ...interface{}) {
	if level < l.logMode {
		return
	}
	l.logger.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}
