package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	OffLevel
)

var (
	defaultLogger *Logger

	debugPrintf = color.New(color.FgCyan).SprintfFunc()
	infoPrintf  = color.New(color.FgGreen).SprintfFunc()
	warnPrintf  = color.New(color.FgYellow).SprintfFunc()
	errorPrintf = color.New(color.FgRed).SprintfFunc()
)

type Logger struct {
	logger *log.Logger
	level  Level
	mu     sync.Mutex
}

func init() {
	defaultLogger = &Logger{
		logger: log.New(os.Stdout, "aircon-bridge ", log.LstdFlags),
		level:  InfoLevel,
	}
}

// ParseLevel maps a config string onto a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "off":
		return OffLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}

func SetLevel(level Level) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = level
}

func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.logger = log.New(w, "aircon-bridge ", log.LstdFlags)

	// No colors unless we are writing to a terminal stream.
	if f, ok := w.(*os.File); !ok || (f != os.Stdout && f != os.Stderr) {
		color.NoColor = true
	}
}

func logf(level Level, printf func(string, ...interface{}) string, prefix, format string, v ...interface{}) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	if defaultLogger.level > level {
		return
	}
	defaultLogger.logger.Print(printf(prefix+format, v...))
}

func Debug(format string, v ...interface{}) {
	logf(DebugLevel, debugPrintf, "[DEBUG] ", format, v...)
}

func Info(format string, v ...interface{}) {
	logf(InfoLevel, infoPrintf, "[INFO] ", format, v...)
}

func Warn(format string, v ...interface{}) {
	logf(WarnLevel, warnPrintf, "[WARN] ", format, v...)
}

func Error(format string, v ...interface{}) {
	logf(ErrorLevel, errorPrintf, "[ERROR] ", format, v...)
}

// Fatal logs at error level and exits.
func Fatal(format string, v ...interface{}) {
	Error(format, v...)
	os.Exit(1)
}
