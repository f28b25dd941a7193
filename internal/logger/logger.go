package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions controls rotation of the log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup builds the process logger. Console output goes to stderr, pretty
// printed when dev is set. When file.Path is set, JSON lines are also written
// to a rotating log file.
func Setup(dev bool, file FileOptions) zerolog.Logger {
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	var console io.Writer = os.Stderr
	if dev {
		console = zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}
	}

	out := console
	if file.Path != "" {
		out = zerolog.MultiLevelWriter(console, newRotatingFile(file))
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if dev {
		logger = logger.With().Caller().Stack().Logger()
	}

	return logger
}

func newRotatingFile(file FileOptions) *lumberjack.Logger {
	l := &lumberjack.Logger{
		Filename:   file.Path,
		MaxSize:    file.MaxSizeMB,
		MaxBackups: file.MaxBackups,
		MaxAge:     file.MaxAgeDays,
	}
	if l.MaxSize == 0 {
		l.MaxSize = 10
	}
	if l.MaxBackups == 0 {
		l.MaxBackups = 3
	}
	return l
}
