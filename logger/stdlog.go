package logger

import (
	"fmt"
	"log/slog"
)

type stdLoggerish struct {
	key string
	log *slog.Logger
}

// NewStdLog wraps a slog.Logger for libraries that want a
// Println/Printf style logger.
func NewStdLog(key string, log *slog.Logger) *stdLoggerish {
	if log == nil {
		log = Setup()
	}
	return &stdLoggerish{
		key: key,
		log: log,
	}
}

func (l stdLoggerish) Println(msg ...interface{}) {
	l.log.Info(l.key, "msg", msg)
}

func (l stdLoggerish) Printf(msg string, args ...interface{}) {
	l.log.Info(l.key, "msg", fmt.Sprintf(msg, args...))
}
