package logging

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var level atomic.Uint32

func init() {
	level.Store(uint32(logrus.InfoLevel))
}

// SetLevel changes the level of loggers created afterwards.
func SetLevel(l logrus.Level) {
	level.Store(uint32(l))
	logrus.SetLevel(l)
}

// New returns a logger with the common text format.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.Level(level.Load()))
	return logger
}
