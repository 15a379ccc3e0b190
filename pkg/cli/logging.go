package cli

import (
	"os"

	"github.com/sirupsen/logrus"
)

// log is the package logger. It writes to stderr so terminal previews on
// stdout are not interleaved with log records.
var log = logrus.New()

// InitLogger configures the package logger and returns it.
func InitLogger(debug bool) *logrus.Logger {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		log.Debug("debug logging enabled")
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return log
}
