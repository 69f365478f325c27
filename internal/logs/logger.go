package logs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. Production gets JSON output at the
// configured level; everything else gets human-readable text.
func New(level string, production bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if production {
		logger.SetFormatter(new(logrus.JSONFormatter))
	} else {
		logger.SetFormatter(new(logrus.TextFormatter))
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}
