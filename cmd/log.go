package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type logFormat string

const (
	logText logFormat = "text"
	logJSON logFormat = "json"
)

var expectedLogFormats = []logFormat{logText, logJSON}

// logLevelOff disables logging
const logLevelOff = "off"

var expectedLogLevels = []string{
	logrus.TraceLevel.String(),
	logrus.DebugLevel.String(),
	logrus.InfoLevel.String(),
	logrus.WarnLevel.String(),
	logrus.ErrorLevel.String(),
	logLevelOff,
}

// configureLog sets the level, format and output of the standard
// logrus logger from cfg
func configureLog(cfg *viper.Viper, out io.Writer) error {
	switch format := logFormat(cfg.GetString(logFormatKey)); format {
	case logJSON:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case logText, "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format specified %q expecting one "+
			"of %v", format, expectedLogFormats)
	}
	logrus.SetOutput(out)

	levelName := cfg.GetString(logLevelKey)
	if cfg.GetBool(verboseKey) {
		levelName = logrus.DebugLevel.String()
	}
	if levelName == logLevelOff {
		logrus.SetOutput(io.Discard)
		return nil
	}

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level specified %q expecting one "+
			"of %v", levelName, expectedLogLevels)
	}
	logrus.SetLevel(level)
	return nil
}
