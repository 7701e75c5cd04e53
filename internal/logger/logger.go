package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const (
	timeFormat = "2006-01-02T15:04:05.000Z07:00"
	appName    = "elevatorsim"
)

var once sync.Once
var Log zerolog.Logger

func configureLogger() {
	zerolog.TimeFieldFormat = timeFormat

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: timeFormat,
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	}

	Log = zerolog.New(output).With().Timestamp().Str("app", appName).Logger()
}

// GetLoggerConfigured configures the shared logger on first use and sets the
// global level. Later calls only change the level.
func GetLoggerConfigured(level zerolog.Level) *zerolog.Logger {
	once.Do(configureLogger)
	zerolog.SetGlobalLevel(level)
	return &Log
}

// GetLoggerForLevel is GetLoggerConfigured for a level name from the config
// or command line, such as "debug" or "WARN". An empty name means info; an
// unknown name also falls back to info and is reported on the logger.
func GetLoggerForLevel(name string) *zerolog.Logger {
	level, ok := parseLevel(name)
	log := GetLoggerConfigured(level)
	if !ok {
		log.Warn().Msgf("Unknown log level %q, using %s", name, level)
	}
	return log
}

func GetLogger() *zerolog.Logger {
	once.Do(configureLogger)
	return &Log
}

func parseLevel(name string) (zerolog.Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, true
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel, false
	}
	return level, true
}
