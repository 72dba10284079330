package logger

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	log  zerolog.Logger
	once sync.Once
)

// Init sets up the process-wide logger writing to ~/.droidsmith/droidsmith.log.
func Init() {
	once.Do(func() {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic("Failed to get user home directory: " + err.Error())
		}

		appDir := filepath.Join(homeDir, ".droidsmith")
		err = os.MkdirAll(appDir, 0755)
		if err != nil {
			panic("Failed to create .droidsmith directory: " + err.Error())
		}

		logFile, err := os.OpenFile(filepath.Join(appDir, "droidsmith.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			panic("Failed to open log file: " + err.Error())
		}

		log = zerolog.New(logFile).With().Timestamp().Logger()
	})
}

// Get returns the logger instance.
func Get() *zerolog.Logger {
	return &log
}

// Nop returns a discard-all logger for tests and callers that don't want output.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
