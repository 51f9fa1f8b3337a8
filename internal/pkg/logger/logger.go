package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v2/log"
)

// Setup routes application logs to stdout and, when path is set, to a log file as well.
func Setup(debug bool, path string) error {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, f)
	}
	log.SetOutput(out)

	if debug {
		log.SetLevel(log.LevelDebug)
	} else {
		log.SetLevel(log.LevelInfo)
	}
	return nil
}

func Success(message string) {
	log.Info("✅ " + message)
}

func Successf(format string, args ...interface{}) {
	log.Info(fmt.Sprintf("✅ "+format, args...))
}

func Info(message string) {
	log.Info("ℹ️ " + message)
}

func Infof(format string, args ...interface{}) {
	log.Info(fmt.Sprintf("ℹ️ "+format, args...))
}

func Warning(message string) {
	log.Warn("⚠️ " + message)
}

func Warningf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf("⚠️ "+format, args...))
}

func Debugf(format string, args ...interface{}) {
	log.Debug(fmt.Sprintf("🐛 "+format, args...))
}

// Error logs message with err appended when present.
func Error(message string, err error) {
	if err != nil {
		log.Error("❌ " + message + ": " + err.Error())
		return
	}
	log.Error("❌ " + message)
}

// Fatal logs and exits the process.
func Fatal(message string, err error) {
	Error(message, err)
	os.Exit(1)
}
