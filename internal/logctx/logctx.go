// Package logctx wires up the module's process-wide logger, adapted
// from the teacher corpus's SetupLogging pattern: op/go-logging with a
// leveled backend and an environment-variable level override.
package logctx

import (
	"os"

	"github.com/op/go-logging"
)

// Log is the package-wide logger every component calls into, matching
// the teacher's process-wide `var log = logging.MustGetLogger("")`.
var Log = logging.MustGetLogger("viewer")

var stderrFormat = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:.4s} %{shortfunc} ▶%{color:reset} %{message}`,
)

// Setup installs a leveled stderr backend and returns the logger.
// VIEWER_LOG_LEVEL overrides defaultLevel when set to one of the
// go-logging level names.
func Setup(defaultLevel logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, stderrFormat)
	leveled := logging.AddModuleLevel(formatted)

	switch os.Getenv("VIEWER_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, "")
	case "ERROR":
		leveled.SetLevel(logging.ERROR, "")
	case "WARNING":
		leveled.SetLevel(logging.WARNING, "")
	case "NOTICE":
		leveled.SetLevel(logging.NOTICE, "")
	case "INFO":
		leveled.SetLevel(logging.INFO, "")
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, "")
	default:
		leveled.SetLevel(defaultLevel, "")
	}

	logging.SetBackend(leveled)
	return Log
}
