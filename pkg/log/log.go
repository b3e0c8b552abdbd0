package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	logging "gopkg.in/op/go-logging.v1"
)

const module = "simple-server"

var (
	mu        sync.Mutex
	logWriter io.Writer = os.Stderr
	verbose   bool
	logger    = logging.MustGetLogger(module)
)

func init() {
	configure()
}

// configure rebuilds the backend chain. Callers must hold mu, except init.
func configure() {
	backend := logging.NewLogBackend(logWriter, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(`%{message}`))
	leveled := logging.AddModuleLevel(formatted)
	level := logging.INFO
	if verbose {
		level = logging.DEBUG
	}
	leveled.SetLevel(level, module)
	logger.SetBackend(leveled)
}

// SetLogWriter sets the log output destination. Logs never go to stdout by
// default since stdout carries the stdio transport.
func SetLogWriter(w io.Writer) {
	if w == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logWriter = w
	configure()
}

// SetVerbose enables debug messages.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	configure()
}

// Log prints a message to the log output, operands separated by spaces.
func Log(a ...any) {
	logger.Info(strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}

// Logf prints a formatted message to the log output
func Logf(format string, a ...any) {
	logger.Infof(strings.TrimSuffix(format, "\n"), a...)
}

// Warnf prints a formatted warning.
func Warnf(format string, a ...any) {
	logger.Warningf(strings.TrimSuffix(format, "\n"), a...)
}

// Debugf prints a formatted message only in verbose mode.
func Debugf(format string, a ...any) {
	logger.Debugf(strings.TrimSuffix(format, "\n"), a...)
}
