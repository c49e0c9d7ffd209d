package sptr

import (
	"sync/atomic"

	"github.com/go-logr/logr"
)

// Verbosity levels used with the package logger.
const (
	// LogLifecycle reports payload disposal and block reclamation.
	LogLifecycle = 1
	// LogTrace reports failed upgrades and checked-cast misses.
	LogTrace = 2
)

var logSink atomic.Pointer[logr.Logger]

// SetLogger installs the logger used for lifecycle diagnostics.
// Lifecycle events are logged at V(LogLifecycle), upgrade and cast misses at
// V(LogTrace). Errors returned by payload Close methods are logged as errors.
//
// Thread-safe. The zero logr.Logger disables logging.
func SetLogger(l logr.Logger) {
	logSink.Store(&l)
}

// Logger returns the logger installed with SetLogger, or a discarding logger.
func Logger() logr.Logger {
	if l := logSink.Load(); l != nil && l.GetSink() != nil {
		return *l
	}
	return logr.Discard()
}
