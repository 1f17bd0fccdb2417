// Package logger provides the package-level zap logger used across the
// volumetric sampling core for construction diagnostics and warnings.
package logger

import "go.uber.org/zap"

// Log is the shared structured logger. It is replaced by Init for callers
// that want production settings (e.g. JSON encoding, a minimum level).
var Log *zap.Logger

func init() {
	l, err := zap.NewDevelopment()
	if err != nil {
		l = zap.NewNop()
	}
	Log = l
}

// Init swaps the shared logger, returning the previous one so callers can
// restore it (e.g. to capture or silence output).
func Init(l *zap.Logger) *zap.Logger {
	prev := Log
	Log = l
	return prev
}

// Sync flushes any buffered log entries. Errors are expected and ignored
// when stderr/stdout don't support syncing (e.g. under `go test`).
func Sync() {
	_ = Log.Sync()
}
