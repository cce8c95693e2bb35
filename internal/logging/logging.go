package logging

import (
	"context"
	"log"
	"os"
)

var (
	disabled = false
	logger   = log.New(os.Stdout, "", log.LstdFlags)
)

type ctxKey struct{}

// Disable turns off all logging
func Disable() {
	disabled = true
}

// Enable turns logging back on
func Enable() {
	disabled = false
}

func output(level string, v ...any) {
	if disabled {
		return
	}
	logger.Println(append([]any{level}, v...)...)
}

func outputf(level, format string, v ...any) {
	if disabled {
		return
	}
	logger.Printf(level+" "+format, v...)
}

// Info logs an info message
func Info(v ...any) {
	output("INFO", v...)
}

// Infof logs a formatted info message
func Infof(format string, v ...any) {
	outputf("INFO", format, v...)
}

// Error logs an error message
func Error(v ...any) {
	output("ERROR", v...)
}

// Errorf logs a formatted error message
func Errorf(format string, v ...any) {
	outputf("ERROR", format, v...)
}

// Warn logs a warning message
func Warn(v ...any) {
	output("WARN", v...)
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) {
	outputf("WARN", format, v...)
}

// Debug logs a debug message (same as Info when not disabled)
func Debug(v ...any) {
	output("DEBUG", v...)
}

// Debugf logs a formatted debug message
func Debugf(format string, v ...any) {
	outputf("DEBUG", format, v...)
}

// WithRequestID stashes a request identifier in the context so that
// loggers built from it prefix every line with the id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Logger is a simple logger that can be embedded in structs
type Logger struct {
	requestID string
}

// WithContext creates a Logger carrying the request id from ctx, if any.
func WithContext(ctx context.Context) Logger {
	id, _ := ctx.Value(ctxKey{}).(string)
	return Logger{requestID: id}
}

func (l Logger) prefix(v ...any) []any {
	if l.requestID == "" {
		return v
	}
	return append([]any{"[" + l.requestID + "]"}, v...)
}

func (l Logger) prefixf(format string) string {
	if l.requestID == "" {
		return format
	}
	return "[" + l.requestID + "] " + format
}

// Info logs an info message
func (l Logger) Info(v ...any) {
	Info(l.prefix(v...)...)
}

// Infof logs a formatted info message
func (l Logger) Infof(format string, v ...any) {
	Infof(l.prefixf(format), v...)
}

// Error logs an error message
func (l Logger) Error(v ...any) {
	Error(l.prefix(v...)...)
}

// Errorf logs a formatted error message
func (l Logger) Errorf(format string, v ...any) {
	Errorf(l.prefixf(format), v...)
}

// Warn logs a warning message
func (l Logger) Warn(v ...any) {
	Warn(l.prefix(v...)...)
}

// Warnf logs a formatted warning message
func (l Logger) Warnf(format string, v ...any) {
	Warnf(l.prefixf(format), v...)
}
