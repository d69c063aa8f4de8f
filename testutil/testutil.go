package testutil

import (
	"log/slog"
	"os"
	"testing"
)

// TestLogger creates a test logger that outputs to testing.T
type TestLogger struct {
	t      *testing.T
	logger *slog.Logger
}

// NewTestLogger creates a test logger
func NewTestLogger(t *testing.T) *TestLogger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger := slog.New(handler)

	return &TestLogger{
		t:      t,
		logger: logger,
	}
}

// Logger returns the slog.Logger instance
func (tl *TestLogger) Logger() *slog.Logger {
	return tl.logger
}

// AssertNoError is a helper to assert no error occurred
func AssertNoError(t *testing.T, err error, msg string, args ...interface{}) {
	if err != nil {
		t.Fatalf(msg+": %v", append(args, err)...)
	}
}

// AssertError is a helper to assert an error occurred
func AssertError(t *testing.T, err error, msg string, args ...interface{}) {
	if err == nil {
		t.Fatalf(msg, args...)
	}
}

// AssertEqual is a helper to assert two values are equal
func AssertEqual[T comparable](t *testing.T, expected, actual T, msg string, args ...interface{}) {
	if expected != actual {
		t.Fatalf(msg+" - expected: %v, actual: %v", append(args, expected, actual)...)
	}
}

// AssertNotEqual is a helper to assert two values are not equal
func AssertNotEqual[T comparable](t *testing.T, expected, actual T, msg string, args ...interface{}) {
	if expected == actual {
		t.Fatalf(msg+" - both values equal: %v", append(args, expected)...)
	}
}

// AssertTrue is a helper to assert a boolean is true
func AssertTrue(t *testing.T, condition bool, msg string, args ...interface{}) {
	if !condition {
		t.Fatalf(msg, args...)
	}
}

// AssertFalse is a helper to assert a boolean is false
func AssertFalse(t *testing.T, condition bool, msg string, args ...interface{}) {
	if condition {
		t.Fatalf(msg, args...)
	}
}
