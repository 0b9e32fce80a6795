package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// NewTestLogger returns a new logger that outputs Debug+ logs through the test object.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also saves logs to an in memory observer.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	testCore := zaptest.NewLogger(tb, zaptest.Level(zap.DebugLevel)).Core()
	logger := zap.New(zapcore.NewTee(testCore, observerCore), zap.AddCaller()).Sugar().Named(tb.Name())
	return &impl{logger, tb.Name()}, observedLogs
}
