package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestSubloggerNames(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("session")
	sub.Debugw("retrying read", "register", 3)

	test.That(t, logs.Len(), test.ShouldEqual, 1)
	entry := logs.All()[0]
	test.That(t, entry.Level, test.ShouldEqual, zapcore.DebugLevel)
	test.That(t, entry.LoggerName, test.ShouldEqual, t.Name()+".session")
	test.That(t, entry.Message, test.ShouldEqual, "retrying read")
	test.That(t, entry.ContextMap()["register"], test.ShouldEqual, int64(3))
}

func TestBlankLoggerDiscards(t *testing.T) {
	logger := NewBlankLogger("quiet")
	logger.Errorw("nobody hears this")
	test.That(t, logger.Sublogger("sub"), test.ShouldNotBeNil)
}

func TestGlobalReplace(t *testing.T) {
	orig := Global()
	defer ReplaceGlobal(orig)

	logger := NewTestLogger(t)
	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
}
