package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ioplus.log")
	logger, closer := NewFileLogger("ioplus", path, zapcore.InfoLevel)

	logger.Debugw("dropped", "stack", 0)
	logger.Sublogger("relwr").Infow("write reflected", "stack", 2)
	test.That(t, closer.Close(), test.ShouldBeNil)

	contents, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, `"msg":"write reflected"`)
	test.That(t, string(contents), test.ShouldContainSubstring, `"logger":"ioplus.relwr"`)
	test.That(t, string(contents), test.ShouldNotContainSubstring, "dropped")
}
