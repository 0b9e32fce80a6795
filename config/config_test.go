package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Bus, test.ShouldEqual, "1")
	test.That(t, cfg.LockFile, test.ShouldEqual, DefaultLockFile())
	test.That(t, cfg.StableReadDelay, test.ShouldEqual, time.Duration(0))
	test.That(t, cfg.VerifyDelay, test.ShouldEqual, 10*time.Millisecond)
	test.That(t, cfg.CalibrationDelay, test.ShouldEqual, 100*time.Millisecond)
	test.That(t, cfg.Debug, test.ShouldBeFalse)
	test.That(t, cfg.LogFile, test.ShouldBeEmpty)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ioplus.yaml")
	contents := "bus: \"3\"\nverify_delay: 25ms\nlock_file: /run/lock/ioplus.lock\n"
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Bus, test.ShouldEqual, "3")
	test.That(t, cfg.VerifyDelay, test.ShouldEqual, 25*time.Millisecond)
	test.That(t, cfg.LockFile, test.ShouldEqual, "/run/lock/ioplus.lock")
	test.That(t, cfg.CalibrationDelay, test.ShouldEqual, 100*time.Millisecond)

	t.Setenv("IOPLUS_BUS", "4")
	t.Setenv("IOPLUS_DEBUG", "true")
	t.Setenv("IOPLUS_STABLE_READ_DELAY", "2ms")
	t.Setenv("IOPLUS_LOG_FILE", "/var/log/ioplus.log")
	cfg, err = Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Bus, test.ShouldEqual, "4")
	test.That(t, cfg.Debug, test.ShouldBeTrue)
	test.That(t, cfg.StableReadDelay, test.ShouldEqual, 2*time.Millisecond)
	test.That(t, cfg.LogFile, test.ShouldEqual, "/var/log/ioplus.log")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	test.That(t, err, test.ShouldNotBeNil)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	test.That(t, os.WriteFile(path, []byte("verify_delay: -5ms\n"), 0o600), test.ShouldBeNil)
	_, err = Load(path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "verify_delay")
}

func TestValidate(t *testing.T) {
	cfg := Config{LockFile: "x"}
	err := cfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"bus" is required`)

	cfg = Config{Bus: "1"}
	err = cfg.Validate("path")
	test.That(t, err.Error(), test.ShouldContainSubstring, `"lock_file" is required`)

	cfg = Config{Bus: "1", LockFile: "x", VerifyDelay: time.Millisecond}
	test.That(t, cfg.Validate("path"), test.ShouldBeNil)
}
