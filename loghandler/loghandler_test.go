package loghandler

import (
	"testing"

	"github.com/blockstack-chain/marf-store/marfconfig"
)

func TestSetupRejectsUnknownLevel(t *testing.T) {
	err := Setup(marfconfig.LogConfig{Level: "deafening"}, false)
	if err == nil {
		t.Fatal("expected an error for an unrecognized log level")
	}
}

func TestSetupAcceptsEveryKnownLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error", "crit"} {
		if err := Setup(marfconfig.LogConfig{Level: level}, false); err != nil {
			t.Errorf("Setup(%q): %v", level, err)
		}
	}
}

func TestSetupWithFileSinkConfigured(t *testing.T) {
	dir := t.TempDir()
	cfg := marfconfig.LogConfig{Level: "info", File: dir + "/marfd.log", MaxSizeMB: 5, MaxBackups: 2}
	if err := Setup(cfg, true); err != nil {
		t.Fatalf("Setup with file sink: %v", err)
	}
}
