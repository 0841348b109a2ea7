// Package marfconfig holds the TOML-tagged configuration struct marfd
// loads, following the defaults-then-file-then-flags pattern of
// cmd/mive/config.go's miveConfig.
package marfconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/blockstack-chain/marf-store/core/dispatch"
	"github.com/blockstack-chain/marf-store/core/types"
	"github.com/blockstack-chain/marf-store/params"
)

// ObserverConfig is one statically configured event observer (spec.md
// §6, SPEC_FULL §4 item 3 "the config-file path ... still works
// unchanged").
type ObserverConfig struct {
	// Endpoint is the observer's "host:port" TCP delivery address.
	Endpoint string `toml:"endpoint"`

	// Events lists subscription patterns. Recognized forms: "any", "stx",
	// "asset:<asset_id>", "contract:<contract_id>:<topic>".
	Events []string `toml:"events"`

	// Filter, if set, is an AdvancedFilter expression layered on top of
	// Events (SPEC_FULL §3, §4 item 4).
	Filter string `toml:"filter,omitempty"`
}

// Keys parses Events into dispatch.Key values.
func (o ObserverConfig) Keys() ([]dispatch.Key, error) {
	keys := make([]dispatch.Key, 0, len(o.Events))
	for _, raw := range o.Events {
		key, err := parseEventKey(raw)
		if err != nil {
			return nil, fmt.Errorf("observer %s: %w", o.Endpoint, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func parseEventKey(raw string) (dispatch.Key, error) {
	switch {
	case raw == "any":
		return dispatch.AnyKey(), nil
	case raw == "stx":
		return dispatch.StxKey(), nil
	case strings.HasPrefix(raw, "asset:"):
		assetID := strings.TrimPrefix(raw, "asset:")
		if assetID == "" {
			return dispatch.Key{}, fmt.Errorf("empty asset id in %q", raw)
		}
		return dispatch.AssetKey(types.AssetID(assetID)), nil
	case strings.HasPrefix(raw, "contract:"):
		rest := strings.TrimPrefix(raw, "contract:")
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return dispatch.Key{}, fmt.Errorf("malformed contract event key %q, want contract:<contract_id>:<topic>", raw)
		}
		return dispatch.SmartContractKey(types.ContractID(parts[0]), parts[1]), nil
	default:
		return dispatch.Key{}, fmt.Errorf("unrecognized event key %q", raw)
	}
}

// LogConfig configures the loghandler package (SPEC_FULL §2.1).
type LogConfig struct {
	// Level is one of the go-ethereum/log level names ("trace", "debug",
	// "info", "warn", "error", "crit").
	Level string `toml:",omitempty"`

	// File, if set, enables a rotating file handler alongside the
	// terminal handler.
	File string `toml:",omitempty"`

	// MaxSizeMB is the lumberjack rotation threshold.
	MaxSizeMB int `toml:",omitempty"`

	// MaxBackups is the number of rotated files lumberjack retains.
	MaxBackups int `toml:",omitempty"`
}

// AdminConfig configures the optional admin HTTP API (SPEC_FULL §4 item 3).
type AdminConfig struct {
	Enabled     bool     `toml:",omitempty"`
	ListenAddr  string   `toml:",omitempty"`
	JWTSecret   string   `toml:",omitempty"`
	CORSOrigins []string `toml:",omitempty"`
}

// Config is the top-level marfd configuration.
type Config struct {
	// DataDir holds the SQLite database file and its advisory lock file.
	DataDir string

	// DBFile overrides params.DefaultDBFileName when set.
	DBFile string `toml:",omitempty"`

	Observers []ObserverConfig `toml:",omitempty"`
	Log       LogConfig
	Admin     AdminConfig `toml:",omitempty"`
}

// Defaults returns the configuration used when no TOML file and no flags
// override it.
func Defaults() Config {
	return Config{
		DataDir: defaultDataDir(),
		DBFile:  params.DefaultDBFileName,
		Log:     LogConfig{Level: "info"},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".marfd"
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Roaming", "Marfd")
	}
	return filepath.Join(home, ".marfd")
}
