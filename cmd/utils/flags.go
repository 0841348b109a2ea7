// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// Package utils contains internal helper functions for marfd commands,
// trimmed from the original flag set down to what this store actually
// takes: a data directory, an optional config file, log options, and the
// admin API's listen/auth settings. The account-manager, USB-wallet,
// network-selector, and RPC-transport flags the original command supported
// have no counterpart here (SPEC_FULL has no accounts, no p2p network to
// join, and a single purpose-built admin API rather than a generic JSON-RPC
// surface) and are not carried forward.
package utils

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/blockstack-chain/marf-store/internal/flags"
	"github.com/blockstack-chain/marf-store/marfconfig"
)

var (
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.StorageCategory,
	}
	DataDirFlag = &cli.StringFlag{
		Name:     "datadir",
		Usage:    "Data directory for the MARF SQLite database and its lock file",
		Category: flags.StorageCategory,
	}
	DBFileFlag = &cli.StringFlag{
		Name:     "db.file",
		Usage:    "Database file name inside datadir",
		Category: flags.StorageCategory,
	}

	LogLevelFlag = &cli.StringFlag{
		Name:     "log.level",
		Usage:    "Logging verbosity: trace, debug, info, warn, error, crit",
		Category: flags.LoggingCategory,
	}
	LogFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Write log output to this file in addition to stderr, rotated with lumberjack",
		Category: flags.LoggingCategory,
	}
	LogJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Format log output as JSON instead of the terminal format",
		Category: flags.LoggingCategory,
	}

	AdminEnabledFlag = &cli.BoolFlag{
		Name:     "admin.enabled",
		Usage:    "Enable the admin HTTP API for runtime observer registration",
		Category: flags.AdminCategory,
	}
	AdminAddrFlag = &cli.StringFlag{
		Name:     "admin.addr",
		Usage:    "Admin HTTP API listen address",
		Category: flags.AdminCategory,
	}
	AdminJWTSecretFlag = &cli.StringFlag{
		Name:     "admin.jwtsecret",
		Usage:    "Secret (used as raw bytes) to sign and verify admin API bearer tokens",
		Category: flags.AdminCategory,
	}
	AdminCORSFlag = &cli.StringFlag{
		Name:     "admin.cors",
		Usage:    "Comma separated list of origins allowed to make cross-origin requests to the admin API",
		Category: flags.AdminCategory,
	}
)

// splitAndTrim splits s on commas and trims whitespace from each piece,
// dropping empty results, the convention comma-separated list flags across
// the ecosystem use.
func splitAndTrim(s string) []string {
	var out []string
	for _, piece := range strings.Split(s, ",") {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// SetConfig applies flags set on ctx onto cfg, overriding anything the
// defaults or a loaded TOML file set, the same flags-override-file-
// overrides-defaults precedence as the original command's SetNodeConfig.
func SetConfig(ctx *cli.Context, cfg *marfconfig.Config) {
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = flags.ExpandHome(ctx.String(DataDirFlag.Name))
	}
	if ctx.IsSet(DBFileFlag.Name) {
		cfg.DBFile = ctx.String(DBFileFlag.Name)
	}
	if ctx.IsSet(LogLevelFlag.Name) {
		cfg.Log.Level = ctx.String(LogLevelFlag.Name)
	}
	if ctx.IsSet(LogFileFlag.Name) {
		cfg.Log.File = ctx.String(LogFileFlag.Name)
	}
	if ctx.IsSet(AdminEnabledFlag.Name) {
		cfg.Admin.Enabled = ctx.Bool(AdminEnabledFlag.Name)
	}
	if ctx.IsSet(AdminAddrFlag.Name) {
		cfg.Admin.ListenAddr = ctx.String(AdminAddrFlag.Name)
	}
	if ctx.IsSet(AdminJWTSecretFlag.Name) {
		cfg.Admin.JWTSecret = ctx.String(AdminJWTSecretFlag.Name)
	}
	if ctx.IsSet(AdminCORSFlag.Name) {
		cfg.Admin.CORSOrigins = splitAndTrim(ctx.String(AdminCORSFlag.Name))
	}
}
