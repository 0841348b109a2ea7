package flags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

// NewApp creates an app with the common marfd metadata set, following the
// geth-family convention of centralizing this instead of repeating it in
// main.go.
func NewApp(usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Name = filepath.Base(os.Args[0])
	app.Usage = usage
	app.Copyright = ""
	return app
}

// ExpandHome expands a leading "~" in path to the current user's home
// directory, the convention datadir-style flags across the ecosystem
// follow so users can write `--datadir ~/.marfd`.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
