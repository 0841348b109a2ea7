package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/blockstack-chain/marf-store/cmd/utils"
	"github.com/blockstack-chain/marf-store/marfconfig"
)

// tomlSettings ensures TOML keys use the same names as the Go struct
// fields, the same convention the original command's config loader used.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

func loadConfigFile(file string, cfg *marfconfig.Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// loadBaseConfig loads marfconfig.Defaults, then a config file if one was
// named, then any flags set on ctx, in that order of increasing priority.
func loadBaseConfig(ctx *cli.Context) (marfconfig.Config, error) {
	cfg := marfconfig.Defaults()

	if file := ctx.String(utils.ConfigFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, err
		}
	}

	utils.SetConfig(ctx, &cfg)
	return cfg, nil
}
