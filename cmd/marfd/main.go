package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/blockstack-chain/marf-store/admin"
	"github.com/blockstack-chain/marf-store/cmd/utils"
	"github.com/blockstack-chain/marf-store/internal/flags"
	"github.com/blockstack-chain/marf-store/internal/version"
	"github.com/blockstack-chain/marf-store/loghandler"
	"github.com/blockstack-chain/marf-store/marf"
	"github.com/blockstack-chain/marf-store/params"
)

const clientIdentifier = "marfd"

var (
	app = flags.NewApp("the MARF storage daemon")

	logJSONFlag = &cli.BoolFlag{
		Name:  "log.json",
		Usage: "Format log output as JSON instead of the terminal format",
	}

	appFlags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.DataDirFlag,
		utils.DBFileFlag,
		utils.LogLevelFlag,
		utils.LogFileFlag,
		logJSONFlag,
		utils.AdminEnabledFlag,
		utils.AdminAddrFlag,
		utils.AdminJWTSecretFlag,
		utils.AdminCORSFlag,
	}
)

func init() {
	app.Version = version.Describe(params.Version)
	app.Flags = appFlags
	app.Action = serve
	app.Commands = []*cli.Command{
		inspectRootsCommand,
		unlockAllCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		cfg, err := loadBaseConfig(ctx)
		if err != nil {
			return err
		}
		return loghandler.Setup(cfg.Log, ctx.Bool(logJSONFlag.Name))
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serve is the default marfd action: open the store, keep it running
// until the process receives an interrupt, then shut down cleanly.
func serve(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}

	store, err := marf.Open(&cfg, unwiredCodec{})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	log.Info("marfd started", "datadir", cfg.DataDir, "observers", len(cfg.Observers))

	adminCtx, cancelAdmin := context.WithCancel(context.Background())
	defer cancelAdmin()
	if cfg.Admin.Enabled {
		go func() {
			log.Info("admin API listening", "addr", cfg.Admin.ListenAddr)
			if err := admin.ListenAndServe(adminCtx, cfg.Admin, store.Dispatch, store.DB()); err != nil {
				log.Error("admin API stopped", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("marfd shutting down")
	return nil
}

var inspectRootsCommand = &cli.Command{
	Name:  "inspect-roots",
	Usage: "List every committed block's root trie hash",
	Flags: appFlags,
	Action: func(ctx *cli.Context) error {
		cfg, err := loadBaseConfig(ctx)
		if err != nil {
			return err
		}
		store, err := marf.Open(&cfg, unwiredCodec{})
		if err != nil {
			return err
		}
		defer store.Close()

		roots, err := store.DB().ReadAllRoots(context.Background())
		if err != nil {
			return err
		}
		for _, r := range roots {
			fmt.Printf("%s\troot=%x\n", r.BlockHash.Hex(), r.TrieHash)
		}
		return nil
	},
}

var unlockAllCommand = &cli.Command{
	Name:  "unlock-all",
	Usage: "Force-release every held extension lock (recovery tool for a wedged writer)",
	Flags: appFlags,
	Action: func(ctx *cli.Context) error {
		cfg, err := loadBaseConfig(ctx)
		if err != nil {
			return err
		}
		store, err := marf.Open(&cfg, unwiredCodec{})
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DB().UnlockAll(context.Background()); err != nil {
			return err
		}
		fmt.Println("all extension locks released")
		return nil
	},
}
