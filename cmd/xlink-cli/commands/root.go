package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	devenv "xlinkfetcher/dev/env"
	"xlinkfetcher/lib/configutil"
	"xlinkfetcher/lib/restyutil"
	"xlinkfetcher/lib/telemetry"
	"xlinkfetcher/services/mirror"

	"github.com/spf13/cobra"
)

type Config struct {
	NitterInstance string              `json:"nitter_instance" env:"NITTER_INSTANCE"`
	SelectorsFile  string              `json:"selectors_file" env:"SELECTORS_FILE"`
	RequestTimeout configutil.Duration `json:"request_timeout" env:"REQUEST_TIMEOUT"`
}

var (
	configPath *string
	nitterHost *string
	verbose    *bool
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The json5 config file to read nitter_instance and selectors_file from.")
	nitterHost = rootCmd.PersistentFlags().String("nitter", "", "Nitter instance to use, overrides the config.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

var rootCmd = &cobra.Command{
	Use:   "xlink-cli",
	Short: "xlink-cli transforms X/Twitter links to Nitter and fetches posts from the terminal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(telemetry.EnvironmentDevelopment, *verbose)
		if *verbose {
			dumpExchanges()
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// with -v every mirror exchange is written under dev/.state/resty/cli.
func dumpExchanges() {
	dir, err := devenv.ResolvePath("<dev_state>/resty/cli")
	if err != nil {
		slog.Warn("mirror exchanges won't be dumped", "err", err)
		return
	}
	out, err := restyutil.NewFilesystemOutput(dir)
	if err != nil {
		slog.Warn("mirror exchanges won't be dumped", "err", err)
		return
	}
	mirror.SetRestyInstrumentOutput(out)
}

func loadConfig() (Config, error) {
	cfg, err := configutil.Load(*configPath, Config{
		NitterInstance: mirror.DefaultMirrorHost,
		RequestTimeout: configutil.Duration(mirror.DefaultTimeout),
	})
	if err != nil {
		return Config{}, err
	}
	if *nitterHost != "" {
		cfg.NitterInstance = *nitterHost
	}
	return cfg, nil
}

func newFetcher() (*mirror.Fetcher, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	selectors, err := mirror.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return nil, err
	}
	return mirror.NewFetcher(mirror.FetcherOptions{
		MirrorHost:       cfg.NitterInstance,
		Selectors:        selectors,
		Timeout:          cfg.RequestTimeout.Std(),
		CloudflareBypass: true,
	})
}
