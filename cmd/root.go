package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/iocache"
	"github.com/huangsam/vmfs/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build metadata, stamped through -ldflags by the release pipeline.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	rootCtx      = context.Background()
	cfg          = &contract.Config{}         // validated settings shared by every command
	input        = &contract.ConfigRawInput{} // flags, env and file values before validation
	profile      = &contract.ProfileConfig{}
	cacheManager contract.CacheManager
)

var rootCmd = &cobra.Command{
	Use:   "vmfs",
	Short: "Score and compare verification mechanisms for AI governance.",
	Long: `VMFS ranks verification mechanisms by feasibility across technical, political,
sovereignty impact and Global South adoptability dimensions, and lets you explore
what-if scenarios on a radar chart.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// defaults seeds viper before any flag, env or file value is merged.
var defaults = map[string]any{
	"limit":               contract.DefaultResultLimit,
	"precision":           contract.DefaultPrecision,
	"capacity":            schema.DefaultCapacity,
	"output":              schema.TextOut,
	"sort":                schema.AverageSort,
	"cache-backend":       schema.SQLiteBackend,
	"cache-db-connect":    "",
	"analysis-backend":    "",
	"analysis-db-connect": "",
	"emoji":               "no",
	"color":               "yes",
}

// configureViper looks for --config, else .vmfs.yaml in the working or home directory.
// Environment variables use the VMFS_ prefix with dashes as underscores.
func configureViper() {
	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(".vmfs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}
	viper.SetEnvPrefix("VMFS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	configureViper()
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
}

// readConfigFile merges the config file into viper. A missing file is fine.
func readConfigFile() error {
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("error reading config file: %w", err)
}

// sharedSetup resolves configuration for the scoring commands and opens the stores.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	if err := contract.ProcessProfilingConfig(profile, viper.GetString("profile")); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := activeProfiler.start(profile.Prefix); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	if err := readConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	input.Args = args // positional ids are not viper's concern

	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper adapts sharedSetup to Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// localSetupWrapper binds the command's own flags before the shared setup.
// Commands that share flag names cannot bind them at init without overwriting each other.
func localSetupWrapper(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
	}
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile is the lighter setup used by the cache and analysis commands.
func loadConfigFile() error {
	configureViper()
	return readConfigFile()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager installs the persistence manager used by the scoring commands.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}

// StopProfiling flushes any profiles started by --profile.
func StopProfiling() error {
	return activeProfiler.stop()
}
