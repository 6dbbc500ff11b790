// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the museum-engine CLI.
// Subcommands load raw museum exports into local caches, search them
// through one filter, and opt in to syncing results into the shared store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/museum-engine/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the museum-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "museum-engine",
	Short: "Load, search and sync museum collection exports",
	Long: `museum-engine reads the open-access exports of several museums into
per-museum local caches and searches them through one unified filter.

Load each museum once with "load", preview results with "search", and add
--save to write a result batch into the shared store. Searching never
writes to the store on its own. A bare flag list runs "search".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logging.Configure(cfg.Log)
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug().Str("file", used).Msg("using config file")
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), log))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./museum-engine.yaml or ~/.config/museum-engine/config.yaml)")
	pf.String("cache-dir", "", "directory holding one cache file per museum (default data/cache)")
	pf.String("raw-dir", "", "parent directory of the per-museum raw exports (default data/raw)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console, json, auto")

	for key, flag := range map[string]string{
		"cache.dir":       "cache-dir",
		"sources.raw_dir": "raw-dir",
		"log.level":       "log-level",
		"log.format":      "log-format",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func initConfig() {
	loadEnvFiles()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("museum-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "museum-engine"))
		}
	}

	viper.SetEnvPrefix("MUSEUM_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
		}
	}
}

// loadEnvFiles loads .env.local and then .env. Variables already set win,
// so .env.local overrides .env and the real environment overrides both.
func loadEnvFiles() {
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}
}

// withDefaultCommand rewrites a bare flag list such as "--query monet
// --save" into "search --query monet --save". Anything that names a
// subcommand, asks for help, or starts with a positional argument is left
// alone.
func withDefaultCommand(root *cobra.Command, args []string) []string {
	if len(args) == 0 || !strings.HasPrefix(args[0], "-") {
		return args
	}
	for _, a := range args {
		if a == "-h" || a == "--help" {
			return args
		}
	}
	if cmd, _, err := root.Find(args); err == nil && cmd != root {
		return args
	}
	return append([]string{"search"}, args...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(withDefaultCommand(rootCmd, os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
