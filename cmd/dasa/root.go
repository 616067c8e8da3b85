package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cyp0633/libdasa/dasa"
	"github.com/cyp0633/libdasa/internal/config"
	"github.com/cyp0633/libdasa/internal/logging"
	"github.com/cyp0633/libdasa/julian"
)

var rootCmd = &cobra.Command{
	Use:           "dasa",
	Short:         "Vimsottari period calculator",
	Long:          "dasa builds the nested Vimsottari period tree for a natal Moon longitude, finds the periods active at a given time and exports them as iCalendar or XML.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .dasa.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".dasa")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.BindEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// runtime bundles what every command needs once config is loaded.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	dates  julian.Converter
	engine *dasa.Engine
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log, verbose)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dates := julian.Converter{YearDays: cfg.YearDays, Location: loc}
	engine := dasa.NewEngineWithConfig(dasa.EngineConfig{
		CacheEnabled: cfg.Cache.Enabled,
		CacheConfig: dasa.CacheConfig{
			TTL:             cfg.Cache.TTL,
			MaxEntries:      cfg.Cache.MaxEntries,
			CleanupInterval: cfg.Cache.CleanupInterval,
		},
		Dates:      dates,
		MaxSamples: cfg.MaxSamples,
		Logger:     logger,
	})

	return &runtime{cfg: cfg, logger: logger, dates: dates, engine: engine}, nil
}

func (r *runtime) Close() {
	r.logger.Debug("closing engine", "cache", r.engine.CacheStats())
	r.engine.Close()
}

// formatOptions returns the display options for a tree built from in.
func (r *runtime) formatOptions(in *input) dasa.FormatOptions {
	return dasa.FormatOptions{
		EndLevel:    r.cfg.EffectiveDisplayLevel(in.tree.Depth),
		IndentWidth: r.cfg.IndentWidth,
		Start:       in.startJD,
		Dates:       r.dates,
	}
}
