// Command pstnsim is the simulator driver (spec §6 "CLI surface"), built
// with github.com/spf13/cobra (+ github.com/spf13/viper for optional
// config-file overrides), grounded on
// jinterlante1206-AleutianLocal/cmd/aleutian/cli_commands.go's var-block
// command tree and flag-binding style.
package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/pstnexec/decoupled"
	"github.com/katalvlaran/pstnexec/dispatch"
	"github.com/katalvlaran/pstnexec/internal/plog"
	"github.com/katalvlaran/pstnexec/loader"
	"github.com/katalvlaran/pstnexec/resultio"
	"github.com/katalvlaran/pstnexec/runner"
)

var (
	threads     int
	samples     int
	execution   string
	arThreshold float64
	siThreshold float64
	seed        int64
	outputPath  string
	noLive      bool
	configPath  string

	rootCmd = &cobra.Command{
		Use:   "pstnsim [paths...]",
		Short: "Runs Monte-Carlo dispatch simulations over PSTN JSON files",
		Long: `pstnsim loads one or more PSTN JSON instances (files or directories,
recursed) and runs a configurable number of Monte-Carlo dispatch samples
against each, under a chosen reschedule-policy execution strategy.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSimulate,
	}
)

func init() {
	rootCmd.Flags().IntVarP(&threads, "threads", "t", 1, "worker count")
	rootCmd.Flags().IntVarP(&samples, "samples", "s", 100, "samples per STN")
	rootCmd.Flags().StringVarP(&execution, "execution", "e", "early",
		"execution strategy: early, srea, drea, drea-s, drea-si, drea-alp, drea-ar, drea-ara, arsi, arsc, da (decoupled)")
	rootCmd.Flags().Float64Var(&arThreshold, "ar-threshold", 0.0, "AR-phase threshold")
	rootCmd.Flags().Float64Var(&siThreshold, "si-threshold", 0.0, "SI/SC/ALP threshold")
	rootCmd.Flags().Int64Var(&seed, "seed", -1, "base seed (random if unset)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "append CSV results to this path")
	rootCmd.Flags().BoolVar(&noLive, "no-live", false, "suppress progress printing")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional config file overriding the flags above")

	_ = viper.BindPFlag("threads", rootCmd.Flags().Lookup("threads"))
	_ = viper.BindPFlag("samples", rootCmd.Flags().Lookup("samples"))
	_ = viper.BindPFlag("execution", rootCmd.Flags().Lookup("execution"))
	_ = viper.BindPFlag("ar-threshold", rootCmd.Flags().Lookup("ar-threshold"))
	_ = viper.BindPFlag("si-threshold", rootCmd.Flags().Lookup("si-threshold"))
	_ = viper.BindPFlag("seed", rootCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("no-live", rootCmd.Flags().Lookup("no-live"))
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("pstnsim: reading config %s: %w", configPath, err)
		}
		threads = viper.GetInt("threads")
		samples = viper.GetInt("samples")
		execution = viper.GetString("execution")
		arThreshold = viper.GetFloat64("ar-threshold")
		siThreshold = viper.GetFloat64("si-threshold")
		seed = viper.GetInt64("seed")
		outputPath = viper.GetString("output")
		noLive = viper.GetBool("no-live")
	}

	runID := uuid.NewString()
	logger := plog.New(os.Stderr, slog.LevelWarn, runID)

	baseSeed := uint64(seed)
	if seed < 0 {
		baseSeed = rand.Uint64()
	}

	paths, err := harvestPaths(args)
	if err != nil {
		return err
	}

	opts := runner.Options{
		Threads:     threads,
		Samples:     samples,
		BaseSeed:    baseSeed,
		ARThreshold: arThreshold,
		SIThreshold: siThreshold,
		LowerAlpha:  0.0,
		UpperAlpha:  0.999,
		Logger:      logger,
	}
	if execution == "da" {
		opts.Decoupled = true
		opts.DecoupleStrategy = decoupled.Opt
	} else {
		opts.Execution = dispatch.Variant(execution)
	}

	for _, path := range paths {
		stns, err := loader.LoadFile(path)
		if err != nil {
			logger.Error("failed to load STN", "path", path, "error", err)
			return err
		}
		for _, stn := range stns {
			start := time.Now()
			stats, err := runner.Run(stn, opts)
			if err != nil {
				logger.Error("simulation failed", "path", path, "error", err)
				return err
			}
			shape := runner.ComputeShapeStats(stn)

			if outputPath != "" {
				row := resultio.Row{
					Execution:          execution,
					Robustness:         stats.Robustness,
					Threads:            threads,
					RandomSeed:         baseSeed,
					RuntimeSeconds:     time.Since(start).Seconds(),
					Samples:            samples,
					Timestamp:          time.Now().Format(time.RFC3339),
					STNPath:            path,
					ARThreshold:        arThreshold,
					SIThreshold:        siThreshold,
					SynchronousDensity: shape.SynchronousDensity,
					SDAvg:              shape.SDAvg,
					VertCount:          shape.VertCount,
					ContingentDensity:  shape.ContingentDensity,
					RescheduleFreq:     stats.RescheduleFreq,
					SendFreq:           stats.SendFreq,
				}
				if err := resultio.Append(outputPath, row); err != nil {
					return err
				}
			}

			if !noLive {
				fmt.Printf("%s: robustness=%.3f reschedule_freq=%.2f send_freq=%.2f\n",
					path, stats.Robustness, stats.RescheduleFreq, stats.SendFreq)
			}
		}
	}
	return nil
}

// harvestPaths expands args (files or directories) into a flat list of
// .json paths, recursing into directories (spec §6 "positional ... paths
// or directories (recursed)"), grounded on run_simulator.py's
// folder_harvest.
func harvestPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("pstnsim: %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.Walk(arg, func(p string, fi os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !fi.IsDir() && strings.EqualFold(filepath.Ext(p), ".json") {
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("pstnsim: walking %s: %w", arg, err)
		}
	}
	return out, nil
}
