// Package main implements the gndzero CLI tool
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/miku/gndzero/config"
	"github.com/miku/gndzero/operations"
	"github.com/miku/gndzero/pipeline"
	"github.com/miku/gndzero/stages"
	"github.com/miku/gndzero/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "gndzero",
		Short: "Load the GND authority dump into a local record store",
		Long: `gndzero downloads the GND (Gemeinsame Normdatei) authority dump,
decompresses it and loads the records into a durable key-value store,
so lookups by identifier no longer re-parse a multi-gigabyte file.`,
		SilenceUsage: true,
	}

	// Global flags
	configFile  string
	baseDir     string
	verboseMode bool

	cfg *config.Config
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Root of the artifact tree")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Enable verbose output")

	// Add commands
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newLookupCommand())
}

func initConfig() {
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}
	if baseDir != "" {
		cfg.BaseDir = baseDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() pipeline.Logger {
	level := pipeline.LogLevelInfo
	if verboseMode {
		level = pipeline.LogLevelDebug
	}
	return pipeline.NewConsoleLogger(level)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", value)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Run command
func newRunCommand() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the pipeline",
		Long:  "Download, decompress and load the GND dump for a run date, skipping stages that are already complete",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateFlag)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}

			logger := newLogger()
			executor := &operations.NativeExecutor{}
			load := stages.NewLoad(cfg, executor, logger, date)

			runner := pipeline.NewRunner(logger)
			if err := runner.Run(cmd.Context(), load); err != nil {
				return err
			}

			logger.Info("Store ready at %s", load.Output())
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Run date (YYYY-MM-DD, default today)")
	return cmd
}

// Status command
func newStatusCommand() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-stage completeness",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateFlag)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}

			executor := &operations.NativeExecutor{}
			logger := pipeline.NewDefaultLogger()
			load := stages.NewLoad(cfg, executor, logger, date)
			extract := stages.NewExtract(cfg, executor, logger, date)
			dump := stages.NewDump(cfg, executor, logger, date)

			for _, stage := range []pipeline.Stage{dump, extract, load} {
				state := "pending"
				if stage.IsComplete() {
					state = "complete"
				}
				fmt.Printf("%-12s %-9s %s\n", stage.Name(), state, stage.Output())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Run date (YYYY-MM-DD, default today)")
	return cmd
}

// Lookup command
func newLookupCommand() *cobra.Command {
	var (
		dateFlag string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <id>",
		Short: "Look up a record by its GND identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateFlag)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}

			load := stages.NewLoad(cfg, &operations.NativeExecutor{}, pipeline.NewDefaultLogger(), date)
			if !load.IsComplete() {
				return fmt.Errorf("no store built for this date, run 'gndzero run' first")
			}

			st, err := store.Open(load.Output())
			if err != nil {
				return err
			}
			defer st.Close()

			if all {
				contents, err := st.LookupAll(args[0])
				if err != nil {
					return err
				}
				for _, content := range contents {
					fmt.Println(content)
				}
				return nil
			}

			content, err := st.Lookup(args[0])
			if err != nil {
				return err
			}
			fmt.Println(content)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Run date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&all, "all", false, "Print every row stored for the id")
	return cmd
}
