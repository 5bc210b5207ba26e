package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shivam-909/pagealloc/alloc"
)

var errOutOfMemory = errors.New("out of memory")

var (
	// Global flags
	verbose     bool
	profileMode string
	profileDir  string

	logger   = slog.New(slog.NewTextHandler(os.Stderr, nil))
	printer  = message.NewPrinter(language.English)
	profiler interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:   "allocbench",
	Short: "Exercise the page-cache allocator",
	Long: `allocbench runs allocation-heavy workloads against the process-wide
manual allocator (small-object pool plus page cache over mmap) and against the
Go heap, and prints timings and allocator statistics.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log allocator kernel failures at debug level")
	rootCmd.PersistentFlags().
		StringVar(&profileMode, "profile", "", "Profile the run: cpu, mem, alloc, mutex, block, trace or clock")
	rootCmd.PersistentFlags().StringVar(&profileDir, "profile-dir", ".", "Directory for profile output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	alloc.Default().SetLogger(logger)

	if profileMode == "" {
		return nil
	}
	mode, err := profileOption(profileMode)
	if err != nil {
		return err
	}
	profiler = profile.Start(mode, profile.ProfilePath(profileDir), profile.Quiet)
	return nil
}

func teardown(*cobra.Command, []string) error {
	if profiler != nil {
		profiler.Stop()
	}
	if err := alloc.Shutdown(); err != nil && !errors.Is(err, alloc.ErrClosed) {
		logger.Warn("allocator teardown", "err", err)
	}
	return nil
}

func profileOption(mode string) (func(*profile.Profile), error) {
	switch mode {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "alloc":
		return profile.MemProfileAllocs, nil
	case "mutex":
		return profile.MutexProfile, nil
	case "block":
		return profile.BlockProfile, nil
	case "trace":
		return profile.TraceProfile, nil
	case "clock":
		return profile.ClockProfile, nil
	}
	return nil, fmt.Errorf("unknown profile mode %q", mode)
}
