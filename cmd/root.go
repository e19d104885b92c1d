package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/rangepick/internal/workdir"
)

var (
	version string
	baseDir string
	debug   bool
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "rangepick",
	Short: "Pick date ranges from the terminal",
	Long: `rangepick - A terminal date range picker.

Run without a command to open the interactive picker. The chosen range is
printed to stdout as START..END so it can be captured by scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	rootCmd.Version = version
	rootCmd.SetArgs(defaultArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir, initLogging)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log selection events to stderr")
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
	baseDir = workdir.ResolveBaseDir(baseDir)
}

func initLogging() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// getBaseDir returns the base directory for the project
func getBaseDir() string {
	return baseDir
}

// defaultArgs routes an invocation that names no command to pick, so that
// "rangepick --datetime" opens the picker.
func defaultArgs(args []string) []string {
	for _, a := range args {
		switch a {
		case "-h", "--help", "-v", "--version":
			return args
		}
	}
	if name := firstNonFlagArg(args); name != "" && isCommand(name) {
		return args
	}
	return append([]string{"pick"}, args...)
}

func isCommand(name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// firstNonFlagArg returns the first argument that does not look like a flag.
func firstNonFlagArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}
