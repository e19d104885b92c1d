package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/models"
	"github.com/marcus/rangepick/internal/output"
	"github.com/marcus/rangepick/internal/selection"
	"github.com/marcus/rangepick/pkg/picker"
)

var (
	checkMin dateFlag
	checkMax dateFlag
)

var checkCmd = &cobra.Command{
	Use:   "check START [END]",
	Short: "Validate a range without the interactive picker",
	Long: `Validate a range the way the picker's text fields do and print it.

Each value goes through the same parsing and guards as typed input, so bounds
and ordering errors match what the picker would show.`,
	Example: `  rangepick check 2024-03-01 2024-03-15
  rangepick check --relative --min today today +7d
  rangepick check --datetime 2024-03-01T09:00 2024-03-01T17:30`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg, err := loadCommandConfig(cmd, baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		sel, err := checkRange(args, selection.Options{
			Min:           checkMin.Time(),
			Max:           checkMax.Time(),
			DateTime:      cfg.DateTime,
			RelativeInput: cfg.RelativeInput,
			Logger:        slog.Default(),
		})
		pattern := dateformat.PatternFor(cfg.DateTime)
		if err != nil {
			msg := describeCheckError(err, pattern)
			if jsonOutput {
				output.JSONError("invalid", msg)
			} else {
				output.Error("%s", msg)
			}
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			recordPick(baseDir, cfg, sel, models.SourceCheck, "")
		}

		if jsonOutput {
			return output.JSON(rangeJSON(sel, pattern))
		}
		fmt.Println(picker.FormatRange(sel, pattern))
		return nil
	},
}

// checkRange feeds args through a fresh machine as typed start and end text.
func checkRange(args []string, opts selection.Options) (selection.Selection, error) {
	m := selection.New(opts)
	if err := m.SetFromText(selection.Start, args[0]); err != nil {
		return selection.Selection{}, fmt.Errorf("start: %w", err)
	}
	if len(args) > 1 {
		if err := m.SetFromText(selection.End, args[1]); err != nil {
			return selection.Selection{}, fmt.Errorf("end: %w", err)
		}
	}
	return m.Snapshot().Value(), nil
}

func describeCheckError(err error, pattern string) string {
	endpoint, _, _ := strings.Cut(err.Error(), ":")
	if errors.Is(err, selection.ErrUnparseable) {
		return fmt.Sprintf("%s: expected %s", endpoint, pattern)
	}
	var verr *selection.ValidationError
	if errors.As(err, &verr) {
		reasons := make([]string, 0, len(verr.Errors))
		for _, e := range verr.Errors {
			var gerr *selection.GuardError
			if errors.As(e, &gerr) {
				reasons = append(reasons, gerr.Reason)
			} else {
				reasons = append(reasons, e.Error())
			}
		}
		return endpoint + ": " + strings.Join(reasons, "; ")
	}
	return err.Error()
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Bool("datetime", false, "Values include a time of day")
	checkCmd.Flags().Bool("relative", false, "Accept relative input such as today or +7d")
	checkCmd.Flags().Var(&checkMin, "min", "Earliest allowed date")
	checkCmd.Flags().Var(&checkMax, "max", "Latest allowed date")
	checkCmd.Flags().Bool("save", false, "Record the range in history")
	checkCmd.Flags().Bool("json", false, "JSON output")
}
