package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marcus/rangepick/internal/config"
	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/db"
	"github.com/marcus/rangepick/internal/models"
	"github.com/marcus/rangepick/internal/output"
	"github.com/marcus/rangepick/internal/presets"
	"github.com/marcus/rangepick/internal/selection"
	"github.com/marcus/rangepick/pkg/picker"
)

// errCancelled is returned when the picker exits without a confirmed range.
var errCancelled = errors.New("cancelled")

var (
	pickMin     dateFlag
	pickMax     dateFlag
	pickValue   rangeFlag
	pickDefault rangeFlag
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Open the interactive range picker",
	Long: `Open the interactive range picker and print the confirmed range.

The picker draws on stderr, so stdout carries only the result:

  range=$(rangepick pick --min today)

--value makes the range owned by the caller: edits are reported and folded
back in, as a form library would do with a controlled field.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stderr.Fd())) {
			err := errors.New("pick needs an interactive terminal; use 'rangepick check' in scripts")
			output.Error("%v", err)
			return err
		}

		cfg, err := loadCommandConfig(cmd, baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		set, err := presets.Load(baseDir, cfg.WeekStartDay())
		if err != nil {
			output.Warning("presets: %v", err)
			set = presets.NewSet(presets.Builtin(cfg.WeekStartDay()))
		}

		opts := selection.Options{
			Min:           pickMin.Time(),
			Max:           pickMax.Time(),
			DateTime:      cfg.DateTime,
			Pages:         cfg.Pages,
			ColorScheme:   cfg.ColorScheme,
			RelativeInput: cfg.RelativeInput,
			Logger:        slog.Default(),
		}

		if last, _ := cmd.Flags().GetBool("last"); last {
			if p := lastPick(baseDir); p != nil {
				opts.DefaultValue = &selection.Selection{Start: p.Start, End: p.End}
			}
		}
		if sel := pickDefault.Selection(); sel != nil {
			opts.DefaultValue = sel
		}

		stream, _ := cmd.Flags().GetBool("stream")
		pattern := dateformat.PatternFor(cfg.DateTime)
		owner := newRangeOwner(pickValue.Selection())
		if owner != nil {
			v := owner.Value()
			opts.Value = &v
		}
		if owner != nil {
			opts.OnChange = owner.OnChange
		}

		model := picker.New(picker.Config{
			Selection: opts,
			WeekStart: cfg.WeekStartDay(),
			Presets:   set,
			Logger:    slog.Default(),
		})
		if owner != nil {
			owner.Attach(model.Machine())
		}
		if stream {
			unsubscribe := model.Machine().Subscribe(newChangeStream(pattern).observe)
			defer unsubscribe()
		}

		final, err := picker.Run(cmd.Context(), model, tea.WithOutput(os.Stderr))
		if err != nil {
			output.Error("picker: %v", err)
			return err
		}

		sel, ok := final.Result()
		if !ok {
			return errCancelled
		}

		noHistory, _ := cmd.Flags().GetBool("no-history")
		if !noHistory && !cfg.DisableHistory {
			source := models.SourcePicker
			if final.AppliedPreset() != "" {
				source = models.SourcePreset
			}
			recordPick(baseDir, cfg, sel, source, final.AppliedPreset())
		}
		if name := final.AppliedPreset(); name != "" {
			if err := config.SetLastPreset(baseDir, name); err != nil {
				slog.Debug("save last preset", "err", err)
			}
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(rangeJSON(sel, pattern))
		}
		fmt.Println(picker.FormatRange(sel, pattern))
		return nil
	},
}

// loadCommandConfig loads the config, applies the flags the user set and
// validates the result.
func loadCommandConfig(cmd *cobra.Command, baseDir string) (*models.Config, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, err
	}
	applyPickFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// applyPickFlags overrides config values with flags the user set.
func applyPickFlags(cmd *cobra.Command, cfg *models.Config) {
	flags := cmd.Flags()
	if flags.Changed("datetime") {
		cfg.DateTime, _ = flags.GetBool("datetime")
	}
	if flags.Changed("pages") {
		cfg.Pages, _ = flags.GetInt("pages")
	}
	if flags.Changed("color") {
		cfg.ColorScheme, _ = flags.GetString("color")
	}
	if flags.Changed("week-start") {
		cfg.WeekStart, _ = flags.GetString("week-start")
	}
	if flags.Changed("relative") {
		cfg.RelativeInput, _ = flags.GetBool("relative")
	}
}

func lastPick(baseDir string) *models.Pick {
	database, err := db.Open(baseDir)
	if err != nil {
		if !errors.Is(err, db.ErrNoHistory) {
			output.Warning("history: %v", err)
		}
		return nil
	}
	defer database.Close()

	p, err := database.LastPick()
	if err != nil {
		output.Warning("history: %v", err)
		return nil
	}
	return p
}

// recordPick stores sel in the history database and prunes old entries.
// History is best effort and never fails the command.
func recordPick(baseDir string, cfg *models.Config, sel selection.Selection, source models.PickSource, preset string) {
	database, err := db.Initialize(baseDir)
	if err != nil {
		output.Warning("history: %v", err)
		return
	}
	defer database.Close()

	p := &models.Pick{
		Start:    sel.Start,
		End:      sel.End,
		DateTime: cfg.DateTime,
		Source:   source,
		Preset:   preset,
	}
	if err := database.AddPick(p); err != nil {
		output.Warning("history: %v", err)
		return
	}
	if n, err := database.PrunePicks(cfg.EffectiveHistoryLimit()); err != nil {
		output.Warning("history: %v", err)
	} else if n > 0 {
		slog.Debug("history pruned", "removed", n)
	}
}

type rangeResult struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
	Days  int     `json:"days,omitempty"`
}

func rangeJSON(sel selection.Selection, pattern string) rangeResult {
	var r rangeResult
	if sel.Start != nil {
		s := dateformat.Format(*sel.Start, pattern)
		r.Start = &s
	}
	if sel.End != nil {
		e := dateformat.Format(*sel.End, pattern)
		r.End = &e
	}
	p := models.Pick{Start: sel.Start, End: sel.End}
	r.Days = p.Days()
	return r
}

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().Bool("datetime", false, "Pick minutes as well as days")
	pickCmd.Flags().Int("pages", 0, "Number of months shown side by side (1-3)")
	pickCmd.Flags().String("color", "", "Color scheme: "+fmt.Sprint(models.ColorSchemes))
	pickCmd.Flags().String("week-start", "", "First day of the week (sunday, monday, ...)")
	pickCmd.Flags().Bool("relative", false, "Accept relative input such as today or +7d")
	pickCmd.Flags().Var(&pickMin, "min", "Earliest selectable date")
	pickCmd.Flags().Var(&pickMax, "max", "Latest selectable date")
	pickCmd.Flags().Var(&pickValue, "value", "Caller-owned range START..END")
	pickCmd.Flags().Var(&pickDefault, "default", "Initial range START..END")
	pickCmd.Flags().Bool("last", false, "Start from the last recorded range")
	pickCmd.Flags().Bool("stream", false, "Print each focus or range change as a JSON line")
	pickCmd.Flags().Bool("no-history", false, "Do not record the result")
	pickCmd.Flags().Bool("json", false, "JSON output")
}
