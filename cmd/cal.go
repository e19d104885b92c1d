package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/rangepick/internal/calendar"
	"github.com/marcus/rangepick/internal/models"
	"github.com/marcus/rangepick/internal/output"
	"github.com/marcus/rangepick/internal/selection"
	"github.com/marcus/rangepick/internal/timeutil"
	"github.com/marcus/rangepick/pkg/picker"
)

var (
	calRange rangeFlag
	calMin   dateFlag
	calMax   dateFlag
)

var calCmd = &cobra.Command{
	Use:   "cal [YYYY-MM]",
	Short: "Print month pages with a range highlighted",
	Example: `  rangepick cal
  rangepick cal 2024-02 --pages 3 --range 2024-02-10..2024-03-05
  rangepick cal --last`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		cfg, err := loadCommandConfig(cmd, baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		opts := selection.Options{
			Min:         calMin.Time(),
			Max:         calMax.Time(),
			ColorScheme: cfg.ColorScheme,
			Pages:       cfg.Pages,
		}
		if sel := calRange.Selection(); sel != nil {
			opts.DefaultValue = sel
		} else if last, _ := cmd.Flags().GetBool("last"); last {
			if p := lastPick(baseDir); p != nil {
				opts.DefaultValue = &selection.Selection{Start: p.Start, End: p.End}
			}
		}

		month, err := calMonth(args, opts.DefaultValue)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if len(args) == 0 {
			opts.Pages = calPages(cfg.Pages, opts.DefaultValue)
		}

		fmt.Println(renderCal(month, cfg.WeekStartDay(), opts))
		return nil
	},
}

// calMonth picks the first month to print: the argument, else the month of
// the range start, else the current month.
func calMonth(args []string, sel *selection.Selection) (time.Time, error) {
	if len(args) == 1 {
		t, err := time.ParseInLocation("2006-01", args[0], time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", args[0])
		}
		return t, nil
	}
	if sel != nil && sel.Start != nil {
		return *sel.Start, nil
	}
	return flagNow(), nil
}

// calPages widens the default two pages to three when a highlighted range
// would not fit. A configured page count is kept as is.
func calPages(configured int, sel *selection.Selection) int {
	if configured > 0 || sel == nil || !sel.Complete() {
		return configured
	}
	if timeutil.CountMonths(*sel.Start, *sel.End) >= 2 {
		return 3
	}
	return configured
}

func renderCal(month time.Time, weekStart time.Weekday, opts selection.Options) string {
	if opts.Now == nil {
		opts.Now = flagNow
	}
	m := selection.New(opts)
	grid := calendar.New(
		calendar.WithViewing(month),
		calendar.WithPages(m.Snapshot().Pages),
		calendar.WithWeekStart(weekStart),
		calendar.WithClock(opts.Now),
	)
	m.SetViewing(grid.Viewing())
	return picker.RenderStatic(grid, m.Snapshot())
}

func init() {
	rootCmd.AddCommand(calCmd)

	calCmd.Flags().Int("pages", 0, "Number of months shown side by side (1-3)")
	calCmd.Flags().String("week-start", "", "First day of the week (sunday, monday, ...)")
	calCmd.Flags().String("color", "", "Color scheme: "+fmt.Sprint(models.ColorSchemes))
	calCmd.Flags().Var(&calRange, "range", "Range to highlight START..END")
	calCmd.Flags().Var(&calMin, "min", "Show days before this date as disabled")
	calCmd.Flags().Var(&calMax, "max", "Show days after this date as disabled")
	calCmd.Flags().Bool("last", false, "Highlight the last recorded range")
}
